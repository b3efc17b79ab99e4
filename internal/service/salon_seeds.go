package service

import (
	"slices"
	"time"

	"github.com/MKhiriev/go-salon-sync/models"
)

// RestoreSeeds adds back every default category, service and staff member
// whose id is missing from the open collections. Records that exist are
// kept as they are, edited or not. Collections of s that are not open are
// skipped. It returns how many records were added per collection key.
func RestoreSeeds(s *Salon, now time.Time) map[string]int {
	added := make(map[string]int)
	if s.Categories != nil {
		added[s.Categories.Key()] = addMissing(s.Categories, models.SeedCategories(now))
	}
	if s.Services != nil {
		added[s.Services.Key()] = addMissing(s.Services, models.SeedServices(now))
	}
	if s.Staff != nil {
		added[s.Staff.Key()] = addMissing(s.Staff, models.SeedStaff(now))
	}
	return added
}

// addMissing appends the records of seeds whose ids c does not hold. It
// leaves c untouched, and schedules no push, when nothing is missing.
func addMissing[T models.Record](c *Collection[T], seeds []T) int {
	if len(missing(c.Value(), seeds)) == 0 {
		return 0
	}

	var n int
	c.Update(func(current []T) []T {
		add := missing(current, seeds)
		n = len(add)
		return append(current, add...)
	})
	return n
}

func missing[T models.Record](current, seeds []T) []T {
	var out []T
	for _, rec := range seeds {
		has := slices.ContainsFunc(current, func(r T) bool { return r.RecordID() == rec.RecordID() })
		if !has {
			out = append(out, rec)
		}
	}
	return out
}
