package utils

import "github.com/google/uuid"

// UUIDGenerator hands out version 7 UUIDs. Their time ordering keeps trace
// ids and record ids created on one device sortable by creation time.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate falls back to a random v4 UUID if the clock source fails.
func (g *UUIDGenerator) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
