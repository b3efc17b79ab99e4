package models

import "time"

// Collection keys shared by every client of the same salon. A key names one
// independently synchronised collection on both the local and remote store.
const (
	CollectionClients      = "clients"
	CollectionServices     = "services"
	CollectionStaff        = "staff"
	CollectionTransactions = "transactions"
	CollectionAppointments = "appointments"
	CollectionEnquiries    = "enquiries"
	CollectionFeedbacks    = "feedbacks"
	CollectionCategories   = "categories"
)

// SalonCollections lists every collection key in display order.
var SalonCollections = []string{
	CollectionClients,
	CollectionServices,
	CollectionStaff,
	CollectionTransactions,
	CollectionAppointments,
	CollectionEnquiries,
	CollectionFeedbacks,
	CollectionCategories,
}

// SeedEpoch stamps the default records a device starts from. Any record
// edited on any device is newer, so defaults never overwrite real data.
var SeedEpoch = time.Unix(0, 0).UTC()

// SeedCategories returns the default service categories stamped with at.
func SeedCategories(at time.Time) []Category {
	ts := FormatTimestamp(at)
	return []Category{
		{Syncable: Syncable{ID: "Hair", LastModified: ts}, Name: "Hair"},
		{Syncable: Syncable{ID: "Nails", LastModified: ts}, Name: "Nails"},
		{Syncable: Syncable{ID: "Skin", LastModified: ts}, Name: "Skin"},
	}
}

// SeedServices returns the default service and product catalogue stamped
// with at.
func SeedServices(at time.Time) []Service {
	ts := FormatTimestamp(at)
	svc := func(id, name, category string, price float64, duration int) Service {
		return Service{
			Syncable: Syncable{ID: id, LastModified: ts},
			Name:     name,
			Category: category,
			Price:    price,
			Duration: duration,
		}
	}

	return []Service{
		svc("S001", "Men's Haircut", "Hair", 400, 30),
		svc("S002", "Women's Haircut", "Hair", 800, 60),
		svc("S003", "Hair Spa", "Hair", 1500, 90),
		svc("S004", "Global Hair Color", "Hair", 4500, 180),
		svc("S005", "Manicure", "Nails", 600, 45),
		svc("S006", "Pedicure", "Nails", 750, 60),
		svc("S007", "Gel Nail Extensions", "Nails", 2500, 120),
		svc("S008", "Classic Facial", "Skin", 1200, 60),
		svc("S009", "Detan Pack", "Skin", 800, 30),
		svc("P001", "Shampoo (250ml)", "Product", 950, 0),
		svc("P002", "Hair Serum", "Product", 1300, 0),
	}
}

// SeedStaff returns the default staff roster stamped with at.
func SeedStaff(at time.Time) []Staff {
	ts := FormatTimestamp(at)
	return []Staff{
		{Syncable: Syncable{ID: "E01", LastModified: ts}, Name: "Riya Sharma"},
		{Syncable: Syncable{ID: "E02", LastModified: ts}, Name: "Ankit Patel"},
		{Syncable: Syncable{ID: "E03", LastModified: ts}, Name: "Priya Singh"},
		{Syncable: Syncable{ID: "E04", LastModified: ts}, Name: "Vikram Kumar"},
	}
}
