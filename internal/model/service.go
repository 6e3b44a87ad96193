package model

// Service is one treatment the clinic offers. Slots are the full daily
// catalog in display order, independent of date; per-date availability
// is always computed, never stored.
type Service struct {
	Base
	Name  string      `json:"name" db:"name"`
	Slots StringSlice `json:"slots" db:"slots"`
	Price int64       `json:"price" db:"price"`
}

// ServiceAvailability is a service with only its remaining open slots
// for a requested date, catalog order preserved.
type ServiceAvailability struct {
	Service
	AvailableSlots []string `json:"available_slots"`
}
