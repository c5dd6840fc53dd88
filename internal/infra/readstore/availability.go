package readstore

import (
	"catotel/internal/infra/repository"
)

// AvailabilityReadStore composes the catalog and schedule reads the
// availability search needs. The write side already owns both queries; the
// read side reuses them untouched.
type AvailabilityReadStore struct {
	*repository.CatalogRepository
	*repository.ScheduleRepository
}

func NewAvailabilityReadStore(catalog *repository.CatalogRepository, schedule *repository.ScheduleRepository) *AvailabilityReadStore {
	return &AvailabilityReadStore{CatalogRepository: catalog, ScheduleRepository: schedule}
}
