// Package location manages the shared location catalog that transactions
// reference by name.
package location

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"finance_tracker/internal/cache"
	"finance_tracker/internal/domain"
	"finance_tracker/internal/store"

	"github.com/sirupsen/logrus"
)

// catalogKey caches the full catalog.
const catalogKey = "locations:all"

// Store is the location registry the service needs.
type Store interface {
	Create(ctx context.Context, loc *domain.Location) error
	All(ctx context.Context) ([]domain.Location, error)
	Search(ctx context.Context, q string) ([]domain.Location, error)
	ByID(ctx context.Context, id uint) (*domain.Location, error)
	ByName(ctx context.Context, name string) (*domain.Location, error)
	Update(ctx context.Context, loc *domain.Location, oldName string) error
	Delete(ctx context.Context, loc *domain.Location) error
}

// Input carries the caller supplied fields of a create or update.
type Input struct {
	Name      string
	Latitude  *float64
	Longitude *float64
}

// Service is the location catalog service
type Service struct {
	locs     Store
	cache    cache.Cache
	cacheTTL time.Duration
	log      logrus.FieldLogger
}

// NewService wires the location service. A nil cache disables caching.
func NewService(locs Store, c cache.Cache, ttl time.Duration, log logrus.FieldLogger) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	return &Service{locs: locs, cache: c, cacheTTL: ttl, log: log}
}

// Create adds a location to the catalog.
func (s *Service) Create(ctx context.Context, in Input) (*domain.Location, error) {
	loc, err := validate(in)
	if err != nil {
		return nil, err
	}

	if _, err := s.locs.ByName(ctx, loc.Name); err == nil {
		return nil, domain.Conflict("location name already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("location: lookup name: %w", err)
	}

	if err := s.locs.Create(ctx, loc); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.Conflict("location name already exists")
		}
		s.log.WithFields(logrus.Fields{"name": loc.Name, "error": err.Error()}).Error("Failed to add location")
		return nil, domain.WriteFailure("failed to add location")
	}

	s.log.WithFields(logrus.Fields{"location_id": loc.ID, "name": loc.Name}).Info("Location added")
	s.invalidate(ctx)
	return loc, nil
}

// List returns the whole catalog ordered by id.
func (s *Service) List(ctx context.Context) ([]domain.Location, error) {
	var cached []domain.Location
	found, err := s.cache.Get(ctx, catalogKey, &cached)
	if err != nil {
		s.log.WithField("error", err.Error()).Warn("Location cache read failed")
	} else if found {
		return cached, nil
	}

	locs, err := s.locs.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("location: list: %w", err)
	}
	if locs == nil {
		locs = []domain.Location{}
	}
	if err := s.cache.Set(ctx, catalogKey, locs, s.cacheTTL); err != nil {
		s.log.WithField("error", err.Error()).Warn("Location cache write failed")
	}
	return locs, nil
}

// Search matches q as a case-insensitive substring of location names. A blank
// query matches nothing.
func (s *Service) Search(ctx context.Context, q string) ([]domain.Location, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []domain.Location{}, nil
	}
	locs, err := s.locs.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("location: search: %w", err)
	}
	if locs == nil {
		locs = []domain.Location{}
	}
	return locs, nil
}

// Update replaces every field of a location. Renaming re-points the
// transactions that referenced the old name.
func (s *Service) Update(ctx context.Context, id uint, in Input) (*domain.Location, error) {
	existing, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	loc, err := validate(in)
	if err != nil {
		return nil, err
	}
	loc.ID = existing.ID

	if loc.Name != existing.Name {
		other, err := s.locs.ByName(ctx, loc.Name)
		switch {
		case err == nil && other.ID != id:
			return nil, domain.Conflict("location name already exists")
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("location: lookup name: %w", err)
		}
	}

	if err := s.locs.Update(ctx, loc, existing.Name); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.Conflict("location name already exists")
		}
		s.log.WithFields(logrus.Fields{"location_id": id, "error": err.Error()}).Error("Failed to update location")
		return nil, domain.WriteFailure("failed to update location")
	}

	fields := logrus.Fields{"location_id": id}
	if loc.Name != existing.Name {
		fields["renamed_from"] = existing.Name
	}
	s.log.WithFields(fields).Info("Location updated")
	s.invalidate(ctx)
	return loc, nil
}

// Delete removes a location no transaction references.
func (s *Service) Delete(ctx context.Context, id uint) error {
	loc, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.locs.Delete(ctx, loc); err != nil {
		switch {
		case errors.Is(err, store.ErrLocationInUse):
			return domain.Conflict("location is in use")
		case errors.Is(err, domain.ErrNotFound):
			return domain.NotFound("location not found")
		}
		s.log.WithFields(logrus.Fields{"location_id": id, "error": err.Error()}).Error("Failed to delete location")
		return domain.WriteFailure("failed to delete location")
	}

	s.log.WithField("location_id", id).Info("Location deleted")
	s.invalidate(ctx)
	return nil
}

func (s *Service) get(ctx context.Context, id uint) (*domain.Location, error) {
	loc, err := s.locs.ByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("location not found")
	}
	if err != nil {
		return nil, fmt.Errorf("location: get: %w", err)
	}
	return loc, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, catalogKey); err != nil {
		s.log.WithField("error", err.Error()).Warn("Location cache invalidation failed")
	}
}

func validate(in Input) (*domain.Location, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Latitude == nil || in.Longitude == nil {
		return nil, domain.Validation("name, latitude and longitude are required")
	}
	if utf8.RuneCountInString(name) > 150 {
		return nil, domain.Validation("name must be at most 150 characters")
	}
	if *in.Latitude < -90 || *in.Latitude > 90 {
		return nil, domain.Validation("latitude must be between -90 and 90")
	}
	if *in.Longitude < -180 || *in.Longitude > 180 {
		return nil, domain.Validation("longitude must be between -180 and 180")
	}
	return &domain.Location{Name: name, Latitude: *in.Latitude, Longitude: *in.Longitude}, nil
}
