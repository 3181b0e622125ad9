package store

import (
	"context"
	"strings"

	"finance_tracker/internal/domain"

	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

// Locations is the location registry.
type Locations struct {
	db *gorm.DB
}

// NewLocations returns a Locations store over db.
func NewLocations(db *gorm.DB) *Locations {
	return &Locations{db: db}
}

// Create inserts loc. A taken name yields domain.ErrConflict.
func (s *Locations) Create(ctx context.Context, loc *domain.Location) error {
	return mapError(s.db.WithContext(ctx).Create(loc).Error)
}

// All returns the whole catalog ordered by id.
func (s *Locations) All(ctx context.Context) ([]domain.Location, error) {
	var locs []domain.Location
	if err := s.db.WithContext(ctx).Order("id").Find(&locs).Error; err != nil {
		return nil, err
	}
	return locs, nil
}

// Search returns locations whose name contains q, ignoring case. Names are
// case folded in Go: SQL LOWER() only folds ASCII on some dialects.
func (s *Locations) Search(ctx context.Context, q string) ([]domain.Location, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	fold := cases.Fold()
	needle := fold.String(q)
	locs := make([]domain.Location, 0, len(all))
	for _, loc := range all {
		if strings.Contains(fold.String(loc.Name), needle) {
			locs = append(locs, loc)
		}
	}
	return locs, nil
}

// ByID looks a location up by primary key.
func (s *Locations) ByID(ctx context.Context, id uint) (*domain.Location, error) {
	var loc domain.Location
	if err := s.db.WithContext(ctx).First(&loc, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &loc, nil
}

// ByName looks a location up by its unique name.
func (s *Locations) ByName(ctx context.Context, name string) (*domain.Location, error) {
	var loc domain.Location
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&loc).Error; err != nil {
		return nil, mapError(err)
	}
	return &loc, nil
}

// ByNames returns the locations matching any of names, keyed by name.
func (s *Locations) ByNames(ctx context.Context, names []string) (map[string]domain.Location, error) {
	out := make(map[string]domain.Location, len(names))
	if len(names) == 0 {
		return out, nil
	}
	var locs []domain.Location
	if err := s.db.WithContext(ctx).Where("name IN ?", names).Find(&locs).Error; err != nil {
		return nil, err
	}
	for _, loc := range locs {
		out[loc.Name] = loc
	}
	return out, nil
}

// Update saves every field of loc. When the name changes, transactions that
// referenced oldName are re-pointed to the new name in the same database
// transaction.
func (s *Locations) Update(ctx context.Context, loc *domain.Location, oldName string) error {
	return mapError(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(loc).
			Select("Name", "Latitude", "Longitude").
			Updates(loc).Error
		if err != nil {
			return err
		}
		if oldName == loc.Name {
			return nil
		}
		return tx.Model(&domain.Transaction{}).
			Where("location_name = ?", oldName).
			Update("location_name", loc.Name).Error
	}))
}

// Delete removes loc unless a transaction references it, in which case
// ErrLocationInUse is returned and nothing changes.
func (s *Locations) Delete(ctx context.Context, loc *domain.Location) error {
	return mapError(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		err := tx.Model(&domain.Transaction{}).
			Where("location_name = ?", loc.Name).
			Count(&refs).Error
		if err != nil {
			return err
		}
		if refs > 0 {
			return ErrLocationInUse
		}
		res := tx.Delete(&domain.Location{}, loc.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	}))
}
