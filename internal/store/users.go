package store

import (
	"context"

	"finance_tracker/internal/domain"

	"gorm.io/gorm"
)

// Users is the identity store.
type Users struct {
	db *gorm.DB
}

// NewUsers returns a Users store over db.
func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// Create inserts u and fills its ID. A taken email yields domain.ErrConflict.
func (s *Users) Create(ctx context.Context, u *domain.User) error {
	return mapError(s.db.WithContext(ctx).Create(u).Error)
}

// ByEmail looks a user up by exact (already normalized) email.
func (s *Users) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

// ByID looks a user up by primary key.
func (s *Users) ByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

// Delete removes the user and every transaction they own in one database transaction.
func (s *Users) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&domain.Transaction{}).Error; err != nil {
			return err // Return error to rollback
		}
		res := tx.Delete(&domain.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound // Rolls back the cascade too
		}
		return nil
	})
}
