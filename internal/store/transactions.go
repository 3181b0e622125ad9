package store

import (
	"context"

	"finance_tracker/internal/domain"

	"gorm.io/gorm"
)

// Transactions is the transaction ledger. Every read and write is scoped to
// an owning user.
type Transactions struct {
	db *gorm.DB
}

// NewTransactions returns a Transactions store over db.
func NewTransactions(db *gorm.DB) *Transactions {
	return &Transactions{db: db}
}

// Create inserts t. A location reference that does not resolve yields
// ErrUnknownLocation; any failure rolls the whole write back.
func (s *Transactions) Create(ctx context.Context, t *domain.Transaction) error {
	return mapError(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkLocation(tx, t.LocationName); err != nil {
			return err
		}
		return tx.Create(t).Error
	}))
}

// Update replaces every mutable field of t, scoped to t.UserID. Callers
// check ownership first: MySQL reports zero affected rows for a no-op update,
// so RowsAffected cannot tell a missing row apart.
func (s *Transactions) Update(ctx context.Context, t *domain.Transaction) error {
	return mapError(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkLocation(tx, t.LocationName); err != nil {
			return err
		}
		return tx.Model(t).
			Where("user_id = ?", t.UserID).
			Select("*").
			Omit("ID", "UserID", "CreatedAt").
			Updates(t).Error
	}))
}

// ByID returns the transaction with id if userID owns it.
func (s *Transactions) ByID(ctx context.Context, userID, id uint) (*domain.Transaction, error) {
	var t domain.Transaction
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&t).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &t, nil
}

// ListByUser returns every transaction of userID in insertion order.
func (s *Transactions) ListByUser(ctx context.Context, userID uint) ([]domain.Transaction, error) {
	var ts []domain.Transaction
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&ts).Error; err != nil {
		return nil, err
	}
	return ts, nil
}

// InRange returns userID's transactions dated in [from, to).
func (s *Transactions) InRange(ctx context.Context, userID uint, from, to domain.Date) ([]domain.Transaction, error) {
	var ts []domain.Transaction
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Order("id").
		Find(&ts).Error
	if err != nil {
		return nil, err
	}
	return ts, nil
}

// Delete removes the transaction with id if userID owns it.
func (s *Transactions) Delete(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Transaction{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func checkLocation(tx *gorm.DB, name *string) error {
	if name == nil {
		return nil
	}
	var n int64
	if err := tx.Model(&domain.Location{}).Where("name = ?", *name).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrUnknownLocation
	}
	return nil
}
