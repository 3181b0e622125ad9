package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"finance_tracker/internal/cache"
	"finance_tracker/internal/domain"
	"finance_tracker/internal/store"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Options tunes a Service. The zero value is usable.
type Options struct {
	Defaults Defaults
	Cache    cache.Cache   // Summary cache, nil disables caching
	CacheTTL time.Duration // Lifetime of cached summaries
	Now      func() time.Time
}

// Service is the ledger service. Every operation is scoped to a user.
type Service struct {
	txs      TransactionStore
	locs     LocationLookup
	cache    cache.Cache
	cacheTTL time.Duration
	defaults Defaults
	now      func() time.Time
	log      logrus.FieldLogger
}

// NewService wires the ledger service.
func NewService(txs TransactionStore, locs LocationLookup, log logrus.FieldLogger, opts Options) *Service {
	s := &Service{
		txs:      txs,
		locs:     locs,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		defaults: opts.Defaults,
		now:      opts.Now,
		log:      log,
	}
	if s.cache == nil {
		s.cache = cache.Nop{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.defaults.CurrencyRate == 0 {
		s.defaults.CurrencyRate = 1
	}
	return s
}

// List returns every transaction of userID with its location resolved.
func (s *Service) List(ctx context.Context, userID uint) ([]Entry, error) {
	ts, err := s.txs.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ledger: list: %w", err)
	}
	return s.expand(ctx, ts)
}

// Get returns one of userID's transactions. Transactions of other users are
// reported as missing.
func (s *Service) Get(ctx context.Context, userID, id uint) (*Entry, error) {
	t, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	entries, err := s.expand(ctx, []domain.Transaction{*t})
	if err != nil {
		return nil, err
	}
	return &entries[0], nil
}

// Create validates in and records it as a new transaction of userID.
func (s *Service) Create(ctx context.Context, userID uint, in Input) (*Entry, error) {
	t, err := s.build(in)
	if err != nil {
		return nil, err
	}
	t.UserID = userID

	if err := s.txs.Create(ctx, t); err != nil {
		if errors.Is(err, store.ErrUnknownLocation) {
			return nil, domain.Validation("invalid location name")
		}
		s.log.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Failed to add transaction")
		return nil, domain.WriteFailure("failed to add transaction")
	}

	s.log.WithFields(logrus.Fields{
		"user_id":        userID,
		"transaction_id": t.ID,
		"type":           t.Type,
		"amount":         t.Amount,
	}).Info("Transaction added")
	s.invalidate(ctx, userID, t.Date)
	return s.expandWritten(ctx, t), nil
}

// Update replaces every field of one of userID's transactions.
func (s *Service) Update(ctx context.Context, userID, id uint, in Input) (*Entry, error) {
	existing, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	t, err := s.build(in)
	if err != nil {
		return nil, err
	}
	t.ID = existing.ID
	t.UserID = userID
	t.CreatedAt = existing.CreatedAt

	if err := s.txs.Update(ctx, t); err != nil {
		if errors.Is(err, store.ErrUnknownLocation) {
			return nil, domain.Validation("invalid location name")
		}
		s.log.WithFields(logrus.Fields{
			"user_id":        userID,
			"transaction_id": id,
			"error":          err.Error(),
		}).Error("Failed to update transaction")
		return nil, domain.WriteFailure("failed to update transaction")
	}

	s.log.WithFields(logrus.Fields{
		"user_id":        userID,
		"transaction_id": id,
	}).Info("Transaction updated")
	s.invalidate(ctx, userID, existing.Date, t.Date)

	// Re-read so the returned timestamps are the stored ones
	if fresh, err := s.txs.ByID(ctx, userID, id); err == nil {
		t = fresh
	}
	return s.expandWritten(ctx, t), nil
}

// Delete removes one of userID's transactions.
func (s *Service) Delete(ctx context.Context, userID, id uint) error {
	existing, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.txs.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("transaction not found")
		}
		s.log.WithFields(logrus.Fields{
			"user_id":        userID,
			"transaction_id": id,
			"error":          err.Error(),
		}).Error("Failed to delete transaction")
		return domain.WriteFailure("failed to delete transaction")
	}

	s.log.WithFields(logrus.Fields{
		"user_id":        userID,
		"transaction_id": id,
	}).Info("Transaction deleted")
	s.invalidate(ctx, userID, existing.Date)
	return nil
}

// Summary totals userID's income and expense for one calendar month. A zero
// month or year means the current one.
func (s *Service) Summary(ctx context.Context, userID uint, month, year int) (*Summary, error) {
	now := s.now()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	if month < 1 || month > 12 {
		return nil, domain.Validation("month must be between 1 and 12")
	}
	if year < 1 || year > 9999 {
		return nil, domain.Validation("year must be between 1 and 9999")
	}

	key := summaryKey(userID, year, month)
	var cached Summary
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Summary cache read failed")
	} else if found {
		return &cached, nil
	}

	from, to := domain.MonthRange(year, time.Month(month))
	ts, err := s.txs.InRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("ledger: summary: %w", err)
	}

	income, expense := decimal.Zero, decimal.Zero
	for _, t := range ts {
		switch t.Type {
		case domain.KindIncome:
			income = income.Add(decimal.NewFromFloat(t.Amount))
		case domain.KindExpense:
			expense = expense.Add(decimal.NewFromFloat(t.Amount))
		}
	}
	sum := &Summary{
		Month:        month,
		Year:         year,
		IncomeTotal:  income.InexactFloat64(),
		ExpenseTotal: expense.InexactFloat64(),
		Balance:      income.Sub(expense).InexactFloat64(),
	}

	if err := s.cache.Set(ctx, key, sum, s.cacheTTL); err != nil {
		s.log.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Summary cache write failed")
	}
	return sum, nil
}

func (s *Service) owned(ctx context.Context, userID, id uint) (*domain.Transaction, error) {
	t, err := s.txs.ByID(ctx, userID, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("transaction not found")
	}
	if err != nil {
		return nil, fmt.Errorf("ledger: get: %w", err)
	}
	return t, nil
}

// build validates in and applies defaults. Create and update share it so both
// follow the same rules.
func (s *Service) build(in Input) (*domain.Transaction, error) {
	category := strings.TrimSpace(in.Category)
	if in.Type == "" || in.Amount == nil || category == "" || in.Date == "" {
		return nil, domain.Validation("type, amount, category and date are required")
	}
	kind := domain.Kind(in.Type)
	if !kind.Valid() {
		return nil, domain.Validation("type must be income or expense")
	}
	if *in.Amount < 0 {
		return nil, domain.Validation("amount must not be negative")
	}
	date, err := domain.ParseDate(in.Date)
	if err != nil {
		return nil, domain.Validation("date must be formatted as YYYY-MM-DD")
	}

	t := &domain.Transaction{
		Type:         kind,
		Amount:       *in.Amount,
		Category:     category,
		Note:         in.Note,
		Date:         date,
		CurrencyCode: in.CurrencyCode,
		CurrencyRate: s.defaults.CurrencyRate,
		TimeZone:     in.TimeZone,
	}
	if t.CurrencyCode == "" {
		t.CurrencyCode = s.defaults.CurrencyCode
	}
	if in.CurrencyRate != nil {
		if *in.CurrencyRate <= 0 {
			return nil, domain.Validation("currency_rate must be positive")
		}
		t.CurrencyRate = *in.CurrencyRate
	}
	if t.TimeZone == "" {
		t.TimeZone = s.defaults.TimeZone
	}
	if name := strings.TrimSpace(in.Location); name != "" {
		t.LocationName = &name
	}
	return t, nil
}

// expand joins each transaction with its location using one lookup.
func (s *Service) expand(ctx context.Context, ts []domain.Transaction) ([]Entry, error) {
	var names []string
	seen := make(map[string]bool)
	for _, t := range ts {
		if t.LocationName != nil && !seen[*t.LocationName] {
			seen[*t.LocationName] = true
			names = append(names, *t.LocationName)
		}
	}
	locs, err := s.locs.ByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("ledger: resolve locations: %w", err)
	}

	entries := make([]Entry, len(ts))
	for i, t := range ts {
		entries[i] = Entry{Transaction: t}
		if t.LocationName == nil {
			continue
		}
		if loc, ok := locs[*t.LocationName]; ok {
			entries[i].Location = &loc
		}
	}
	return entries, nil
}

// expandWritten expands a transaction that was just persisted. The write
// already succeeded, so a failed lookup only drops the location.
func (s *Service) expandWritten(ctx context.Context, t *domain.Transaction) *Entry {
	entries, err := s.expand(ctx, []domain.Transaction{*t})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"transaction_id": t.ID,
			"error":          err.Error(),
		}).Warn("Failed to resolve location")
		return &Entry{Transaction: *t}
	}
	return &entries[0]
}

// invalidate drops the cached summaries of the months touched by a write.
func (s *Service) invalidate(ctx context.Context, userID uint, dates ...domain.Date) {
	keys := make([]string, 0, len(dates))
	for _, d := range dates {
		keys = append(keys, summaryKey(userID, d.Year(), int(d.Month())))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Summary cache invalidation failed")
	}
}

func summaryKey(userID uint, year, month int) string {
	return fmt.Sprintf("summary:user:%d:%04d-%02d", userID, year, month)
}
