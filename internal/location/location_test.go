package location

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"finance_tracker/internal/cache"
	"finance_tracker/internal/db/dbtest"
	"finance_tracker/internal/domain"
	"finance_tracker/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func coord(v float64) *float64 { return &v }

type fixture struct {
	ctx context.Context
	gdb *gorm.DB
	svc *Service
	mr  *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := dbtest.New(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger, _ := test.NewNullLogger()
	return &fixture{
		ctx: context.Background(),
		gdb: gdb,
		svc: NewService(store.NewLocations(gdb), cache.NewRedis(client), time.Minute, logger),
		mr:  mr,
	}
}

func (f *fixture) create(t *testing.T, name string) *domain.Location {
	t.Helper()
	loc, err := f.svc.Create(f.ctx, Input{Name: name, Latitude: coord(-6.2), Longitude: coord(106.8)})
	require.NoError(t, err)
	return loc
}

// reference stores a transaction that points at name, bypassing the ledger.
func (f *fixture) reference(t *testing.T, name string) *domain.Transaction {
	t.Helper()
	u := &domain.User{Name: "Ana", Email: "ana-" + name + "@x.com", PasswordHash: "h"}
	require.NoError(t, store.NewUsers(f.gdb).Create(f.ctx, u))
	tx := &domain.Transaction{
		UserID:       u.ID,
		Type:         domain.KindExpense,
		Amount:       1,
		Category:     "food",
		Date:         domain.NewDate(2024, time.January, 1),
		CurrencyCode: "IDR",
		CurrencyRate: 1,
		TimeZone:     "Asia/Jakarta",
		LocationName: &name,
	}
	require.NoError(t, store.NewTransactions(f.gdb).Create(f.ctx, tx))
	return tx
}

func TestCreate(t *testing.T) {
	f := newFixture(t)

	loc := f.create(t, "  Grand Mall ")
	assert.NotZero(t, loc.ID)
	assert.Equal(t, "Grand Mall", loc.Name)
	assert.Equal(t, -6.2, loc.Latitude)
	assert.Equal(t, 106.8, loc.Longitude)

	_, err := f.svc.Create(f.ctx, Input{Name: "Grand Mall", Latitude: coord(0), Longitude: coord(0)})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)

	cases := map[string]Input{
		"missing name":      {Latitude: coord(0), Longitude: coord(0)},
		"missing latitude":  {Name: "A", Longitude: coord(0)},
		"missing longitude": {Name: "A", Latitude: coord(0)},
		"latitude range":    {Name: "A", Latitude: coord(91), Longitude: coord(0)},
		"longitude range":   {Name: "A", Latitude: coord(0), Longitude: coord(-181)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Create(f.ctx, in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	// Zero coordinates are valid values, not missing ones
	_, err := f.svc.Create(f.ctx, Input{Name: "Null Island", Latitude: coord(0), Longitude: coord(0)})
	assert.NoError(t, err)
}

func TestCreate_NameLengthCountsCharacters(t *testing.T) {
	f := newFixture(t)

	loc, err := f.svc.Create(f.ctx, Input{Name: strings.Repeat("東", 150), Latitude: coord(35.6), Longitude: coord(139.7)})
	require.NoError(t, err)
	assert.Equal(t, 150, utf8.RuneCountInString(loc.Name))

	_, err = f.svc.Create(f.ctx, Input{Name: strings.Repeat("東", 151), Latitude: coord(0), Longitude: coord(0)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestList_CachedAndInvalidated(t *testing.T) {
	f := newFixture(t)

	locs, err := f.svc.List(f.ctx)
	require.NoError(t, err)
	assert.NotNil(t, locs)
	assert.Empty(t, locs)

	f.create(t, "Office")
	f.create(t, "Home")
	assert.False(t, f.mr.Exists(catalogKey))

	locs, err = f.svc.List(f.ctx)
	require.NoError(t, err)
	require.Len(t, locs, 2)
	assert.Equal(t, "Office", locs[0].Name)
	assert.Equal(t, "Home", locs[1].Name)
	assert.True(t, f.mr.Exists(catalogKey))

	// Served from the cache while it is warm
	locs, err = f.svc.List(f.ctx)
	require.NoError(t, err)
	assert.Len(t, locs, 2)

	require.NoError(t, f.svc.Delete(f.ctx, locs[1].ID))
	assert.False(t, f.mr.Exists(catalogKey))

	locs, err = f.svc.List(f.ctx)
	require.NoError(t, err)
	assert.Len(t, locs, 1)
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	f.create(t, "Grand Mall")
	f.create(t, "Mall of Indonesia")
	f.create(t, "Office")
	f.create(t, "100% Coffee")

	locs, err := f.svc.Search(f.ctx, "MALL")
	require.NoError(t, err)
	assert.Len(t, locs, 2)

	locs, err = f.svc.Search(f.ctx, "%")
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, "100% Coffee", locs[0].Name)

	locs, err = f.svc.Search(f.ctx, "_")
	require.NoError(t, err)
	assert.Empty(t, locs)

	f.create(t, "École")
	locs, err = f.svc.Search(f.ctx, "école")
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, "École", locs[0].Name)

	locs, err = f.svc.Search(f.ctx, "   ")
	require.NoError(t, err)
	assert.NotNil(t, locs)
	assert.Empty(t, locs)
}

func TestSearch_BlankQuerySkipsStore(t *testing.T) {
	logger, _ := test.NewNullLogger()
	// A nil store would panic if the blank query reached it
	svc := NewService(nil, nil, 0, logger)

	locs, err := svc.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, locs)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	office := f.create(t, "Office")
	f.create(t, "Home")

	_, err := f.svc.Update(f.ctx, office.ID+100, Input{Name: "X", Latitude: coord(0), Longitude: coord(0)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Update(f.ctx, office.ID, Input{Name: "Home", Latitude: coord(0), Longitude: coord(0)})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.svc.Update(f.ctx, office.ID, Input{Name: "Office"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	// Keeping the same name is not a collision
	updated, err := f.svc.Update(f.ctx, office.ID, Input{Name: "Office", Latitude: coord(1.5), Longitude: coord(2.5)})
	require.NoError(t, err)
	assert.Equal(t, 1.5, updated.Latitude)

	stored, err := store.NewLocations(f.gdb).ByID(f.ctx, office.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.5, stored.Longitude)
}

func TestUpdate_RenameCascades(t *testing.T) {
	f := newFixture(t)
	office := f.create(t, "Office")
	tx := f.reference(t, "Office")

	_, err := f.svc.Update(f.ctx, office.ID, Input{Name: "HQ", Latitude: coord(1), Longitude: coord(2)})
	require.NoError(t, err)

	got, err := store.NewTransactions(f.gdb).ByID(f.ctx, tx.UserID, tx.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LocationName)
	assert.Equal(t, "HQ", *got.LocationName)

	// The old name is free again
	f.create(t, "Office")
}

func TestDelete_InUseGuard(t *testing.T) {
	f := newFixture(t)
	office := f.create(t, "Office")
	tx := f.reference(t, "Office")

	err := f.svc.Delete(f.ctx, office.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "location is in use", err.Error())

	locs, err := f.svc.List(f.ctx)
	require.NoError(t, err)
	assert.Len(t, locs, 1, "guarded location is kept")

	require.NoError(t, store.NewTransactions(f.gdb).Delete(f.ctx, tx.UserID, tx.ID))
	require.NoError(t, f.svc.Delete(f.ctx, office.ID))
	assert.ErrorIs(t, f.svc.Delete(f.ctx, office.ID), domain.ErrNotFound)
}
