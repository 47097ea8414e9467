package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/newitdevelop/menufic/internal/i18n"
	"github.com/newitdevelop/menufic/internal/repo"
)

// prefixTranslator returns "[LANG] text" and counts calls.
type prefixTranslator struct {
	calls atomic.Int64
}

func (p *prefixTranslator) Translate(_ context.Context, text, target, _ string) (string, error) {
	p.calls.Add(1)
	return "[" + target + "] " + text, nil
}

type testEnv struct {
	db    *gorm.DB
	store *i18n.MemoryStore
	tr    *prefixTranslator
	cache *i18n.Cache
	loc   *Localizer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("services_test_%d.db", time.Now().UnixNano())) + "?_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	store := i18n.NewMemoryStore()
	tr := &prefixTranslator{}
	cache := i18n.NewCache(store, tr, "EN")
	return &testEnv{db: db, store: store, tr: tr, cache: cache, loc: NewLocalizer(cache, 4)}
}

func (e *testEnv) menus(clock Clock) *MenuService {
	return NewMenuService(e.db, e.cache, e.loc, clock)
}

func (e *testEnv) banners(clock Clock) *BannerService {
	return NewBannerService(e.db, e.cache, e.loc, clock)
}

// cached reports whether a translation is stored for the given key.
func (e *testEnv) cached(t *testing.T, entityType, id, lang, field string) bool {
	t.Helper()
	_, ok, err := e.store.Find(context.Background(), i18n.NewKey(entityType, id, lang, field))
	if err != nil {
		t.Fatalf("store.Find: %v", err)
	}
	return ok
}

// at builds a fixed clock in UTC.
func at(y int, m time.Month, d, hh, mm int) FixedClock {
	return FixedClock(time.Date(y, m, d, hh, mm, 0, 0, time.UTC))
}
