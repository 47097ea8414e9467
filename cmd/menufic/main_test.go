package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/newitdevelop/menufic/internal/cache"
	"github.com/newitdevelop/menufic/internal/config"
	"github.com/newitdevelop/menufic/internal/i18n"
	"github.com/newitdevelop/menufic/internal/repo"
	"github.com/newitdevelop/menufic/internal/schedule"
	"github.com/newitdevelop/menufic/internal/services"
)

func TestOpenTranslationStore(t *testing.T) {
	db, err := repo.Open(repo.DriverSQLite, filepath.Join(t.TempDir(), "main.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { closeDB(db) })
	ctx := context.Background()

	cfg := config.Config{Translation: config.TranslationConfig{Store: config.StoreDB}}
	if s, rdb, err := openTranslationStore(ctx, cfg, db); err != nil || rdb != nil {
		t.Fatalf("db store: rdb=%v err=%v", rdb, err)
	} else if _, ok := s.(*repo.TranslationStore); !ok {
		t.Fatalf("db store type = %T", s)
	}

	cfg.Translation.Store = config.StoreMemory
	if s, _, err := openTranslationStore(ctx, cfg, db); err != nil {
		t.Fatalf("memory store: %v", err)
	} else if _, ok := s.(*i18n.MemoryStore); !ok {
		t.Fatalf("memory store type = %T", s)
	}

	mr := miniredis.RunT(t)
	cfg.Translation.Store = config.StoreRedis
	cfg.Redis = config.RedisConfig{Addr: mr.Addr(), Prefix: "t"}
	s, rdb, err := openTranslationStore(ctx, cfg, db)
	if err != nil || rdb == nil {
		t.Fatalf("redis store: rdb=%v err=%v", rdb, err)
	}
	defer rdb.Close()
	if _, ok := s.(*cache.TranslationStore); !ok {
		t.Fatalf("redis store type = %T", s)
	}

	mr.Close()
	if _, _, err := openTranslationStore(ctx, cfg, db); err == nil {
		t.Fatalf("expected ping failure once redis is gone")
	}
}

func TestPreview_PrintsActiveContent(t *testing.T) {
	db, err := repo.Open(repo.DriverSQLite, filepath.Join(t.TempDir(), "preview.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { closeDB(db) })
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	ctx := context.Background()

	trCache := i18n.NewCache(i18n.NewMemoryStore(), i18n.TranslatorFunc(
		func(_ context.Context, text, target, _ string) (string, error) { return target + ":" + text, nil },
	), "EN")
	loc := services.NewLocalizer(trCache, 2)
	// Tuesday 10:00 UTC.
	clock := services.FixedClock(time.Date(2025, time.March, 4, 10, 0, 0, 0, time.UTC))
	menus := services.NewMenuService(db, trCache, loc, clock)
	banners := services.NewBannerService(db, trCache, loc, clock)

	r, _ := menus.CreateRestaurant(ctx, "Casa")
	if _, err := menus.CreateMenu(ctx, r.ID, services.MenuInput{Name: "Breakfast", Published: true,
		Schedule: schedule.Config{Type: schedule.TypeDaily, DailyStartTime: "07:00", DailyEndTime: "11:00"}}); err != nil {
		t.Fatalf("CreateMenu: %v", err)
	}
	if _, err := menus.CreateMenu(ctx, r.ID, services.MenuInput{Name: "Dinner", Published: true,
		Schedule: schedule.Config{Type: schedule.TypeDaily, DailyStartTime: "18:00", DailyEndTime: "22:00"}}); err != nil {
		t.Fatalf("CreateMenu: %v", err)
	}
	if _, err := banners.CreateBanner(ctx, r.ID, services.BannerInput{Title: "Open"}); err != nil {
		t.Fatalf("CreateBanner: %v", err)
	}

	var buf bytes.Buffer
	if err := preview(ctx, &buf, r.ID, "th", menus, banners); err != nil {
		t.Fatalf("preview: %v", err)
	}
	var out previewResult
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("json: %v (%s)", err, buf.String())
	}
	if out.Language != "TH" || len(out.Menus) != 1 || out.Menus[0].Name != "TH:Breakfast" {
		t.Fatalf("menus = %+v", out)
	}
	if len(out.Banners) != 1 || out.Banners[0].Title != "TH:Open" {
		t.Fatalf("banners = %+v", out.Banners)
	}
}
