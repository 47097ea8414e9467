package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/newitdevelop/menufic/internal/i18n"
	"github.com/newitdevelop/menufic/internal/schedule"
)

func TestWarmer_FillsCacheIgnoringSchedules(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	ms := e.menus(nil)
	s := seedMenu(t, ms, MenuInput{Name: "Lunch", Published: true})

	if _, err := ms.CreateMenu(ctx, s.restaurant.ID, MenuInput{Name: "Draft"}); err != nil {
		t.Fatalf("CreateMenu: %v", err)
	}
	start := time.Date(2000, time.June, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2000, time.August, 31, 0, 0, 0, 0, time.UTC)
	b, err := e.banners(nil).CreateBanner(ctx, s.restaurant.ID, BannerInput{
		Title: "Summer", Message: "Cold drinks",
		Schedule: schedule.Config{Type: schedule.TypePeriod, PeriodStartDate: &start, PeriodEndDate: &end},
	})
	if err != nil {
		t.Fatalf("CreateBanner: %v", err)
	}

	w := NewWarmer(e.db, e.loc)
	stats, err := w.Warm(ctx, []string{"th", "EN", " "})
	if err != nil {
		t.Fatalf("Warm: %v", err)
	}
	if stats != (WarmStats{Restaurants: 1, Menus: 1, Banners: 1}) {
		t.Fatalf("stats = %+v", stats)
	}
	// menu name + category name + item name/description + banner title/message.
	if got := e.tr.calls.Load(); got != 6 {
		t.Fatalf("translator calls = %d; want 6", got)
	}
	if !e.cached(t, i18n.EntityMenuItem, s.tomYum.ID, "TH", i18n.FieldDescription) ||
		!e.cached(t, i18n.EntityBanner, b.ID, "TH", i18n.FieldMessage) {
		t.Fatalf("expected warmed entries")
	}

	if _, err := w.Warm(ctx, []string{"TH"}); err != nil {
		t.Fatalf("second Warm: %v", err)
	}
	if got := e.tr.calls.Load(); got != 6 {
		t.Fatalf("second pass should be served from cache, calls = %d", got)
	}
}

func TestWarmer_NoTargetsAndCanceled(t *testing.T) {
	e := newTestEnv(t)
	seedMenu(t, e.menus(nil), MenuInput{Name: "Lunch", Published: true})
	w := NewWarmer(e.db, e.loc)

	stats, err := w.Warm(context.Background(), []string{"en", ""})
	if err != nil || stats != (WarmStats{}) {
		t.Fatalf("source-only warm = %+v, %v", stats, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := w.Warm(ctx, []string{"TH"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("canceled warm err = %v", err)
	}
	if e.tr.calls.Load() != 0 {
		t.Fatalf("no translations expected")
	}
}
