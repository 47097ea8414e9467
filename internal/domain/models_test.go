package domain

import (
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/newitdevelop/menufic/internal/schedule"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Enforce FKs so cascades actually execute.
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := db.AutoMigrate(&Restaurant{}, &Menu{}, &Category{}, &MenuItem{}, &Banner{}, &Translation{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestTableNames(t *testing.T) {
	cases := map[string]string{
		(Restaurant{}).TableName():  "restaurants",
		(Menu{}).TableName():        "menus",
		(Category{}).TableName():    "categories",
		(MenuItem{}).TableName():    "menu_items",
		(Banner{}).TableName():      "banners",
		(Translation{}).TableName(): "translations",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("TableName() = %q; want %q", got, want)
		}
	}
}

func TestMigrations_Indexes_AndCascades(t *testing.T) {
	db := newDomainDB(t)
	m := db.Migrator()

	for _, idx := range []struct {
		model any
		name  string
	}{
		{&Menu{}, "idx_restaurant_menus"},
		{&Category{}, "idx_menu_categories"},
		{&MenuItem{}, "idx_category_items"},
		{&Banner{}, "idx_restaurant_banners"},
		{&Translation{}, "ux_translation_identity"},
		{&Translation{}, "idx_translation_language"},
	} {
		if !m.HasIndex(idx.model, idx.name) {
			t.Fatalf("expected index %s on %T", idx.name, idx.model)
		}
	}
	if !m.HasColumn(&Menu{}, "schedule_daily_start_time") {
		t.Fatalf("embedded schedule columns should be prefixed")
	}

	r := &Restaurant{ID: "r1", Name: "Casa"}
	menu := &Menu{ID: "m1", RestaurantID: "r1", Name: "Lunch", Schedule: Schedule{Type: "ALWAYS"}}
	cat := &Category{ID: "c1", MenuID: "m1", Name: "Soups"}
	item := &MenuItem{ID: "i1", CategoryID: "c1", Name: "Tom Yum", Price: 7.5}
	for _, row := range []any{r, menu, cat, item} {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("insert %T: %v", row, err)
		}
	}

	// Deleting the menu removes its categories and items.
	if err := db.Delete(&Menu{}, "id = ?", "m1").Error; err != nil {
		t.Fatalf("delete menu: %v", err)
	}
	var n int64
	db.Model(&Category{}).Count(&n)
	if n != 0 {
		t.Fatalf("categories after cascade = %d; want 0", n)
	}
	db.Model(&MenuItem{}).Count(&n)
	if n != 0 {
		t.Fatalf("items after cascade = %d; want 0", n)
	}
}

func TestTranslationIdentityIsUnique(t *testing.T) {
	db := newDomainDB(t)
	a := &Translation{ID: "t1", EntityType: "menu", EntityID: "m1", Language: "TH", Field: "name", Value: "x"}
	b := &Translation{ID: "t2", EntityType: "menu", EntityID: "m1", Language: "TH", Field: "name", Value: "y"}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("insert first: %v", err)
	}
	err := db.Create(b).Error
	if err == nil || !strings.Contains(strings.ToLower(err.Error()), "unique") {
		t.Fatalf("duplicate identity should violate unique index, got %v", err)
	}
}

func TestSchedule_RoundTripsThroughDB(t *testing.T) {
	db := newDomainDB(t)
	wd, ord := 1, -1
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	if err := db.Create(&Restaurant{ID: "r2", Name: "Bistro"}).Error; err != nil {
		t.Fatalf("insert restaurant: %v", err)
	}
	in := &Banner{
		ID:           "b1",
		RestaurantID: "r2",
		Title:        "Happy hour",
		Schedule: Schedule{
			Type:                  "MONTHLY",
			WeeklyDays:            []int{1, 3},
			MonthlyDays:           []int{1, 15},
			MonthlyWeekday:        &wd,
			MonthlyWeekdayOrdinal: &ord,
			DailyStartTime:        "17:00",
			DailyEndTime:          "19:00",
			PeriodStartDate:       &start,
		},
	}
	if err := db.Create(in).Error; err != nil {
		t.Fatalf("insert banner: %v", err)
	}

	var out Banner
	if err := db.First(&out, "id = ?", "b1").Error; err != nil {
		t.Fatalf("load banner: %v", err)
	}
	s := out.Schedule
	if len(s.WeeklyDays) != 2 || s.WeeklyDays[1] != 3 || len(s.MonthlyDays) != 2 || s.MonthlyDays[1] != 15 {
		t.Fatalf("int slices not restored: %+v", s)
	}
	if s.MonthlyWeekday == nil || *s.MonthlyWeekday != 1 || s.MonthlyWeekdayOrdinal == nil || *s.MonthlyWeekdayOrdinal != -1 {
		t.Fatalf("weekday ordinal not restored: %+v", s)
	}
	if s.PeriodStartDate == nil || !s.PeriodStartDate.Equal(start) || s.PeriodEndDate != nil {
		t.Fatalf("period dates not restored: %+v", s)
	}
}

func TestSchedule_ConfigConversion(t *testing.T) {
	s := ScheduleFrom(schedule.Config{})
	if s.Type != "ALWAYS" {
		t.Fatalf("empty type should persist as ALWAYS, got %q", s.Type)
	}

	daily := Schedule{Type: "DAILY", DailyStartTime: "22:00", DailyEndTime: "02:00"}
	cfg := daily.Config()
	if cfg.Type != schedule.TypeDaily || cfg.DailyStartTime != "22:00" || cfg.DailyEndTime != "02:00" {
		t.Fatalf("Config() = %+v", cfg)
	}
	if ScheduleFrom(cfg).DailyEndTime != "02:00" {
		t.Fatalf("ScheduleFrom lost fields")
	}

	late := time.Date(2025, 5, 1, 23, 30, 0, 0, time.UTC)
	noon := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	if !daily.IsActive(late) || daily.IsActive(noon) {
		t.Fatalf("overnight window evaluated wrong")
	}
}
