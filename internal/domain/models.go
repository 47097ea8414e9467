// Package domain defines the persistence models for restaurants, their menus
// and banners, and cached translations. These types are mapped with GORM and
// form the core data layer of the menu platform.
package domain

import (
	"time"

	"github.com/newitdevelop/menufic/internal/schedule"
)

// Restaurant owns menus and banners.
type Restaurant struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name"       gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Restaurant.
func (Restaurant) TableName() string { return "restaurants" }

// Menu is a named, ordered group of categories shown to guests while its
// schedule is active.
//
// Fields:
//   - Name, AvailableTime: translatable free text ("Lunch", "11:00 - 15:00").
//   - Position: display order within the restaurant.
//   - Published: unpublished menus are never shown, whatever the schedule.
//   - Schedule: display rule, stored as schedule_* columns.
type Menu struct {
	ID            string    `json:"id"             gorm:"type:char(36);primaryKey"`
	RestaurantID  string    `json:"restaurant_id"  gorm:"type:char(36);not null;index:idx_restaurant_menus,priority:1"`
	Name          string    `json:"name"           gorm:"type:varchar(255);not null"`
	AvailableTime string    `json:"available_time" gorm:"type:varchar(255);not null;default:''"`
	Position      int       `json:"position"       gorm:"not null;default:0;index:idx_restaurant_menus,priority:2"`
	Published     bool      `json:"published"      gorm:"not null;default:false"`
	Schedule      Schedule  `json:"schedule"       gorm:"embedded;embeddedPrefix:schedule_"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Categories []Category `json:"categories,omitempty" gorm:"foreignKey:MenuID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	// Restaurant is the owner. Menus are cascade-deleted with it.
	Restaurant Restaurant `json:"-" gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Menu.
func (Menu) TableName() string { return "menus" }

// Category groups menu items within a menu.
type Category struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	MenuID    string    `json:"menu_id"    gorm:"type:char(36);not null;index:idx_menu_categories,priority:1"`
	Name      string    `json:"name"       gorm:"type:varchar(255);not null"`
	Position  int       `json:"position"   gorm:"not null;default:0;index:idx_menu_categories,priority:2"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []MenuItem `json:"items,omitempty" gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Category.
func (Category) TableName() string { return "categories" }

// MenuItem is a single dish or drink.
type MenuItem struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	CategoryID  string    `json:"category_id" gorm:"type:char(36);not null;index:idx_category_items,priority:1"`
	Name        string    `json:"name"        gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text;not null;default:''"`
	Price       float64   `json:"price"       gorm:"not null;default:0;check:price >= 0"`
	Position    int       `json:"position"    gorm:"not null;default:0;index:idx_category_items,priority:2"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for MenuItem.
func (MenuItem) TableName() string { return "menu_items" }

// Banner is a promotional message shown above a restaurant's menus while its
// schedule is active.
type Banner struct {
	ID           string    `json:"id"            gorm:"type:char(36);primaryKey"`
	RestaurantID string    `json:"restaurant_id" gorm:"type:char(36);not null;index:idx_restaurant_banners,priority:1"`
	Title        string    `json:"title"         gorm:"type:varchar(255);not null"`
	Message      string    `json:"message"       gorm:"type:text;not null;default:''"`
	Position     int       `json:"position"      gorm:"not null;default:0;index:idx_restaurant_banners,priority:2"`
	Schedule     Schedule  `json:"schedule"      gorm:"embedded;embeddedPrefix:schedule_"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Restaurant Restaurant `json:"-" gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Banner.
func (Banner) TableName() string { return "banners" }

// Translation is one cached machine-translated string. Rows are never updated;
// the (entity_type, entity_id, language, field) identity is unique.
type Translation struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	EntityType string    `json:"entity_type" gorm:"type:varchar(32);not null;uniqueIndex:ux_translation_identity,priority:1"`
	EntityID   string    `json:"entity_id"   gorm:"type:varchar(64);not null;uniqueIndex:ux_translation_identity,priority:2"`
	Language   string    `json:"language"    gorm:"type:varchar(16);not null;uniqueIndex:ux_translation_identity,priority:3;index:idx_translation_language"`
	Field      string    `json:"field"       gorm:"type:varchar(32);not null;uniqueIndex:ux_translation_identity,priority:4"`
	Value      string    `json:"value"       gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName returns the database table name for Translation.
func (Translation) TableName() string { return "translations" }

// Schedule is the persisted form of a display rule. Times are kept as the
// strings editors typed ("HH:mm", "MM-DD"); they are parsed when evaluated.
type Schedule struct {
	Type                  string     `json:"type"                              gorm:"type:varchar(16);not null;default:'ALWAYS'"`
	DailyStartTime        string     `json:"daily_start_time,omitempty"        gorm:"type:varchar(5)"`
	DailyEndTime          string     `json:"daily_end_time,omitempty"          gorm:"type:varchar(5)"`
	WeeklyDays            []int      `json:"weekly_days,omitempty"             gorm:"type:text;serializer:json"`
	MonthlyDays           []int      `json:"monthly_days,omitempty"            gorm:"type:text;serializer:json"`
	MonthlyWeekday        *int       `json:"monthly_weekday,omitempty"`
	MonthlyWeekdayOrdinal *int       `json:"monthly_weekday_ordinal,omitempty"`
	YearlyStartDate       string     `json:"yearly_start_date,omitempty"       gorm:"type:varchar(5)"`
	YearlyEndDate         string     `json:"yearly_end_date,omitempty"         gorm:"type:varchar(5)"`
	PeriodStartDate       *time.Time `json:"period_start_date,omitempty"`
	PeriodEndDate         *time.Time `json:"period_end_date,omitempty"`
}

// Config returns the evaluator input for s.
func (s Schedule) Config() schedule.Config {
	return schedule.Config{
		Type:                  schedule.Type(s.Type),
		DailyStartTime:        s.DailyStartTime,
		DailyEndTime:          s.DailyEndTime,
		WeeklyDays:            s.WeeklyDays,
		MonthlyDays:           s.MonthlyDays,
		MonthlyWeekday:        s.MonthlyWeekday,
		MonthlyWeekdayOrdinal: s.MonthlyWeekdayOrdinal,
		YearlyStartDate:       s.YearlyStartDate,
		YearlyEndDate:         s.YearlyEndDate,
		PeriodStartDate:       s.PeriodStartDate,
		PeriodEndDate:         s.PeriodEndDate,
	}
}

// ScheduleFrom converts an evaluator config into its persisted form. An empty
// type is stored as ALWAYS.
func ScheduleFrom(cfg schedule.Config) Schedule {
	typ := string(cfg.Type)
	if typ == "" {
		typ = string(schedule.TypeAlways)
	}
	return Schedule{
		Type:                  typ,
		DailyStartTime:        cfg.DailyStartTime,
		DailyEndTime:          cfg.DailyEndTime,
		WeeklyDays:            cfg.WeeklyDays,
		MonthlyDays:           cfg.MonthlyDays,
		MonthlyWeekday:        cfg.MonthlyWeekday,
		MonthlyWeekdayOrdinal: cfg.MonthlyWeekdayOrdinal,
		YearlyStartDate:       cfg.YearlyStartDate,
		YearlyEndDate:         cfg.YearlyEndDate,
		PeriodStartDate:       cfg.PeriodStartDate,
		PeriodEndDate:         cfg.PeriodEndDate,
	}
}

// IsActive reports whether s shows content at now.
func (s Schedule) IsActive(now time.Time) bool {
	return schedule.IsActive(s.Config(), now)
}
