// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for restaurants and
// menus.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. They follow the "thin repository"
// approach: no business logic, only persistence and query composition.
//
// Error semantics:
//   - When a record is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On other DB errors the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/newitdevelop/menufic/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateRestaurant inserts a restaurant with a generated UUID.
func CreateRestaurant(ctx context.Context, db *gorm.DB, name string) (*domain.Restaurant, error) {
	r := &domain.Restaurant{ID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC()}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// GetRestaurant fetches a restaurant by ID, or ErrNotFound.
func GetRestaurant(ctx context.Context, db *gorm.DB, id string) (*domain.Restaurant, error) {
	var r domain.Restaurant
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRestaurantIDs returns every restaurant ID in creation order.
func ListRestaurantIDs(ctx context.Context, db *gorm.DB) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).Model(&domain.Restaurant{}).Order("created_at asc").Pluck("id", &ids).Error
	return ids, err
}

// CreateMenu inserts m. A missing ID is generated.
func CreateMenu(ctx context.Context, db *gorm.DB, m *domain.Menu) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return db.WithContext(ctx).Omit(clause.Associations).Create(m).Error
}

// GetMenu fetches a menu row without its categories.
func GetMenu(ctx context.Context, db *gorm.DB, id string) (*domain.Menu, error) {
	var m domain.Menu
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMenuTree fetches a menu with its categories and items, each level ordered
// by position.
func GetMenuTree(ctx context.Context, db *gorm.DB, id string) (*domain.Menu, error) {
	var m domain.Menu
	err := withTree(db.WithContext(ctx)).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMenuTrees returns a restaurant's menus with categories and items,
// ordered by position. When publishedOnly is set, drafts are skipped.
func ListMenuTrees(ctx context.Context, db *gorm.DB, restaurantID string, publishedOnly bool) ([]domain.Menu, error) {
	q := withTree(db.WithContext(ctx)).Where("restaurant_id = ?", restaurantID)
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	var out []domain.Menu
	err := q.Order("position asc, created_at asc").Find(&out).Error
	return out, err
}

func withTree(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Categories", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position asc, created_at asc")
		}).
		Preload("Categories.Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position asc, created_at asc")
		})
}

// UpdateMenu writes every column of m except identity and ownership. It
// returns ErrNotFound when the menu does not exist.
func UpdateMenu(ctx context.Context, db *gorm.DB, m *domain.Menu) error {
	return updateAll(ctx, db, &domain.Menu{ID: m.ID}, m, "restaurant_id")
}

// DeleteMenu removes a menu; categories and items cascade. It returns
// ErrNotFound when nothing was deleted.
func DeleteMenu(ctx context.Context, db *gorm.DB, id string) error {
	return deleteByID(ctx, db, &domain.Menu{}, id)
}

// updateAll updates all columns of value on the row identified by model's
// primary key, skipping id, created_at and any extra omitted columns.
func updateAll(ctx context.Context, db *gorm.DB, model, value any, omit ...string) error {
	omit = append(omit, "id", "created_at", clause.Associations)
	res := db.WithContext(ctx).
		Model(model).
		Select("*").
		Omit(omit...).
		Updates(value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, db *gorm.DB, model any, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
