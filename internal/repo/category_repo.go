// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for categories and
// menu items.
package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/newitdevelop/menufic/internal/domain"
)

// CreateCategory inserts c. A missing ID is generated.
func CreateCategory(ctx context.Context, db *gorm.DB, c *domain.Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

// GetCategory fetches a category row without its items.
func GetCategory(ctx context.Context, db *gorm.DB, id string) (*domain.Category, error) {
	var c domain.Category
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCategory writes name and position. It returns ErrNotFound when the
// category does not exist.
func UpdateCategory(ctx context.Context, db *gorm.DB, c *domain.Category) error {
	return updateAll(ctx, db, &domain.Category{ID: c.ID}, c, "menu_id")
}

// DeleteCategory removes a category; its items cascade.
func DeleteCategory(ctx context.Context, db *gorm.DB, id string) error {
	return deleteByID(ctx, db, &domain.Category{}, id)
}

// ListCategoryIDs returns the IDs of a menu's categories.
func ListCategoryIDs(ctx context.Context, db *gorm.DB, menuID string) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).
		Model(&domain.Category{}).
		Where("menu_id = ?", menuID).
		Pluck("id", &ids).Error
	return ids, err
}

// CreateMenuItem inserts it. A missing ID is generated.
func CreateMenuItem(ctx context.Context, db *gorm.DB, it *domain.MenuItem) error {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	return db.WithContext(ctx).Create(it).Error
}

// GetMenuItem fetches a menu item by ID, or ErrNotFound.
func GetMenuItem(ctx context.Context, db *gorm.DB, id string) (*domain.MenuItem, error) {
	var it domain.MenuItem
	if err := db.WithContext(ctx).Where("id = ?", id).First(&it).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

// UpdateMenuItem writes name, description, price and position. Moving an item
// between categories is allowed.
func UpdateMenuItem(ctx context.Context, db *gorm.DB, it *domain.MenuItem) error {
	return updateAll(ctx, db, &domain.MenuItem{ID: it.ID}, it)
}

// DeleteMenuItem removes a menu item.
func DeleteMenuItem(ctx context.Context, db *gorm.DB, id string) error {
	return deleteByID(ctx, db, &domain.MenuItem{}, id)
}

// ListItemIDs returns the IDs of the items in the given categories.
func ListItemIDs(ctx context.Context, db *gorm.DB, categoryIDs []string) ([]string, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	var ids []string
	err := db.WithContext(ctx).
		Model(&domain.MenuItem{}).
		Where("category_id IN ?", categoryIDs).
		Pluck("id", &ids).Error
	return ids, err
}
