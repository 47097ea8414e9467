// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for banners.
package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/newitdevelop/menufic/internal/domain"
)

// CreateBanner inserts b. A missing ID is generated.
func CreateBanner(ctx context.Context, db *gorm.DB, b *domain.Banner) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return db.WithContext(ctx).Omit(clause.Associations).Create(b).Error
}

// GetBanner fetches a banner by ID, or ErrNotFound.
func GetBanner(ctx context.Context, db *gorm.DB, id string) (*domain.Banner, error) {
	var b domain.Banner
	if err := db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBanners returns a restaurant's banners ordered by position.
func ListBanners(ctx context.Context, db *gorm.DB, restaurantID string) ([]domain.Banner, error) {
	var out []domain.Banner
	err := db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("position asc, created_at asc").
		Find(&out).Error
	return out, err
}

// UpdateBanner writes every column of b except identity and ownership.
func UpdateBanner(ctx context.Context, db *gorm.DB, b *domain.Banner) error {
	return updateAll(ctx, db, &domain.Banner{ID: b.ID}, b, "restaurant_id")
}

// DeleteBanner removes a banner.
func DeleteBanner(ctx context.Context, db *gorm.DB, id string) error {
	return deleteByID(ctx, db, &domain.Banner{}, id)
}
