// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for cached
// translations and an adapter exposing them as an i18n.Store.
//
// Error semantics:
//   - FindTranslation returns ErrNotFound on a miss.
//   - InsertTranslation is insert-or-ignore: when the identity already exists
//     it returns i18n.ErrConflict and leaves the stored value alone.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/newitdevelop/menufic/internal/domain"
	"github.com/newitdevelop/menufic/internal/i18n"
)

// FindTranslation returns the cached row for key, or ErrNotFound. A miss is
// not an error to the gorm logger.
func FindTranslation(ctx context.Context, db *gorm.DB, key i18n.Key) (*domain.Translation, error) {
	var rows []domain.Translation
	res := db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ? AND language = ? AND field = ?",
			key.EntityType, key.EntityID, key.Language, key.Field).
		Limit(1).
		Find(&rows)
	if res.Error != nil {
		return nil, res.Error
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// InsertTranslation stores value under key unless the identity already exists,
// in which case it returns i18n.ErrConflict.
func InsertTranslation(ctx context.Context, db *gorm.DB, key i18n.Key, value string) error {
	row := &domain.Translation{
		ID:         uuid.NewString(),
		EntityType: key.EntityType,
		EntityID:   key.EntityID,
		Language:   key.Language,
		Field:      key.Field,
		Value:      value,
		CreatedAt:  time.Now().UTC(),
	}
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return i18n.ErrConflict
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return i18n.ErrConflict
	}
	return nil
}

// DeleteTranslationsForEntity removes all cached rows of one entity.
func DeleteTranslationsForEntity(ctx context.Context, db *gorm.DB, entityType, entityID string) (int64, error) {
	res := db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Delete(&domain.Translation{})
	return res.RowsAffected, res.Error
}

// DeleteTranslationsForLanguage removes all cached rows in one language.
func DeleteTranslationsForLanguage(ctx context.Context, db *gorm.DB, lang string) (int64, error) {
	res := db.WithContext(ctx).
		Where("language = ?", lang).
		Delete(&domain.Translation{})
	return res.RowsAffected, res.Error
}

// CountTranslations returns the number of cached rows for an entity. An empty
// entityType counts every row.
func CountTranslations(ctx context.Context, db *gorm.DB, entityType, entityID string) (int64, error) {
	q := db.WithContext(ctx).Model(&domain.Translation{})
	if entityType != "" {
		q = q.Where("entity_type = ? AND entity_id = ?", entityType, entityID)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// isUniqueViolation recognizes duplicate-key errors from both drivers.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key")
}

// TranslationStore adapts the translation functions to i18n.Store.
type TranslationStore struct {
	DB *gorm.DB
}

// NewTranslationStore returns a database-backed i18n.Store.
func NewTranslationStore(db *gorm.DB) *TranslationStore {
	return &TranslationStore{DB: db}
}

var _ i18n.Store = (*TranslationStore)(nil)

func (s *TranslationStore) Find(ctx context.Context, key i18n.Key) (string, bool, error) {
	tr, err := FindTranslation(ctx, s.DB, key)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return tr.Value, true, nil
}

func (s *TranslationStore) Insert(ctx context.Context, key i18n.Key, value string) error {
	return InsertTranslation(ctx, s.DB, key, value)
}

func (s *TranslationStore) DeleteEntity(ctx context.Context, entityType, entityID string) (int64, error) {
	return DeleteTranslationsForEntity(ctx, s.DB, entityType, entityID)
}

func (s *TranslationStore) DeleteLanguage(ctx context.Context, lang string) (int64, error) {
	return DeleteTranslationsForLanguage(ctx, s.DB, i18n.NormalizeLang(lang))
}
