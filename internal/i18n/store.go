// Package i18n caches machine-translated strings for catalog entities.
//
// A cached translation is identified by (entity type, entity id, language,
// field). Entries are created lazily on first read and are never updated in
// place: when an entity's source text changes, its entries are deleted and
// regenerated on the next read.
//
// The cache table is shared, mutable state. Concurrent readers may race to fill
// the same key; the store's uniqueness constraint only prevents duplicate rows,
// and the losing writer's conflict is ignored.
package i18n

import (
	"context"
	"errors"
	"strings"
)

// Entity types with translatable fields.
const (
	EntityMenu     = "menu"
	EntityCategory = "category"
	EntityMenuItem = "menuItem"
	EntityBanner   = "banner"
)

// Translatable field names.
const (
	FieldName          = "name"
	FieldDescription   = "description"
	FieldAvailableTime = "availableTime"
	FieldTitle         = "title"
	FieldMessage       = "message"
)

// ErrConflict is returned by Store.Insert when an entry with the same key
// already exists.
var ErrConflict = errors.New("translation already cached")

// Key identifies one cached translated string.
type Key struct {
	EntityType string
	EntityID   string
	Language   string
	Field      string
}

// NewKey builds a Key with the language code upper-cased.
func NewKey(entityType, entityID, lang, field string) Key {
	return Key{
		EntityType: entityType,
		EntityID:   entityID,
		Language:   NormalizeLang(lang),
		Field:      field,
	}
}

// NormalizeLang trims and upper-cases a language code ("en-gb" -> "EN-GB").
func NormalizeLang(lang string) string {
	return strings.ToUpper(strings.TrimSpace(lang))
}

// Store is the persistent key-value store behind the cache.
type Store interface {
	// Find returns the cached value for key. found is false on a miss.
	Find(ctx context.Context, key Key) (value string, found bool, err error)

	// Insert stores value under key. It returns ErrConflict when the key is
	// already present; the existing value is left untouched.
	Insert(ctx context.Context, key Key, value string) error

	// DeleteEntity removes every entry of one entity across all languages and
	// fields, returning the number of entries removed.
	DeleteEntity(ctx context.Context, entityType, entityID string) (int64, error)

	// DeleteLanguage removes every entry in one language.
	DeleteLanguage(ctx context.Context, lang string) (int64, error)
}
