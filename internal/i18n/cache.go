package i18n

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultSourceLang is the language content is authored in unless configured.
const DefaultSourceLang = "EN"

// Cache is a get-or-create cache of translated strings.
type Cache struct {
	Store      Store
	Translator Translator

	// SourceLang is used when a caller passes an empty source language.
	SourceLang string
}

// NewCache builds a Cache. An empty sourceLang means DefaultSourceLang and a
// nil translator means Unavailable.
func NewCache(store Store, tr Translator, sourceLang string) *Cache {
	if tr == nil {
		tr = Unavailable{}
	}
	sourceLang = NormalizeLang(sourceLang)
	if sourceLang == "" {
		sourceLang = DefaultSourceLang
	}
	return &Cache{Store: store, Translator: tr, SourceLang: sourceLang}
}

// DefaultSource returns the configured source language.
func (c *Cache) DefaultSource() string {
	if s := NormalizeLang(c.SourceLang); s != "" {
		return s
	}
	return DefaultSourceLang
}

// IsSource reports whether lang is the same language as sourceLang (or the
// configured default when sourceLang is empty), ignoring case.
func (c *Cache) IsSource(lang, sourceLang string) bool {
	if sourceLang = NormalizeLang(sourceLang); sourceLang == "" {
		sourceLang = c.DefaultSource()
	}
	return NormalizeLang(lang) == sourceLang
}

// GetOrCreate returns field of the given entity translated into targetLang.
//
// When targetLang is the source language, or the text is blank, originalText
// is returned without touching the store or the translator. Otherwise a cached
// value is returned if present; on a miss the text is translated, stored and
// returned. A lost insert race is ignored.
//
// GetOrCreate never fails. If the translator returns an error the original text
// is returned and nothing is stored, so the next call retries.
func (c *Cache) GetOrCreate(ctx context.Context, entityType, entityID, field, originalText, targetLang, sourceLang string) string {
	if sourceLang = NormalizeLang(sourceLang); sourceLang == "" {
		sourceLang = c.DefaultSource()
	}
	targetLang = NormalizeLang(targetLang)
	if targetLang == "" || targetLang == sourceLang || strings.TrimSpace(originalText) == "" {
		lookups.WithLabelValues(resultIdentity).Inc()
		return originalText
	}

	tr := otel.Tracer("i18n/Cache")
	ctx, span := tr.Start(ctx, "GetOrCreate",
		trace.WithAttributes(
			attribute.String("entity.type", entityType),
			attribute.String("entity.id", entityID),
			attribute.String("translation.field", field),
			attribute.String("translation.lang", targetLang),
		),
	)
	defer span.End()

	key := Key{EntityType: entityType, EntityID: entityID, Language: targetLang, Field: field}
	logger := log.With().
		Str("entity_type", entityType).
		Str("entity_id", entityID).
		Str("field", field).
		Str("lang", targetLang).
		Logger()

	cached, found, err := c.Store.Find(ctx, key)
	switch {
	case err != nil:
		// Treat as a miss; the insert below will surface a persistent outage.
		logger.Warn().Err(err).Msg("translation cache read failed")
	case found:
		lookups.WithLabelValues(resultHit).Inc()
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	translated, err := c.Translator.Translate(ctx, originalText, targetLang, sourceLang)
	if err != nil {
		lookups.WithLabelValues(resultFailed).Inc()
		if errors.Is(err, ErrUnavailable) {
			logger.Debug().Err(err).Msg("translation skipped")
			return originalText
		}
		providerErrors.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "translate")
		logger.Warn().Err(err).Msg("translation failed; serving original text")
		return originalText
	}
	lookups.WithLabelValues(resultMiss).Inc()

	if err := c.Store.Insert(ctx, key, translated); err != nil {
		if errors.Is(err, ErrConflict) {
			writeConflicts.Inc()
			logger.Debug().Msg("translation already cached by a concurrent writer")
		} else {
			logger.Warn().Err(err).Msg("translation cache write failed")
		}
	}
	return translated
}

// Invalidate deletes every cached translation of one entity. Callers that
// change a translatable field must invalidate after persisting the change.
func (c *Cache) Invalidate(ctx context.Context, entityType, entityID string) error {
	tr := otel.Tracer("i18n/Cache")
	ctx, span := tr.Start(ctx, "Invalidate",
		trace.WithAttributes(
			attribute.String("entity.type", entityType),
			attribute.String("entity.id", entityID),
		),
	)
	defer span.End()

	n, err := c.Store.DeleteEntity(ctx, entityType, entityID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete")
		return fmt.Errorf("invalidate %s %s: %w", entityType, entityID, err)
	}
	invalidated.WithLabelValues(entityType).Add(float64(n))
	if n > 0 {
		log.Debug().
			Str("entity_type", entityType).
			Str("entity_id", entityID).
			Int64("deleted", n).
			Msg("translations invalidated")
	}
	return nil
}

// PurgeLanguage deletes every cached translation in lang, for example after
// switching translation providers for that language.
func (c *Cache) PurgeLanguage(ctx context.Context, lang string) (int64, error) {
	lang = NormalizeLang(lang)
	if lang == "" {
		return 0, errors.New("purge: language is required")
	}

	tr := otel.Tracer("i18n/Cache")
	ctx, span := tr.Start(ctx, "PurgeLanguage",
		trace.WithAttributes(attribute.String("translation.lang", lang)),
	)
	defer span.End()

	n, err := c.Store.DeleteLanguage(ctx, lang)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("purge %s: %w", lang, err)
	}
	log.Info().Str("lang", lang).Int64("deleted", n).Msg("translations purged")
	return n, nil
}
