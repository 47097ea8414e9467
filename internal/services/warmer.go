package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/newitdevelop/menufic/internal/repo"
)

// WarmStats counts what a warm pass translated.
type WarmStats struct {
	Restaurants int
	Menus       int
	Banners     int
}

// Warmer pre-fills the translation cache for published content.
type Warmer struct {
	DB        *gorm.DB
	Localizer *Localizer
}

// NewWarmer wires a Warmer.
func NewWarmer(db *gorm.DB, loc *Localizer) *Warmer {
	return &Warmer{DB: db, Localizer: loc}
}

// Warm translates every published menu tree and every banner of every
// restaurant into each of langs, ignoring schedules so that content is cached
// before it becomes active. Blank and source-language entries in langs are
// skipped. The pass stops at the first repository error or when ctx is done.
func (w *Warmer) Warm(ctx context.Context, langs []string) (WarmStats, error) {
	ctx, span := otel.Tracer("services/Warmer").Start(ctx, "Warm",
		trace.WithAttributes(attribute.StringSlice("translation.langs", langs)),
	)
	defer span.End()

	var stats WarmStats
	targets := make([]string, 0, len(langs))
	for _, l := range langs {
		if l = strings.TrimSpace(l); l != "" && !w.Localizer.skip(l) {
			targets = append(targets, l)
		}
	}
	if len(targets) == 0 {
		return stats, nil
	}

	ids, err := repo.ListRestaurantIDs(ctx, w.DB)
	if err != nil {
		return stats, err
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		menus, err := repo.ListMenuTrees(ctx, w.DB, id, true)
		if err != nil {
			return stats, err
		}
		banners, err := repo.ListBanners(ctx, w.DB, id)
		if err != nil {
			return stats, err
		}
		for _, lang := range targets {
			for _, m := range menus {
				w.Localizer.TranslateMenuTree(ctx, m, lang)
			}
			for _, b := range banners {
				w.Localizer.TranslateBanner(ctx, b, lang)
			}
		}
		stats.Restaurants++
		stats.Menus += len(menus)
		stats.Banners += len(banners)
		log.Debug().Str("restaurant_id", id).Int("menus", len(menus)).Int("banners", len(banners)).Msg("warmed translations")
	}

	span.SetAttributes(
		attribute.Int("warm.restaurants", stats.Restaurants),
		attribute.Int("warm.menus", stats.Menus),
		attribute.Int("warm.banners", stats.Banners),
	)
	return stats, nil
}
