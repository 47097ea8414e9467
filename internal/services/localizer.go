// Package services – Localizer
//
// Localizer translates catalog entities into a guest's language through the
// i18n cache. Each translatable field is one cache lookup; lookups for an
// entity, or for a whole menu tree, run concurrently and are all awaited
// before the translated copy is returned.
package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/newitdevelop/menufic/internal/domain"
	"github.com/newitdevelop/menufic/internal/i18n"
)

const defaultTranslateConcurrency = 8

// Localizer returns translated copies of catalog entities.
type Localizer struct {
	Cache *i18n.Cache

	// Concurrency bounds in-flight field lookups per call (default 8).
	Concurrency int
}

// NewLocalizer builds a Localizer over cache.
func NewLocalizer(cache *i18n.Cache, concurrency int) *Localizer {
	return &Localizer{Cache: cache, Concurrency: concurrency}
}

// fieldJob is one field lookup whose result is written to dst.
type fieldJob struct {
	entityType string
	entityID   string
	field      string
	text       string
	dst        *string
}

func (l *Localizer) skip(lang string) bool {
	return l == nil || l.Cache == nil || l.Cache.IsSource(lang, "")
}

// run resolves all jobs concurrently. Each job owns its destination, so no
// locking is needed.
func (l *Localizer) run(ctx context.Context, lang string, jobs []fieldJob) {
	limit := l.Concurrency
	if limit <= 0 {
		limit = defaultTranslateConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, j := range jobs {
		j := j // per-iteration copy (go1.21 loop semantics)
		g.Go(func() error {
			*j.dst = l.Cache.GetOrCreate(gctx, j.entityType, j.entityID, j.field, j.text, lang, "")
			return nil
		})
	}
	_ = g.Wait()
}

func menuJobs(m *domain.Menu) []fieldJob {
	return []fieldJob{
		{i18n.EntityMenu, m.ID, i18n.FieldName, m.Name, &m.Name},
		{i18n.EntityMenu, m.ID, i18n.FieldAvailableTime, m.AvailableTime, &m.AvailableTime},
	}
}

func categoryJobs(c *domain.Category) []fieldJob {
	return []fieldJob{
		{i18n.EntityCategory, c.ID, i18n.FieldName, c.Name, &c.Name},
	}
}

func menuItemJobs(it *domain.MenuItem) []fieldJob {
	return []fieldJob{
		{i18n.EntityMenuItem, it.ID, i18n.FieldName, it.Name, &it.Name},
		{i18n.EntityMenuItem, it.ID, i18n.FieldDescription, it.Description, &it.Description},
	}
}

func bannerJobs(b *domain.Banner) []fieldJob {
	return []fieldJob{
		{i18n.EntityBanner, b.ID, i18n.FieldTitle, b.Title, &b.Title},
		{i18n.EntityBanner, b.ID, i18n.FieldMessage, b.Message, &b.Message},
	}
}

// TranslateMenu returns a shallow copy of m with name and available time
// translated. Categories are shared with m.
func (l *Localizer) TranslateMenu(ctx context.Context, m domain.Menu, lang string) domain.Menu {
	if l.skip(lang) {
		return m
	}
	l.run(ctx, lang, menuJobs(&m))
	return m
}

// TranslateCategory returns a shallow copy of c with its name translated.
func (l *Localizer) TranslateCategory(ctx context.Context, c domain.Category, lang string) domain.Category {
	if l.skip(lang) {
		return c
	}
	l.run(ctx, lang, categoryJobs(&c))
	return c
}

// TranslateMenuItem returns a copy of it with name and description translated.
func (l *Localizer) TranslateMenuItem(ctx context.Context, it domain.MenuItem, lang string) domain.MenuItem {
	if l.skip(lang) {
		return it
	}
	l.run(ctx, lang, menuItemJobs(&it))
	return it
}

// TranslateBanner returns a copy of b with title and message translated.
func (l *Localizer) TranslateBanner(ctx context.Context, b domain.Banner, lang string) domain.Banner {
	if l.skip(lang) {
		return b
	}
	l.run(ctx, lang, bannerJobs(&b))
	return b
}

// TranslateMenuTree translates a menu with all of its categories and items in
// one fan-out. The input tree is not modified.
func (l *Localizer) TranslateMenuTree(ctx context.Context, m domain.Menu, lang string) domain.Menu {
	if l.skip(lang) {
		return m
	}

	tr := otel.Tracer("services/Localizer")
	ctx, span := tr.Start(ctx, "TranslateMenuTree",
		trace.WithAttributes(
			attribute.String("menu.id", m.ID),
			attribute.String("translation.lang", lang),
		),
	)
	defer span.End()

	jobs := menuJobs(&m)
	if m.Categories != nil {
		cats := make([]domain.Category, len(m.Categories))
		copy(cats, m.Categories)
		m.Categories = cats
	}
	for ci := range m.Categories {
		c := &m.Categories[ci]
		jobs = append(jobs, categoryJobs(c)...)
		if c.Items != nil {
			items := make([]domain.MenuItem, len(c.Items))
			copy(items, c.Items)
			c.Items = items
		}
		for ii := range c.Items {
			jobs = append(jobs, menuItemJobs(&c.Items[ii])...)
		}
	}
	span.SetAttributes(attribute.Int("translation.fields", len(jobs)))

	l.run(ctx, lang, jobs)
	return m
}
