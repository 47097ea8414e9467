// Package services – MenuService
//
// MenuService owns the menu tree (menus, categories, menu items). Its editor
// methods validate input, persist the change and then invalidate the cached
// translations of every entity whose translatable text may have changed.
// Deletes invalidate the removed children as well. Its guest read paths filter
// menus by publication state and display schedule, then translate the tree.
//
// Observability: public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/newitdevelop/menufic/internal/domain"
	"github.com/newitdevelop/menufic/internal/i18n"
	"github.com/newitdevelop/menufic/internal/repo"
	"github.com/newitdevelop/menufic/internal/schedule"
)

// MenuInput is the editable part of a menu.
type MenuInput struct {
	Name          string
	AvailableTime string
	Position      int
	Published     bool
	Schedule      schedule.Config
}

// CategoryInput is the editable part of a category.
type CategoryInput struct {
	Name     string
	Position int
}

// MenuItemInput is the editable part of a menu item.
type MenuItemInput struct {
	Name        string
	Description string
	Price       float64
	Position    int
}

// MenuService coordinates menu persistence, translation invalidation and the
// guest-facing menu read paths.
type MenuService struct {
	DB        *gorm.DB
	Cache     *i18n.Cache
	Localizer *Localizer
	Clock     Clock
}

// NewMenuService wires a MenuService. A nil clock means SystemClock.
func NewMenuService(db *gorm.DB, cache *i18n.Cache, loc *Localizer, clock Clock) *MenuService {
	return &MenuService{DB: db, Cache: cache, Localizer: loc, Clock: clockOrSystem(clock)}
}

// CreateRestaurant registers a restaurant.
func (s *MenuService) CreateRestaurant(ctx context.Context, name string) (*domain.Restaurant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return repo.CreateRestaurant(ctx, s.DB, name)
}

// CreateMenu adds a menu to a restaurant.
func (s *MenuService) CreateMenu(ctx context.Context, restaurantID string, in MenuInput) (*domain.Menu, error) {
	ctx, span := otel.Tracer("services/MenuService").Start(ctx, "CreateMenu",
		trace.WithAttributes(attribute.String("restaurant.id", restaurantID)),
	)
	defer span.End()

	if err := validateMenuInput(&in); err != nil {
		return nil, err
	}
	if _, err := repo.GetRestaurant(ctx, s.DB, restaurantID); err != nil {
		return nil, notFound(err, ErrRestaurantNotFound)
	}

	m := &domain.Menu{
		RestaurantID:  restaurantID,
		Name:          in.Name,
		AvailableTime: in.AvailableTime,
		Position:      in.Position,
		Published:     in.Published,
		Schedule:      domain.ScheduleFrom(in.Schedule),
	}
	if err := repo.CreateMenu(ctx, s.DB, m); err != nil {
		return nil, err
	}
	return m, nil
}

// UpdateMenu replaces the editable fields of a menu. Cached translations are
// invalidated when the name or available time changed.
func (s *MenuService) UpdateMenu(ctx context.Context, id string, in MenuInput) (*domain.Menu, error) {
	ctx, span := otel.Tracer("services/MenuService").Start(ctx, "UpdateMenu",
		trace.WithAttributes(attribute.String("menu.id", id)),
	)
	defer span.End()

	if err := validateMenuInput(&in); err != nil {
		return nil, err
	}
	m, err := repo.GetMenu(ctx, s.DB, id)
	if err != nil {
		return nil, notFound(err, ErrMenuNotFound)
	}
	textChanged := m.Name != in.Name || m.AvailableTime != in.AvailableTime

	m.Name = in.Name
	m.AvailableTime = in.AvailableTime
	m.Position = in.Position
	m.Published = in.Published
	m.Schedule = domain.ScheduleFrom(in.Schedule)
	if err := repo.UpdateMenu(ctx, s.DB, m); err != nil {
		return nil, notFound(err, ErrMenuNotFound)
	}

	if textChanged {
		if err := s.Cache.Invalidate(ctx, i18n.EntityMenu, id); err != nil {
			return m, err
		}
	}
	return m, nil
}

// DeleteMenu removes a menu with its categories and items, then invalidates
// the translations of all of them.
func (s *MenuService) DeleteMenu(ctx context.Context, id string) error {
	ctx, span := otel.Tracer("services/MenuService").Start(ctx, "DeleteMenu",
		trace.WithAttributes(attribute.String("menu.id", id)),
	)
	defer span.End()

	var catIDs, itemIDs []string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if catIDs, err = repo.ListCategoryIDs(ctx, tx, id); err != nil {
			return err
		}
		if itemIDs, err = repo.ListItemIDs(ctx, tx, catIDs); err != nil {
			return err
		}
		return repo.DeleteMenu(ctx, tx, id)
	})
	if err != nil {
		return notFound(err, ErrMenuNotFound)
	}

	return s.invalidateAll(ctx,
		entityRefs(i18n.EntityMenu, []string{id}),
		entityRefs(i18n.EntityCategory, catIDs),
		entityRefs(i18n.EntityMenuItem, itemIDs),
	)
}

// CreateCategory adds a category to a menu.
func (s *MenuService) CreateCategory(ctx context.Context, menuID string, in CategoryInput) (*domain.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, ErrEmptyName
	}
	if _, err := repo.GetMenu(ctx, s.DB, menuID); err != nil {
		return nil, notFound(err, ErrMenuNotFound)
	}
	c := &domain.Category{MenuID: menuID, Name: in.Name, Position: in.Position}
	if err := repo.CreateCategory(ctx, s.DB, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCategory renames or repositions a category.
func (s *MenuService) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*domain.Category, error) {
	ctx, span := otel.Tracer("services/MenuService").Start(ctx, "UpdateCategory",
		trace.WithAttributes(attribute.String("category.id", id)),
	)
	defer span.End()

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, ErrEmptyName
	}
	c, err := repo.GetCategory(ctx, s.DB, id)
	if err != nil {
		return nil, notFound(err, ErrCategoryNotFound)
	}
	textChanged := c.Name != in.Name

	c.Name = in.Name
	c.Position = in.Position
	if err := repo.UpdateCategory(ctx, s.DB, c); err != nil {
		return nil, notFound(err, ErrCategoryNotFound)
	}
	if textChanged {
		if err := s.Cache.Invalidate(ctx, i18n.EntityCategory, id); err != nil {
			return c, err
		}
	}
	return c, nil
}

// DeleteCategory removes a category and its items, then invalidates their
// translations.
func (s *MenuService) DeleteCategory(ctx context.Context, id string) error {
	ctx, span := otel.Tracer("services/MenuService").Start(ctx, "DeleteCategory",
		trace.WithAttributes(attribute.String("category.id", id)),
	)
	defer span.End()

	var itemIDs []string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if itemIDs, err = repo.ListItemIDs(ctx, tx, []string{id}); err != nil {
			return err
		}
		return repo.DeleteCategory(ctx, tx, id)
	})
	if err != nil {
		return notFound(err, ErrCategoryNotFound)
	}
	return s.invalidateAll(ctx,
		entityRefs(i18n.EntityCategory, []string{id}),
		entityRefs(i18n.EntityMenuItem, itemIDs),
	)
}

// CreateMenuItem adds an item to a category.
func (s *MenuService) CreateMenuItem(ctx context.Context, categoryID string, in MenuItemInput) (*domain.MenuItem, error) {
	if err := validateItemInput(&in); err != nil {
		return nil, err
	}
	if _, err := repo.GetCategory(ctx, s.DB, categoryID); err != nil {
		return nil, notFound(err, ErrCategoryNotFound)
	}
	it := &domain.MenuItem{
		CategoryID:  categoryID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Position:    in.Position,
	}
	if err := repo.CreateMenuItem(ctx, s.DB, it); err != nil {
		return nil, err
	}
	return it, nil
}

// UpdateMenuItem replaces the editable fields of a menu item.
func (s *MenuService) UpdateMenuItem(ctx context.Context, id string, in MenuItemInput) (*domain.MenuItem, error) {
	ctx, span := otel.Tracer("services/MenuService").Start(ctx, "UpdateMenuItem",
		trace.WithAttributes(attribute.String("menu_item.id", id)),
	)
	defer span.End()

	if err := validateItemInput(&in); err != nil {
		return nil, err
	}
	it, err := repo.GetMenuItem(ctx, s.DB, id)
	if err != nil {
		return nil, notFound(err, ErrMenuItemNotFound)
	}
	textChanged := it.Name != in.Name || it.Description != in.Description

	it.Name = in.Name
	it.Description = in.Description
	it.Price = in.Price
	it.Position = in.Position
	if err := repo.UpdateMenuItem(ctx, s.DB, it); err != nil {
		return nil, notFound(err, ErrMenuItemNotFound)
	}
	if textChanged {
		if err := s.Cache.Invalidate(ctx, i18n.EntityMenuItem, id); err != nil {
			return it, err
		}
	}
	return it, nil
}

// DeleteMenuItem removes a menu item and invalidates its translations.
func (s *MenuService) DeleteMenuItem(ctx context.Context, id string) error {
	if err := repo.DeleteMenuItem(ctx, s.DB, id); err != nil {
		return notFound(err, ErrMenuItemNotFound)
	}
	return s.Cache.Invalidate(ctx, i18n.EntityMenuItem, id)
}

// PublishedMenus returns the restaurant's published menus whose schedule is
// active now, translated into lang.
func (s *MenuService) PublishedMenus(ctx context.Context, restaurantID, lang string) ([]domain.Menu, error) {
	ctx, span := otel.Tracer("services/MenuService").Start(ctx, "PublishedMenus",
		trace.WithAttributes(
			attribute.String("restaurant.id", restaurantID),
			attribute.String("translation.lang", lang),
		),
	)
	defer span.End()

	menus, err := repo.ListMenuTrees(ctx, s.DB, restaurantID, true)
	if err != nil {
		return nil, err
	}

	now := clockOrSystem(s.Clock).Now()
	out := make([]domain.Menu, 0, len(menus))
	for _, m := range menus {
		if !m.Schedule.IsActive(now) {
			continue
		}
		out = append(out, s.Localizer.TranslateMenuTree(ctx, m, lang))
	}
	span.SetAttributes(attribute.Int("menus.total", len(menus)), attribute.Int("menus.active", len(out)))
	return out, nil
}

// PublishedMenu returns one menu translated into lang. It fails with
// ErrMenuUnavailable when the menu is unpublished or outside its schedule.
func (s *MenuService) PublishedMenu(ctx context.Context, menuID, lang string) (*domain.Menu, error) {
	ctx, span := otel.Tracer("services/MenuService").Start(ctx, "PublishedMenu",
		trace.WithAttributes(
			attribute.String("menu.id", menuID),
			attribute.String("translation.lang", lang),
		),
	)
	defer span.End()

	m, err := repo.GetMenuTree(ctx, s.DB, menuID)
	if err != nil {
		return nil, notFound(err, ErrMenuNotFound)
	}
	if !m.Published || !m.Schedule.IsActive(clockOrSystem(s.Clock).Now()) {
		return nil, ErrMenuUnavailable
	}
	translated := s.Localizer.TranslateMenuTree(ctx, *m, lang)
	return &translated, nil
}

func validateMenuInput(in *MenuInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.AvailableTime = strings.TrimSpace(in.AvailableTime)
	if in.Name == "" {
		return ErrEmptyName
	}
	if err := schedule.Validate(in.Schedule); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	return nil
}

func validateItemInput(in *MenuItemInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return ErrEmptyName
	}
	if in.Price < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// notFound maps repo.ErrNotFound to the given domain error.
func notFound(err, domainErr error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return domainErr
	}
	return err
}

type entityRef struct {
	entityType string
	entityID   string
}

func entityRefs(entityType string, ids []string) []entityRef {
	out := make([]entityRef, 0, len(ids))
	for _, id := range ids {
		out = append(out, entityRef{entityType, id})
	}
	return out
}

// invalidateAll invalidates every entity, continuing past failures, and
// returns the first error.
func (s *MenuService) invalidateAll(ctx context.Context, groups ...[]entityRef) error {
	var first error
	for _, refs := range groups {
		for _, r := range refs {
			if err := s.Cache.Invalidate(ctx, r.entityType, r.entityID); err != nil {
				log.Warn().Err(err).Str("entity_type", r.entityType).Str("entity_id", r.entityID).Msg("invalidate failed")
				if first == nil {
					first = err
				}
			}
		}
	}
	return first
}
