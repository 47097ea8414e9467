package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/newitdevelop/menufic/internal/domain"
	"github.com/newitdevelop/menufic/internal/i18n"
	"github.com/newitdevelop/menufic/internal/repo"
	"github.com/newitdevelop/menufic/internal/schedule"
)

// BannerInput is the editable part of a banner.
type BannerInput struct {
	Title    string
	Message  string
	Position int
	Schedule schedule.Config
}

// BannerService manages restaurant banners and serves the ones currently
// scheduled.
type BannerService struct {
	DB        *gorm.DB
	Cache     *i18n.Cache
	Localizer *Localizer
	Clock     Clock
}

// NewBannerService wires a BannerService. A nil clock means SystemClock.
func NewBannerService(db *gorm.DB, cache *i18n.Cache, loc *Localizer, clock Clock) *BannerService {
	return &BannerService{DB: db, Cache: cache, Localizer: loc, Clock: clockOrSystem(clock)}
}

// CreateBanner adds a banner to a restaurant.
func (s *BannerService) CreateBanner(ctx context.Context, restaurantID string, in BannerInput) (*domain.Banner, error) {
	if err := validateBannerInput(&in); err != nil {
		return nil, err
	}
	if _, err := repo.GetRestaurant(ctx, s.DB, restaurantID); err != nil {
		return nil, notFound(err, ErrRestaurantNotFound)
	}
	b := &domain.Banner{
		RestaurantID: restaurantID,
		Title:        in.Title,
		Message:      in.Message,
		Position:     in.Position,
		Schedule:     domain.ScheduleFrom(in.Schedule),
	}
	if err := repo.CreateBanner(ctx, s.DB, b); err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateBanner replaces the editable fields of a banner and invalidates its
// translations when the title or message changed.
func (s *BannerService) UpdateBanner(ctx context.Context, id string, in BannerInput) (*domain.Banner, error) {
	ctx, span := otel.Tracer("services/BannerService").Start(ctx, "UpdateBanner",
		trace.WithAttributes(attribute.String("banner.id", id)),
	)
	defer span.End()

	if err := validateBannerInput(&in); err != nil {
		return nil, err
	}
	b, err := repo.GetBanner(ctx, s.DB, id)
	if err != nil {
		return nil, notFound(err, ErrBannerNotFound)
	}
	textChanged := b.Title != in.Title || b.Message != in.Message

	b.Title = in.Title
	b.Message = in.Message
	b.Position = in.Position
	b.Schedule = domain.ScheduleFrom(in.Schedule)
	if err := repo.UpdateBanner(ctx, s.DB, b); err != nil {
		return nil, notFound(err, ErrBannerNotFound)
	}
	if textChanged {
		if err := s.Cache.Invalidate(ctx, i18n.EntityBanner, id); err != nil {
			return b, err
		}
	}
	return b, nil
}

// DeleteBanner removes a banner and invalidates its translations.
func (s *BannerService) DeleteBanner(ctx context.Context, id string) error {
	if err := repo.DeleteBanner(ctx, s.DB, id); err != nil {
		return notFound(err, ErrBannerNotFound)
	}
	return s.Cache.Invalidate(ctx, i18n.EntityBanner, id)
}

// ActiveBanners returns the restaurant's banners whose schedule is active now,
// translated into lang.
func (s *BannerService) ActiveBanners(ctx context.Context, restaurantID, lang string) ([]domain.Banner, error) {
	ctx, span := otel.Tracer("services/BannerService").Start(ctx, "ActiveBanners",
		trace.WithAttributes(
			attribute.String("restaurant.id", restaurantID),
			attribute.String("translation.lang", lang),
		),
	)
	defer span.End()

	banners, err := repo.ListBanners(ctx, s.DB, restaurantID)
	if err != nil {
		return nil, err
	}
	now := clockOrSystem(s.Clock).Now()
	out := make([]domain.Banner, 0, len(banners))
	for _, b := range banners {
		if b.Schedule.IsActive(now) {
			out = append(out, s.Localizer.TranslateBanner(ctx, b, lang))
		}
	}
	return out, nil
}

func validateBannerInput(in *BannerInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Message = strings.TrimSpace(in.Message)
	if in.Title == "" {
		return ErrEmptyName
	}
	if err := schedule.Validate(in.Schedule); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	return nil
}
