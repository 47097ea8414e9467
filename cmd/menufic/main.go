// Command menufic runs the menu platform core: it migrates the catalog
// database, wires the translation cache and catalog services, and serves the
// ops endpoints (/health, /ready, /metrics) until SIGINT or SIGTERM.
//
// Maintenance flags run one task and exit instead of serving:
//
//	-purge-lang TH            delete every cached translation for a language
//	-warm TH,DE,FR            pre-translate published menus and banners
//	-preview ID [-lang TH]    print the menus and banners a restaurant shows now
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/newitdevelop/menufic/internal/cache"
	"github.com/newitdevelop/menufic/internal/config"
	"github.com/newitdevelop/menufic/internal/domain"
	httpapi "github.com/newitdevelop/menufic/internal/http"
	"github.com/newitdevelop/menufic/internal/http/handlers"
	"github.com/newitdevelop/menufic/internal/i18n"
	"github.com/newitdevelop/menufic/internal/observability"
	"github.com/newitdevelop/menufic/internal/repo"
	"github.com/newitdevelop/menufic/internal/services"
	"github.com/newitdevelop/menufic/internal/sysutil"
)

// version is set with -ldflags "-X main.version=...".
var version string

const shutdownTimeout = 10 * time.Second

// options holds the maintenance flags; all empty means serve.
type options struct {
	purgeLang string
	warmLangs string
	preview   string
	lang      string
}

func main() {
	var opts options
	flag.StringVar(&opts.purgeLang, "purge-lang", "", "delete all cached translations for this language and exit")
	flag.StringVar(&opts.warmLangs, "warm", "", "comma-separated languages to pre-translate, then exit")
	flag.StringVar(&opts.preview, "preview", "", "restaurant ID whose active menus and banners are printed as JSON, then exit")
	flag.StringVar(&opts.lang, "lang", "", "language for -preview (default: source language)")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "load .env:", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	sysutil.SetupLogger(os.Stderr, cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts); err != nil {
		log.Error().Err(err).Msg("menufic exited")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, opts options) error {
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, sysutil.FirstNonEmpty(version, os.Getenv("APP_VERSION"), "dev"))
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	dsn := cfg.DBPath
	if cfg.DBDriver == repo.DriverPostgres {
		dsn = cfg.DatabaseURL
	}
	db, err := repo.Open(cfg.DBDriver, dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer closeDB(db)
	if err := repo.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	probes := handlers.NewProbes(0).Add("db", handlers.PingDB(db))

	store, rdb, err := openTranslationStore(ctx, cfg, db)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
		probes.Add("redis", handlers.PingRedis(rdb))
	}

	// No vendor translator is configured; misses fall back to the source text.
	translator := i18n.NewRateLimited(i18n.Unavailable{}, cfg.Translation.RPS, cfg.Translation.Burst)
	trCache := i18n.NewCache(store, translator, cfg.Translation.SourceLang)
	loc := services.NewLocalizer(trCache, cfg.Translation.Concurrency)

	switch {
	case opts.purgeLang != "":
		n, err := trCache.PurgeLanguage(ctx, opts.purgeLang)
		if err != nil {
			return err
		}
		log.Info().Str("lang", i18n.NormalizeLang(opts.purgeLang)).Int64("deleted", n).Msg("purge complete")
		return nil
	case opts.warmLangs != "":
		stats, err := services.NewWarmer(db, loc).Warm(ctx, strings.Split(opts.warmLangs, ","))
		if err != nil {
			return fmt.Errorf("warm: %w", err)
		}
		log.Info().
			Int("restaurants", stats.Restaurants).
			Int("menus", stats.Menus).
			Int("banners", stats.Banners).
			Msg("warm complete")
		return nil
	case opts.preview != "":
		clock := services.SystemClock{Location: cfg.Location()}
		lang := sysutil.FirstNonEmpty(opts.lang, trCache.DefaultSource())
		return preview(ctx, os.Stdout, opts.preview, lang,
			services.NewMenuService(db, trCache, loc, clock),
			services.NewBannerService(db, trCache, loc, clock))
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, cfg, probes)
	srv := httpapi.NewServer(cfg, r)

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("db_driver", cfg.DBDriver).
			Str("translation_store", cfg.Translation.Store).
			Msg("ops server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}

// previewResult is the -preview output.
type previewResult struct {
	RestaurantID string          `json:"restaurantId"`
	Language     string          `json:"language"`
	At           time.Time       `json:"at"`
	Menus        []domain.Menu   `json:"menus"`
	Banners      []domain.Banner `json:"banners"`
}

func preview(ctx context.Context, w io.Writer, restaurantID, lang string, menus *services.MenuService, banners *services.BannerService) error {
	ms, err := menus.PublishedMenus(ctx, restaurantID, lang)
	if err != nil {
		return fmt.Errorf("preview menus: %w", err)
	}
	bs, err := banners.ActiveBanners(ctx, restaurantID, lang)
	if err != nil {
		return fmt.Errorf("preview banners: %w", err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(previewResult{
		RestaurantID: restaurantID,
		Language:     i18n.NormalizeLang(lang),
		At:           menus.Clock.Now(),
		Menus:        ms,
		Banners:      bs,
	})
}

// openTranslationStore selects the translation cache backend. The Redis
// client is returned so the caller can close it and probe it.
func openTranslationStore(ctx context.Context, cfg config.Config, db *gorm.DB) (i18n.Store, *redis.Client, error) {
	switch cfg.Translation.Store {
	case config.StoreRedis:
		rdb, err := cache.New(ctx, cfg.Redis.Addr)
		if err != nil {
			return nil, nil, err
		}
		return cache.NewTranslationStore(rdb, cfg.Redis.Prefix), rdb, nil
	case config.StoreMemory:
		return i18n.NewMemoryStore(), nil, nil
	default:
		return repo.NewTranslationStore(db), nil, nil
	}
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn().Err(err).Msg("db close")
	}
}
