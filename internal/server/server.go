package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kickelo/kickelo/internal/config"
	dbpkg "github.com/kickelo/kickelo/internal/db"
	"github.com/kickelo/kickelo/internal/matches"
	"github.com/kickelo/kickelo/internal/players"
	"github.com/kickelo/kickelo/internal/session"
	"github.com/kickelo/kickelo/internal/web"
)

// OpenStore opens the database and brings the schema up to date.
func OpenStore(path string) (*gorm.DB, error) {
	d, err := dbpkg.Open(path)
	if err != nil {
		return nil, err
	}
	if err := dbpkg.AutoMigrate(d, &players.Player{}, &matches.Record{}, &session.State{}); err != nil {
		_ = dbpkg.Close(d)
		return nil, err
	}
	return d, nil
}

func NewRouter(d *gorm.DB, cfg config.Config) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	// Only the configured proxies may set client IP headers.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	players.RegisterRoutes(r, players.NewRepository(d))
	matches.RegisterRoutes(r, matches.NewRepository(d))
	session.RegisterRoutes(r, session.NewRepository(d))
	web.RegisterRoutes(r, cfg.StaticDir)
	return r, nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
