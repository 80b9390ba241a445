package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"github.com/kickelo/kickelo/internal/admin"
	"github.com/kickelo/kickelo/internal/config"
	dbpkg "github.com/kickelo/kickelo/internal/db"
	"github.com/kickelo/kickelo/internal/server"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	app := &cli.App{
		Name:  "kickelo",
		Usage: "foosball match tracker",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Value: cfg.DBPath, Usage: "sqlite database file"},
		},
		Action: func(c *cli.Context) error { return serve(c, cfg) },
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP API",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Value: cfg.Addr, Usage: "listen address"},
				},
				Action: func(c *cli.Context) error { return serve(c, cfg) },
			},
			{
				Name:  "backup",
				Usage: "write a JSON snapshot of the database",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Usage: "output file (default backups/kickelo-backup-<time>.json)"},
				},
				Action: backup,
			},
			{
				Name:  "purge-vibration-logs",
				Usage: "remove stored vibration logs from all matches",
				Action: func(c *cli.Context) error {
					return withStore(c, func(d *gorm.DB) error {
						checked, updated, err := admin.PurgeVibrationLogs(c.Context, d)
						if err != nil {
							return err
						}
						fmt.Printf("Checked %d matches. Removed vibrationLog from %d matches.\n", checked, updated)
						return nil
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("kickelo failed", "err", err)
		os.Exit(1)
	}
}

func withStore(c *cli.Context, fn func(d *gorm.DB) error) error {
	d, err := server.OpenStore(c.String("db"))
	if err != nil {
		return err
	}
	defer func() { _ = dbpkg.Close(d) }()
	return fn(d)
}

func serve(c *cli.Context, cfg config.Config) error {
	if c.IsSet("addr") {
		cfg.Addr = c.String("addr")
	}
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withStore(c, func(d *gorm.DB) error {
		r, err := server.NewRouter(d, cfg)
		if err != nil {
			return err
		}
		slog.Info("starting", "db", c.String("db"), "static_dir", cfg.StaticDir)
		return server.Run(ctx, cfg.Addr, r)
	})
}

func backup(c *cli.Context) error {
	now := time.Now()
	out := c.String("out")
	if out == "" {
		stamp := strings.NewReplacer(":", "-", ".", "-").Replace(now.UTC().Format(time.RFC3339Nano))
		out = filepath.Join("backups", "kickelo-backup-"+stamp+".json")
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("backup dir: %w", err)
	}
	return withStore(c, func(d *gorm.DB) error {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create backup file: %w", err)
		}
		defer f.Close()
		if _, err := admin.Backup(c.Context, d, f, now); err != nil {
			return err
		}
		fmt.Printf("Backup completed! File saved to %s\n", out)
		return f.Close()
	})
}
