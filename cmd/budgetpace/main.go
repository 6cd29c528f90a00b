package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/budgetpace/internal/config"
	"github.com/mtlprog/budgetpace/internal/database"
	"github.com/mtlprog/budgetpace/internal/handler"
	"github.com/mtlprog/budgetpace/internal/handler/dto"
	"github.com/mtlprog/budgetpace/internal/logger"
	"github.com/mtlprog/budgetpace/internal/pace"
	"github.com/mtlprog/budgetpace/internal/repository"
	"github.com/mtlprog/budgetpace/internal/service"
)

func main() {
	app := &cli.App{
		Name:  "budgetpace",
		Usage: "Time-budget pace and projection engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   logger.FormatJSON,
				Usage:   "Log format (json, text)",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.StringFlag{
				Name:     "database-url",
				Aliases:  []string{"d"},
				Value:    config.DefaultDatabaseURL,
				Usage:    "PostgreSQL database URL",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "thresholds",
				Aliases: []string{"t"},
				Value:   config.DefaultThresholdsFile,
				Usage:   "TOML file overriding the engine thresholds",
				EnvVars: []string{"THRESHOLDS_FILE"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")), c.String("log-format"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the web server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
				},
				Action: runServe,
			},
			{
				Name:  "evaluate",
				Usage: "Print the pace report of a stored project",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "project",
						Usage:    "Project UUID",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "now",
						Usage: "Evaluation instant (RFC 3339), defaults to the current time",
					},
				},
				Action: runEvaluate,
			},
			{
				Name:  "scan",
				Usage: "Evaluate every project and log the ones at risk",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "now",
						Usage: "Evaluation instant (RFC 3339), defaults to the current time",
					},
				},
				Action: runScan,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// open connects to the ledger, migrates it and loads the thresholds.
func open(c *cli.Context) (*database.DB, pace.Thresholds, error) {
	thresholds, err := config.LoadThresholds(c.String("thresholds"))
	if err != nil {
		return nil, thresholds, fmt.Errorf("failed to load thresholds: %w", err)
	}

	db, err := database.New(c.Context, c.String("database-url"), database.Options{})
	if err != nil {
		return nil, thresholds, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(c.Context, db.Pool()); err != nil {
		db.Close()
		return nil, thresholds, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, thresholds, nil
}

func newPaceService(db *database.DB, thresholds pace.Thresholds) *service.PaceService {
	return service.NewPaceService(
		repository.NewProjectRepository(db.Pool()),
		repository.NewWorkItemRepository(db.Pool()),
		repository.NewTimeEntryRepository(db.Pool()),
		thresholds,
	)
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}

	db, thresholds, err := open(c)
	if err != nil {
		return err
	}
	defer db.Close()

	h := handler.New(db.Pool(), thresholds)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           h.Routes(),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func runEvaluate(c *cli.Context) error {
	now, err := service.ResolveNow(c.String("now"), time.Now().UTC())
	if err != nil {
		return err
	}

	db, thresholds, err := open(c)
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := newPaceService(db, thresholds).Evaluate(c.Context, c.String("project"), now)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(dto.NewPaceReportResponse(report))
}

func runScan(c *cli.Context) error {
	now, err := service.ResolveNow(c.String("now"), time.Now().UTC())
	if err != nil {
		return err
	}

	db, thresholds, err := open(c)
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := newPaceService(db, thresholds).ScanProjects(c.Context, now)
	if result != nil {
		for _, report := range result.AtRisk {
			slog.Warn("project at risk",
				"project_id", report.ProjectID,
				"trajectory", report.Trajectory,
				"projected_overage", report.ProjectedOverage,
			)
		}
	}
	return err
}
