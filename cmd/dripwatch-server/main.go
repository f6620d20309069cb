package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dripwatch/dripwatch/internal/config"
	"github.com/dripwatch/dripwatch/internal/domain/bed"
	"github.com/dripwatch/dripwatch/internal/domain/employee"
	"github.com/dripwatch/dripwatch/internal/domain/incident"
	"github.com/dripwatch/dripwatch/internal/domain/maintenance"
	"github.com/dripwatch/dripwatch/internal/domain/medication"
	"github.com/dripwatch/dripwatch/internal/domain/medicine"
	"github.com/dripwatch/dripwatch/internal/domain/notification"
	"github.com/dripwatch/dripwatch/internal/domain/patient"
	"github.com/dripwatch/dripwatch/internal/domain/sensor"
	"github.com/dripwatch/dripwatch/internal/domain/visit"
	"github.com/dripwatch/dripwatch/internal/platform/auth"
	"github.com/dripwatch/dripwatch/internal/platform/db"
	"github.com/dripwatch/dripwatch/internal/platform/middleware"
	"github.com/dripwatch/dripwatch/internal/platform/mqtt"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dripwatch-server",
		Short: "Hospital bed and IV drip monitoring API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func newLogger(cfg *config.Config) zerolog.Logger {
	var out io.Writer = os.Stdout
	if cfg.IsDev() {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	if cfg.LogFile != "" {
		out = io.MultiWriter(out, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
		})
	}
	return zerolog.New(out).With().Timestamp().Logger()
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	authCfg := auth.Config{
		Secret: []byte(cfg.JWTSecret),
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.JWTTTL,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(auth.Middleware(authCfg))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}

	// Route groups. /api/v1 is staff-facing and JWT protected; the -ext
	// groups are the unauthenticated device ingress for ESP32 firmware.
	apiV1 := e.Group("/api/v1")
	apiV1.Use(middleware.RateLimit(rateLimitCfg))
	bedExt := e.Group("/beds-ext")
	medExt := e.Group("/medication-ext")

	// Repositories.
	bedRepo := bed.NewRepo(pool)
	patientRepo := patient.NewRepo(pool)
	employeeRepo := employee.NewRepo(pool)
	medicineRepo := medicine.NewRepo(pool)
	applicationRepo := medication.NewRepo(pool)
	incidentRepo := incident.NewRepo(pool)
	notificationRepo := notification.NewRepo(pool)
	sensorRepo := sensor.NewRepo(pool)
	maintenanceRepo := maintenance.NewRepo(pool)
	visitRepo := visit.NewRepo(pool)

	// Services.
	notificationSvc := notification.NewService(notificationRepo, logger)
	trigger := notification.NewTrigger(notificationSvc, logger)
	bedSvc := bed.NewService(bedRepo, trigger, logger)
	incidentSvc := incident.NewService(incidentRepo)
	medicationSvc := medication.NewService(applicationRepo, bedRepo, patientRepo, incidentSvc, trigger, db.NewTxManager(pool), logger)
	patientSvc := patient.NewService(patientRepo)
	employeeSvc := employee.NewService(employeeRepo, authCfg)
	medicineSvc := medicine.NewService(medicineRepo)
	sensorSvc := sensor.NewService(sensorRepo)
	maintenanceSvc := maintenance.NewService(maintenanceRepo)
	visitSvc := visit.NewService(visitRepo)

	// Handlers.
	employeeHandler := employee.NewHandler(employeeSvc)
	employeeHandler.RegisterAuthRoutes(e)
	employeeHandler.RegisterRoutes(apiV1)

	bedHandler := bed.NewHandler(bedSvc)
	bedHandler.RegisterRoutes(apiV1)
	bedHandler.RegisterDeviceRoutes(bedExt)

	medicationHandler := medication.NewHandler(medicationSvc)
	medicationHandler.RegisterRoutes(apiV1)
	medicationHandler.RegisterDeviceRoutes(bedExt, medExt)

	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)
	medicine.NewHandler(medicineSvc).RegisterRoutes(apiV1)
	incident.NewHandler(incidentSvc).RegisterRoutes(apiV1)
	notification.NewHandler(notificationSvc, cfg.NotificationRetention).RegisterRoutes(apiV1)
	sensor.NewHandler(sensorSvc).RegisterRoutes(apiV1)
	maintenance.NewHandler(maintenanceSvc).RegisterRoutes(apiV1)
	visit.NewHandler(visitSvc).RegisterRoutes(apiV1)

	// Health checks.
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Background notification retention sweep.
	go notificationSvc.StartRetentionSweep(ctx, cfg.NotificationSweepInterval, cfg.NotificationRetention)

	// Optional MQTT ingress alongside the HTTP device endpoints.
	if cfg.MQTTBrokerURL != "" {
		bridge := mqtt.NewBridge(mqtt.Config{
			BrokerURL: cfg.MQTTBrokerURL,
			ClientID:  cfg.MQTTClientID,
			Username:  cfg.MQTTUsername,
			Password:  cfg.MQTTPassword,
		}, bedSvc, logger)
		if err := bridge.Connect(); err != nil {
			logger.Error().Err(err).Msg("mqtt bridge disabled")
		} else {
			defer bridge.Close()
		}
	}

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
