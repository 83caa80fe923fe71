package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"civiceye/config"
	"civiceye/handlers"
	"civiceye/middleware"
	"civiceye/models"
	"civiceye/repository"
	"civiceye/services"
	"civiceye/store"
	"civiceye/utils"
	"civiceye/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// runtime holds everything built from the configuration.
type runtime struct {
	cfg    *config.Config
	log    *zap.Logger
	store  store.Store
	closer io.Closer
	clock  clockwork.Clock

	users         *repository.Users
	publications  *repository.Publications
	comments      *repository.Comments
	tournaments   *repository.Tournaments
	missions      *repository.Missions
	notifications *repository.Notifications

	notificationService *services.NotificationService
	gamification        *services.GamificationService
	tournamentService   *services.TournamentService
	publicationService  *services.PublicationService
	commentService      *services.CommentService
	userService         *services.UserService
	chatService         *services.ChatService
	analytics           *services.AnalyticsService
	exporter            *services.Exporter
}

func build(ctx context.Context, configPath string) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, err := utils.NewLogger(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	st, closer, err := store.Open(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	rt := &runtime{
		cfg:    cfg,
		log:    log,
		store:  st,
		closer: closer,
		clock:  clockwork.NewRealClock(),

		users:         repository.NewUsers(st, log),
		publications:  repository.NewPublications(st, log),
		comments:      repository.NewComments(st, log),
		tournaments:   repository.NewTournaments(st, log),
		missions:      repository.NewMissions(st, log),
		notifications: repository.NewNotifications(st, log),
	}

	rt.notificationService = services.NewNotificationService(rt.notifications, rt.clock, log)
	rt.gamification = services.NewGamificationService(rt.users, rt.missions, rt.tournaments, rt.notificationService, rt.clock, log)
	rt.tournamentService = services.NewTournamentService(rt.tournaments, rt.gamification, rt.clock, log)
	rt.publicationService = services.NewPublicationService(rt.publications, rt.comments, rt.users, rt.gamification, rt.notificationService, rt.clock, log)
	rt.commentService = services.NewCommentService(rt.comments, rt.publications, rt.users, rt.gamification, rt.notificationService, rt.clock, log)
	rt.userService = services.NewUserService(rt.users, rt.publications, rt.comments, cfg.IsAdminEmail, rt.clock, log)
	rt.chatService = services.NewChatService(rt.notifications, rt.users, rt.notificationService, rt.clock, log)
	rt.analytics = services.NewAnalyticsService(rt.users, rt.publications, rt.comments, rt.notifications, st, rt.clock, log)

	sink, err := exportSink(ctx, cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.exporter = services.NewExporter(sink, rt.clock, log)

	if _, err := rt.publicationService.AdoptEmbeddedComments(ctx); err != nil {
		log.Warn("embedded_comments_adoption_failed", zap.Error(err))
	}
	return rt, nil
}

// exportSink always writes locally and also uploads to R2 when configured.
func exportSink(ctx context.Context, cfg *config.Config) (utils.ExportSink, error) {
	local := utils.DirSink{Dir: cfg.Export.Dir}
	if !cfg.R2Enabled() {
		return local, nil
	}
	r2, err := utils.NewR2Sink(ctx,
		cfg.Export.R2AccountID,
		cfg.Export.R2AccessKeyID,
		cfg.Export.R2AccessKeySecret,
		cfg.Export.R2Bucket,
		cfg.Export.CDNBaseURL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize R2 client: %w", err)
	}
	return utils.MultiSink{local, r2}, nil
}

func (rt *runtime) Close() {
	if err := rt.closer.Close(); err != nil {
		rt.log.Warn("store_close_failed", zap.Error(err))
	}
	_ = rt.log.Sync()
}

func newApp(rt *runtime) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "civiceye " + version,
		BodyLimit: 10 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(rt.log))
	app.Use(middleware.GatewayAuthMiddleware(rt.cfg.Server.ServiceToken, rt.log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(rt.cfg.Server.AllowedOrigins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, Content-Disposition, X-Request-ID, X-Export-Location",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "version": version})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(middleware.UserContextMiddleware(rt.log))

	handlers.SetupUserRoutes(app, rt.userService, rt.gamification)
	handlers.SetupPublicationRoutes(app, rt.publicationService, rt.commentService)
	handlers.SetupGamificationRoutes(app, rt.gamification)
	handlers.SetupTournamentRoutes(app, rt.tournamentService)
	handlers.SetupNotificationRoutes(app, rt.notificationService, rt.chatService)
	handlers.SetupAdminRoutes(app, handlers.AdminServices{
		Analytics:    rt.analytics,
		Exporter:     rt.exporter,
		Users:        rt.userService,
		Publications: rt.publicationService,
		Comments:     rt.commentService,
	}, rt.users, rt.log)

	return app
}

func runServe(configPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := build(ctx, configPath)
	if err != nil {
		return err
	}
	defer rt.Close()
	utils.InitMetrics()

	interval, err := rt.cfg.RefreshInterval()
	if err != nil {
		return err
	}

	sched, err := rt.tournamentService.StartTournamentScheduler(ctx)
	if err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer func() {
		if err := sched.Shutdown(); err != nil {
			rt.log.Warn("scheduler_shutdown_failed", zap.Error(err))
		}
	}()

	workers.NewAnalyticsSnapshotWorker(rt.analytics, interval, rt.clock, rt.log).Start(ctx)

	app := newApp(rt)
	go func() {
		if err := app.Listen(":" + rt.cfg.Server.Port); err != nil {
			rt.log.Error("server_error", zap.Error(err))
			stop()
		}
	}()

	rt.log.Info("server_started",
		zap.String("port", rt.cfg.Server.Port),
		zap.String("store", rt.cfg.Store.Driver),
		zap.Bool("gateway_auth", rt.cfg.Server.ServiceToken != ""),
		zap.Bool("r2_export", rt.cfg.R2Enabled()),
	)

	<-ctx.Done()
	rt.log.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runReport(configPath, reportType, period string) error {
	ctx := context.Background()
	rt, err := build(ctx, configPath)
	if err != nil {
		return err
	}
	defer rt.Close()

	report, err := rt.analytics.GenerateReport(ctx, models.ReportType(reportType), models.ReportFilters{Period: period})
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, report)
}

func runPredict(configPath, predictionType string) error {
	ctx := context.Background()
	rt, err := build(ctx, configPath)
	if err != nil {
		return err
	}
	defer rt.Close()

	p, err := rt.analytics.Predictions(ctx, models.PredictionType(predictionType))
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, p)
}

func runExport(configPath, format, reportType string) error {
	ctx := context.Background()
	rt, err := build(ctx, configPath)
	if err != nil {
		return err
	}
	defer rt.Close()

	var data any
	if reportType != "" {
		data, err = rt.analytics.GenerateReport(ctx, models.ReportType(reportType), models.ReportFilters{})
	} else {
		data, err = rt.analytics.Snapshot(ctx)
	}
	if err != nil {
		return err
	}
	file, err := rt.exporter.Export(ctx, services.ExportFormat(format), data)
	if err != nil {
		return err
	}
	fmt.Println(file.Location)
	return nil
}

func main() {
	var configPath string

	root := &cobra.Command{
		Use:           "civiceye",
		Short:         "CivicEye analytics and gamification service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (defaults to $CIVICEYE_CONFIG)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service, tournament scheduler and analytics worker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}

	var period string
	reportCmd := &cobra.Command{
		Use:   "report <summary|detailed|geographic|user_engagement|effectiveness|trends>",
		Short: "Print a report as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(configPath, args[0], period)
		},
	}
	reportCmd.Flags().StringVar(&period, "period", "", "Period label shown in the report")

	predictCmd := &cobra.Command{
		Use:   "predict <recovery_rate|user_growth|crime_hotspots>",
		Short: "Print a prediction as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(configPath, args[0])
		},
	}

	var format, reportType string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export analytics or a report to the configured sinks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(configPath, format, reportType)
		},
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "Export format: csv, json or pdf")
	exportCmd.Flags().StringVar(&reportType, "report", "", "Export one report instead of the full analytics")

	root.AddCommand(serveCmd, reportCmd, predictCmd, exportCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		code := 1
		if errors.Is(err, services.ErrPDFNotImplemented) {
			code = 3
		}
		os.Exit(code)
	}
}
