package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"skillcheck/cache"
	"skillcheck/config"
	"skillcheck/handlers"
	"skillcheck/middleware"
	"skillcheck/routes"
	"skillcheck/services"
	"skillcheck/store"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Bool("skip-migrate", false, "Do not auto-migrate the schema on startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		return err
	}
	st := store.New(db)
	if skip, _ := cmd.Flags().GetBool("skip-migrate"); !skip {
		if err := st.AutoMigrate(); err != nil {
			log.Error("failed to migrate database", "error", err)
			return err
		}
	}

	// Initialize Redis. The server starts without it; every read falls back
	// to the database until it comes back.
	redisClient, err := config.InitRedis(ctx, cfg)
	if err != nil {
		log.Warn("redis unreachable, serving from the database only", "error", err)
	}
	defer redisClient.Close()
	c := cache.NewRedisCache(redisClient)

	// Initialize services
	invalidator := services.NewCacheInvalidator(c, log)
	provider := services.NewQuestionSetProvider(st, c, log, services.WithQuestionSetTTL(cfg.QuestionSetTTL))
	scorer := services.NewScoringEngine(st)
	recorder := services.NewAttemptRecorder(st, scorer, invalidator, log)
	reports := services.NewReportAggregator(st, c, log,
		services.WithUserPerformanceTTL(cfg.UserPerformanceTTL),
		services.WithAdminStatsTTL(cfg.AdminStatsTTL),
	)
	invalidator.Track(provider, reports)

	hub := services.NewActivityHub(log)
	go hub.Run(ctx)

	quizService := services.NewQuizService(st, provider, recorder, reports, invalidator, hub)
	questionService := services.NewQuestionService(st, invalidator, log)

	// Initialize handlers
	auth := middleware.NewAuthMiddleware(cfg.JWTSecret, log)
	quizHandler := handlers.NewQuizHandler(quizService, log)
	questionHandler := handlers.NewQuestionHandler(questionService, log)
	reportHandler := handlers.NewReportHandler(quizService, log)
	activityHandler := handlers.NewActivityHandler(hub, cfg.CORSOrigins, log)

	if cfg.LogMode == "production" || cfg.LogMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(middleware.CORS(cfg.CORSOrigins))
	routes.SetupRoutes(router, auth, quizHandler, questionHandler, reportHandler, activityHandler)

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server failed", "error", err)
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		return err
	}
	return nil
}
