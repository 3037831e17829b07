package cmd

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travel-agency/config"
	"travel-agency/internal/handlers"
	"travel-agency/internal/notify"
	"travel-agency/internal/repository"
	"travel-agency/internal/services"
	"travel-agency/migrations"
	"travel-agency/models"
	"travel-agency/monitoring"
	"travel-agency/security"
	"travel-agency/utils"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
)

const notifyTimeout = 10 * time.Second

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Redis. Submissions fall back to the database when it is down.
	redisClient, err := utils.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Warn("Redis unavailable at startup, idempotency falls back to the database", "error", err)
		redisClient = utils.NewLazyRedisClient(cfg.RedisURL)
	}
	defer redisClient.Close()

	logger := slog.Default()
	notifier := notify.NewAsync(setupNotifiers(cfg), notifyTimeout, logger)

	// Initialize repositories
	packages := repository.New[models.Package](app, repository.PackageCodec{})
	bookings := repository.New[models.Booking](app, repository.BookingCodec{})
	contacts := repository.New[models.Contact](app, repository.ContactCodec{})
	places := repository.New[models.Place](app, repository.PlaceCodec{})
	cabs := repository.New[models.Cab](app, repository.CabCodec{})
	catalogServices := repository.New[models.Service](app, repository.ServiceCodec{})

	// Initialize services
	followUp := services.FollowUp{AgencyName: cfg.AgencyName, Email: cfg.AgencyEmail, WhatsApp: cfg.AgencyWhatsApp}
	catalogService := services.NewCatalogService(packages, places, cabs, catalogServices)
	bookingService := services.NewBookingService(
		bookings,
		packages,
		services.NewIdempotencyStore(redisClient, cfg.IdempotencyTTL),
		notifier,
		followUp,
		cfg.SubmitRetryBackoff,
		logger,
	)
	contactService := services.NewContactService(contacts, notifier, followUp, logger)
	bookingAdmin := services.NewBookingAdmin(bookings, packages, logger)
	contactAdmin := services.NewContactAdmin(contacts, logger)
	userService := services.NewUserService(app, logger)
	mediaService := services.NewMediaService(app, cfg.PublicURL)
	placeImporter := services.NewPlaceImporter(places, logger)

	collector := monitoring.NewCollector(cfg.MetricsInterval, logger, packages, places, cabs, catalogServices)
	limiter := security.NewRateLimiter(redisClient, cfg.SubmitRateLimit, cfg.SubmitRateWindow, logger)

	// Initialize handlers
	publicHandler := handlers.NewPublicHandler(catalogService, bookingService, contactService, cfg.AgencyEmail, cfg.AgencyWhatsApp, logger)
	inboxHandler := handlers.NewInboxHandler(bookingAdmin, contactAdmin, logger)
	accountHandler := handlers.NewAccountHandler(userService, mediaService, logger)
	healthHandler := handlers.NewHealthHandler(redisClient)
	packageHandler := handlers.NewCatalogHandler(services.NewPackageAdmin(packages, logger), logger)
	placeHandler := handlers.NewCatalogHandler(services.NewPlaceAdmin(places, logger), logger)
	cabHandler := handlers.NewCatalogHandler(services.NewCabAdmin(cabs, logger), logger)
	serviceHandler := handlers.NewCatalogHandler(services.NewServiceAdmin(catalogServices, logger), logger)

	// Enable migrations; production applies the committed ones only
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: cfg.IsDevelopment(),
	})

	app.RootCmd.AddCommand(
		promoteAdminCommand(userService),
		importPlacesCommand(placeImporter),
	)

	// Start background tasks once the database is bootstrapped
	if cfg.EnableMetrics {
		runCollectorOnServe(ctx, app, collector)
	}

	// Setup graceful shutdown
	go handleShutdown(cancel)

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		e.Router.BindFunc(security.RequestID)

		// Public catalog endpoints
		e.Router.GET("/api/v1/home", publicHandler.Home)
		e.Router.GET("/api/v1/packages", publicHandler.Packages)
		e.Router.GET("/api/v1/packages/{id}", publicHandler.Package)
		e.Router.GET("/api/v1/places", publicHandler.Places)
		e.Router.GET("/api/v1/places/{slug}", publicHandler.Place)
		e.Router.GET("/api/v1/cabs", publicHandler.Cabs)
		e.Router.GET("/api/v1/services", publicHandler.Services)

		// Public submissions
		e.Router.POST("/api/v1/bookings", publicHandler.SubmitBooking).
			BindFunc(security.AntiBot, limiter.Middleware("bookings"))
		e.Router.POST("/api/v1/contacts", publicHandler.SubmitContact).
			BindFunc(security.AntiBot, limiter.Middleware("contacts"))

		// Admin endpoints
		admin := e.Router.Group("/api/v1/admin")
		admin.Bind(apis.RequireAuth())
		admin.BindFunc(handlers.RequireAdmin)

		admin.GET("/packages", packageHandler.List)
		admin.POST("/packages", packageHandler.Create)
		admin.PUT("/packages/{id}", packageHandler.Update)
		admin.DELETE("/packages/{id}", packageHandler.Delete)

		admin.GET("/places", placeHandler.List)
		admin.POST("/places", placeHandler.Create)
		admin.PUT("/places/{id}", placeHandler.Update)
		admin.DELETE("/places/{id}", placeHandler.Delete)

		admin.GET("/cabs", cabHandler.List)
		admin.POST("/cabs", cabHandler.Create)
		admin.PUT("/cabs/{id}", cabHandler.Update)
		admin.DELETE("/cabs/{id}", cabHandler.Delete)

		admin.GET("/services", serviceHandler.List)
		admin.POST("/services", serviceHandler.Create)
		admin.PUT("/services/{id}", serviceHandler.Update)
		admin.DELETE("/services/{id}", serviceHandler.Delete)

		admin.GET("/bookings", inboxHandler.ListBookings)
		admin.GET("/bookings/export", inboxHandler.ExportBookings)
		admin.GET("/bookings/{id}", inboxHandler.GetBooking)
		admin.PUT("/bookings/{id}", inboxHandler.UpdateBookingStatus)
		admin.DELETE("/bookings/{id}", inboxHandler.DeleteBooking)

		admin.GET("/contacts", inboxHandler.ListContacts)
		admin.PUT("/contacts/{id}", inboxHandler.UpdateContactStatus)
		admin.DELETE("/contacts/{id}", inboxHandler.DeleteContact)

		admin.POST("/upload", accountHandler.Upload)
		admin.GET("/me", accountHandler.Me)
		admin.POST("/logout", accountHandler.Logout)

		// Health check
		e.Router.GET("/health", healthHandler.Health)
		if cfg.EnableMetrics {
			e.Router.GET("/metrics", handlers.Metrics)
		}

		log.Println("Server routes registered")

		setupEventHooks(app, collector)

		return e.Next()
	})

	// Start server
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
	return nil
}

// runCollectorOnServe starts the gauge collector when the app is served.
// Counting before then would query collections that are not open yet.
func runCollectorOnServe(ctx context.Context, app core.App, collector *monitoring.Collector) {
	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		go collector.Run(ctx)
		return e.Next()
	})
}

// setupNotifiers enables every admin channel that has credentials.
func setupNotifiers(cfg *config.Config) notify.Multi {
	var notifiers notify.Multi

	if cfg.PubNubPublishKey != "" {
		publisher := notify.NewPubNubClient(cfg.PubNubPublishKey, cfg.PubNubSubscribeKey, cfg.PubNubSecretKey, "travel-agency-server")
		notifiers = append(notifiers, notify.NewPubNub(publisher, cfg.PubNubAdminChannel))
		slog.Info("PubNub notifications enabled", "channel", cfg.PubNubAdminChannel)
	}

	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != 0 {
		bot, err := notify.NewTelegramBot(cfg.TelegramBotToken)
		if err != nil {
			slog.Error("Telegram notifications disabled", "error", err)
		} else {
			notifiers = append(notifiers, notify.NewTelegram(bot, cfg.TelegramChatID))
			slog.Info("Telegram notifications enabled")
		}
	}

	if len(notifiers) == 0 {
		slog.Info("No notification channel configured")
	}
	return notifiers
}

// setupEventHooks keeps the catalog gauges current when records change
// through the admin API or the dashboard.
func setupEventHooks(app *pocketbase.PocketBase, collector *monitoring.Collector) {
	catalog := []string{migrations.Packages, migrations.Places, migrations.Cabs, migrations.Services}

	onChange := func(action string) func(e *core.RecordEvent) error {
		return func(e *core.RecordEvent) error {
			slog.Info("Catalog record changed",
				"collection", e.Record.Collection().Name,
				"id", e.Record.Id,
				"status", e.Record.GetString("status"),
				"action", action,
			)
			collector.Refresh(e.Context)
			return e.Next()
		}
	}

	app.OnRecordAfterCreateSuccess(catalog...).BindFunc(onChange("create"))
	app.OnRecordAfterUpdateSuccess(catalog...).BindFunc(onChange("update"))
	app.OnRecordAfterDeleteSuccess(catalog...).BindFunc(onChange("delete"))
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
	cancel()
}
