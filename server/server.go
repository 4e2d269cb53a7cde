package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photofolio/cache"
	"photofolio/config"
	"photofolio/core/auth"
	"photofolio/core/ingest"
	"photofolio/core/mail"
	"photofolio/db"
	"photofolio/logger"
	"photofolio/model"
	"photofolio/repository"
	"photofolio/storage"

	"github.com/gorilla/mux"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})

	auth.Configure(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if err := storage.InitMinio(cfg); err != nil {
		logger.Fatal("failed to initialize MinIO", logger.ErrorField(err))
	}

	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("failed to connect to database with GORM", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	// The cache is never load-bearing; a missing Redis only costs reads.
	if err := cache.ConnectRedis(cfg); err != nil {
		logger.Warn("Redis unavailable, caching disabled", logger.ErrorField(err))
	} else {
		defer cache.CloseRedis()
		logger.Info("connected to Redis")
	}

	if err := db.InitDB(cfg); err != nil {
		logger.Fatal("failed to initialize database", logger.ErrorField(err))
	}

	if err := db.AutoMigrateModels(&model.SiteSection{}); err != nil {
		logger.Fatal("failed to migrate section model", logger.ErrorField(err))
	}

	photoRepo := repository.NewMySQLPhotoRepository(db.DB)
	adminRepo := repository.NewMySQLAdminRepository(db.DB)
	sectionRepo := repository.NewGormSectionRepository(db.GormDB)

	if err := sectionRepo.Seed(context.Background()); err != nil {
		logger.Fatal("failed to seed section catalog", logger.ErrorField(err))
	}

	assetStore := storage.NewMinioAssetStore(
		storage.GetMinioClient(),
		cfg.MinioBucket,
		cfg.PublicBaseURL,
		cfg.MaxUploadBytes,
		cfg.DefaultFolder,
	)

	mailer := mail.NewSendGridSender(cfg.SendGridAPIKey, cfg.ContactFrom, cfg.ContactTo)

	apiHandler := NewAPIHandler(photoRepo, adminRepo, sectionRepo, assetStore, mailer, cfg)

	// Optional drop-folder import.
	ingestCtx, stopIngest := context.WithCancel(context.Background())
	defer stopIngest()
	if cfg.IngestDir != "" {
		watcher, err := ingest.NewWatcher(cfg.IngestDir, cfg.IngestAlbum, assetStore, photoRepo)
		if err != nil {
			logger.Error("failed to start ingest watcher", logger.ErrorField(err))
		} else {
			go watcher.Run(ingestCtx)
			logger.Info("ingest watcher started", logger.String("dir", cfg.IngestDir))
		}
	}

	router := mux.NewRouter()

	// CORS middleware
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Auth
	router.HandleFunc("/api/auth/login", apiHandler.LoginHandler).Methods(http.MethodPost)

	// Photos: public reads, gated writes
	router.HandleFunc("/api/photos", apiHandler.GetPhotosHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/photos", apiHandler.AuthMiddleware(apiHandler.UploadPhotoHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/photos/{id}", apiHandler.GetPhotoHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/photos/{id}", apiHandler.AuthMiddleware(apiHandler.UpdatePhotoHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/photos/{id}", apiHandler.AuthMiddleware(apiHandler.DeletePhotoHandler)).Methods(http.MethodDelete)

	// Derived albums
	router.HandleFunc("/api/albums", apiHandler.GetAlbumsHandler).Methods(http.MethodGet)

	// Site sections: public reads, gated reassignment
	router.HandleFunc("/api/sections", apiHandler.GetSectionsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/sections/{id}", apiHandler.GetSectionHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/sections/{id}", apiHandler.AuthMiddleware(apiHandler.UpdateSectionHandler)).Methods(http.MethodPut)

	// Contact form relay
	router.HandleFunc("/api/contact", apiHandler.ContactHandler).Methods(http.MethodPost)

	// Stored images
	router.PathPrefix("/static/").HandlerFunc(apiHandler.StaticAssetHandler).Methods(http.MethodGet)

	// Frontend UI serving
	uiFileServer := http.FileServer(http.Dir(cfg.WebAppDir))
	router.PathPrefix("/").Handler(uiFileServer)

	server.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("shutting down server")
	stopIngest()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("server stopped")
}
