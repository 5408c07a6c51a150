package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	api "agristock-backend/cmd/api"
	"agristock-backend/internal/app"
	authRepo "agristock-backend/internal/auth/repository"
	authUsecase "agristock-backend/internal/auth/usecase"
	"agristock-backend/internal/notification"
	notificationUsecase "agristock-backend/internal/notification/usecase"
	postRepo "agristock-backend/internal/post/repository"
	postUsecase "agristock-backend/internal/post/usecase"
	"agristock-backend/internal/presence"
	purchaseRepo "agristock-backend/internal/purchase/repository"
	purchaseUsecase "agristock-backend/internal/purchase/usecase"
	"agristock-backend/internal/session"
	"agristock-backend/pkg/config"
	"agristock-backend/pkg/docstore"
	"agristock-backend/pkg/fcm"
	"agristock-backend/pkg/firebase"
	"agristock-backend/pkg/logger"
	"agristock-backend/pkg/memwatch"
	"agristock-backend/pkg/metrics"
	"agristock-backend/pkg/objectstore"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}

	log, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		zap.NewExample().Fatal("failed to build logger", zap.Error(err))
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Initialize backends: Firebase when a project is configured, in-memory otherwise
	var (
		docs     docstore.Store
		objects  objectstore.Store
		verifier session.Verifier
		sender   notificationUsecase.Sender
	)
	if cfg.FirebaseProjectID != "" {
		clients, err := firebase.NewClients(ctx, firebase.Options{
			ProjectID:       cfg.FirebaseProjectID,
			StorageBucket:   cfg.StorageBucket,
			CredentialsFile: cfg.FirebaseCredentials,
		})
		if err != nil {
			return err
		}
		defer clients.Close()

		docs = docstore.NewFirestoreStore(clients.Firestore)
		objects = objectstore.NewBucketStore(clients.Bucket, cfg.StorageBucket)
		verifier = session.NewFirebaseVerifier(clients.Auth)
		sender = fcm.NewClient(clients.Messaging, logger.Component(log, "fcm"))
		log.Info("firebase initialized", zap.String("project_id", cfg.FirebaseProjectID))
	} else {
		log.Warn("FIREBASE_PROJECT_ID not configured, using in-memory stores")
		docs = docstore.NewMemoryStore()
		objects = objectstore.NewMemoryStore("http://localhost:" + cfg.Port + "/objects")
	}
	if cfg.AuthMode == config.AuthModeLocal || verifier == nil {
		if cfg.LocalAuthSecret == "" {
			return errors.New("LOCAL_AUTH_SECRET is required without Firebase")
		}
		verifier = session.NewLocalVerifier(cfg.LocalAuthSecret)
		log.Warn("using local token verifier")
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(docs)
	fcmTokenRepository := authRepo.NewFCMTokenRepository(docs)
	registry := app.NewRegistry(ctx, presence.NewRepository(docs), m, log)

	feed := notificationUsecase.NewMemoryFeed(cfg.FeedCapacity)
	renderer := notificationUsecase.NewRenderer(fcmTokenRepository, sender, feed, m, log)

	// Initialize use cases
	usecases := api.Usecases{
		Auth:         authUsecase.NewAuthUsecase(verifier, userRepository, fcmTokenRepository, registry, log),
		Post:         postUsecase.NewPostUsecase(postRepo.NewPostRepository(docs), postRepo.NewImageRepository(objects), m, log),
		Purchase:     purchaseUsecase.NewPurchaseUsecase(purchaseRepo.NewPurchaseRepository(docs)),
		Notification: notificationUsecase.NewNotificationUsecase(feed),
		Feed:         feed,
	}
	srv := api.NewHandler(usecases, registry, reg, cfg).Server(":" + cfg.Port)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Instance housekeeping. Neither path touches presence: only devices report transitions.
	g.Go(func() error {
		return registry.Run(gctx, cfg.InstanceIdleTTL)
	})
	g.Go(func() error {
		onLow := func(context.Context) { registry.ReleaseAll() }
		return memwatch.New(cfg.LowMemoryPercent, cfg.MemoryCheckInterval, onLow, log).Run(gctx)
	})

	if cfg.PushSubscription != "" && cfg.FirebaseProjectID != "" {
		notifService, err := notification.NewService(ctx, cfg.FirebaseProjectID, cfg.PushSubscription, cfg.PushTopic, cfg.FirebaseCredentials, renderer, log)
		if err != nil {
			return err
		}
		defer notifService.Close()
		g.Go(func() error {
			// Push is best-effort; a broken subscription must not take the API down.
			if err := notifService.Start(gctx); err != nil {
				log.Error("push consumer stopped", zap.Error(err))
			}
			return nil
		})
	} else {
		log.Warn("PUSH_SUBSCRIPTION not configured, push consumer disabled")
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		registry.Shutdown()
		return nil
	})

	return g.Wait()
}
