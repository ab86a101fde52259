package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DavidGamba/go-getoptions"
	"github.com/kriti-labs/jobportal/db"
	"github.com/kriti-labs/jobportal/internal/auth"
	"github.com/kriti-labs/jobportal/internal/config"
	"github.com/kriti-labs/jobportal/internal/handlers"
	"github.com/kriti-labs/jobportal/internal/notify"
	"github.com/kriti-labs/jobportal/internal/realtime"
	"github.com/kriti-labs/jobportal/internal/router"
	"github.com/kriti-labs/jobportal/internal/scheduler"
	"github.com/kriti-labs/jobportal/internal/services"
	"github.com/kriti-labs/jobportal/internal/store"
	"github.com/kriti-labs/jobportal/internal/types"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 15 * time.Second

type commandLineOptionValues struct {
	EnvFile string
	Migrate bool
}

func parseCommandLine() *commandLineOptionValues {
	optionValues := &commandLineOptionValues{}
	opt := getoptions.New()

	opt.Bool("help", false, opt.Alias("h", "?"))
	opt.StringVar(&optionValues.EnvFile, "env", ".env",
		opt.Alias("e"),
		opt.Description("the path to an optional .env file"))
	opt.BoolVar(&optionValues.Migrate, "migrate", false,
		opt.Description("run database migrations before serving"))

	_, err := opt.Parse(os.Args[1:])
	if opt.Called("help") {
		fmt.Fprint(os.Stderr, opt.Help())
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n\n", err)
		fmt.Fprint(os.Stderr, opt.Help(getoptions.HelpSynopsis))
		os.Exit(1)
	}

	return optionValues
}

func main() {
	optionValues := parseCommandLine()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(optionValues.EnvFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	gormDB, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if optionValues.Migrate {
		if err := db.Migrate(gormDB); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		log.Println("Database migrated")
	}

	st := store.New(gormDB)

	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.JWTExpire, cfg.JWTRefreshExpire)
	if err != nil {
		log.Fatalf("Failed to create token issuer: %v", err)
	}

	ctx := context.Background()
	origins := cfg.Origins(types.DefaultOrigins)
	hub := realtime.NewHub(origins)

	var push notify.PushSender
	if cfg.FCMProjectID != "" && cfg.FCMCredentialsFile != "" {
		sender, err := services.NewFCMSender(ctx, cfg.FCMProjectID, cfg.FCMCredentialsFile)
		if err != nil {
			log.Printf("Push notifications disabled: %v", err)
		} else {
			push = sender
		}
	} else {
		log.Println("FCM not configured, push notifications disabled")
	}

	var mailer notify.Mailer
	if cfg.GmailCredentialsFile != "" && cfg.GmailTokenFile != "" {
		sender, err := services.NewGmailSender(ctx, cfg.GmailCredentialsFile, cfg.GmailTokenFile, cfg.MailFrom)
		if err != nil {
			log.Printf("Email disabled: %v", err)
		} else {
			mailer = sender
		}
	} else {
		log.Println("Gmail not configured, email disabled")
	}

	notifications := notify.NewService(st, hub, push, mailer)
	dispatcher := notify.NewDispatcher(notifications, cfg.DispatchWorkers, cfg.DispatchQueueSize)
	dispatcher.Start()

	chat := services.NewChatService(st, hub)
	inbox := services.NewInboxService(st, hub, cfg.NotificationRetention)

	sched := scheduler.NewScheduler()
	sched.Sweeps(st, cfg.JobSweepInterval, cfg.PurgeSweepInterval, cfg.NotificationRetention)

	r := router.NewRouter(origins, issuer, st, router.Handlers{
		Health:        handlers.NewHealthHandler(st, hub, sched),
		Socket:        handlers.NewSocketHandler(hub, issuer, st, chat, inbox),
		Auth:          handlers.NewAuthHandler(services.NewAuthService(st, issuer, mailer, dispatcher, cfg.ClientURL), cfg.Domain, issuer.TTL()),
		Jobs:          handlers.NewJobHandler(services.NewJobService(st, dispatcher)),
		Applications:  handlers.NewApplicationHandler(services.NewApplicationService(st, dispatcher)),
		Companies:     handlers.NewCompanyHandler(services.NewCompanyService(st)),
		Candidate:     handlers.NewCandidateHandler(services.NewCandidateService(st)),
		Employer:      handlers.NewEmployerHandler(services.NewEmployerService(st, dispatcher)),
		Chat:          handlers.NewChatHandler(chat),
		Notifications: handlers.NewNotificationHandler(inbox),
		Admin:         handlers.NewAdminHandler(services.NewAdminService(st)),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}

	hub.Close()
	sched.Stop()
	dispatcher.Stop()

	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}

	log.Println("Server exited")
}
