package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ostapk/vitabot/config"
	"github.com/ostapk/vitabot/internal/bot"
	"github.com/ostapk/vitabot/internal/clients/caldav"
	"github.com/ostapk/vitabot/internal/clients/healthapi"
	"github.com/ostapk/vitabot/internal/scheduler"
	"github.com/ostapk/vitabot/internal/service"
	"github.com/ostapk/vitabot/internal/storage"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to init storage: %v", err)
	}
	defer store.Close()

	apiClient := healthapi.NewClient(cfg.APIBaseURL, cfg.APIEmail, cfg.APIPassword, store)
	caldavClient := caldav.NewClient(cfg.CalDAVURL, cfg.CalDAVUsername, cfg.CalDAVPassword)

	reminderSvc := service.NewReminderService(apiClient, store, cfg.Timezone)
	entrySvc := service.NewEntryService(apiClient, cfg.Timezone)
	quoteSvc := service.NewQuoteService(apiClient)
	profileSvc := service.NewProfileService(apiClient)
	calendarSvc := service.NewCalendarService(caldavClient, cfg.Timezone)
	if cfg.CalDAVCalendar != "" {
		calendarSvc.SetCalendarPath(cfg.CalDAVCalendar)
	}

	user, err := profileSvc.EnsureSession()
	if err != nil {
		log.Fatalf("Failed to sign in to the Vita API: %v", err)
	}
	log.Printf("Signed in as %s <%s>", user.Name, user.Email)

	sched := scheduler.New(reminderSvc, cfg.Timezone, cfg.RefreshInterval)

	tgBot, err := bot.New(cfg, reminderSvc, entrySvc, quoteSvc, profileSvc, calendarSvc, sched)
	if err != nil {
		log.Fatalf("Failed to init bot: %v", err)
	}
	sched.SetNotifier(tgBot)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := sched.Start(ctx); err != nil {
			log.Printf("Scheduler error: %v", err)
		}
	}()

	go func() {
		if err := tgBot.Start(ctx); err != nil {
			log.Printf("Bot error: %v", err)
		}
	}()

	log.Println("VitaBot started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")

	cancel()
	sched.Stop()
	tgBot.Stop()

	log.Println("VitaBot stopped")
}
