package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saccokit/sacco-backoffice/internal/api"
	"github.com/saccokit/sacco-backoffice/internal/config"
	"github.com/saccokit/sacco-backoffice/internal/database"
	"github.com/saccokit/sacco-backoffice/internal/repository"
	"github.com/saccokit/sacco-backoffice/internal/scheduler"
	"github.com/saccokit/sacco-backoffice/internal/service"
	"github.com/saccokit/sacco-backoffice/internal/vault"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply pending schema migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Key material for member bank account encryption
	memberVault, err := vault.New(cfg.Security.MemberDataKey)
	if err != nil {
		log.Fatalf("Failed to initialize member data vault: %v", err)
	}

	// Create repositories
	memberRepo := repository.NewMemberRepository(db)
	shareRepo := repository.NewShareRepository(db)
	declarationRepo := repository.NewDeclarationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	guarantorRepo := repository.NewGuarantorRepository(db)
	contributionRepo := repository.NewContributionRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	memberService := service.NewMemberService(memberRepo, memberVault)
	shareService := service.NewShareService(db, shareRepo, memberRepo)
	dividendService := service.NewDividendService(db, declarationRepo, paymentRepo, memberRepo, memberVault)
	loanService := service.NewLoanService(db, loanRepo, guarantorRepo, memberRepo)
	guarantorService := service.NewGuarantorService(guarantorRepo)
	contributionService := service.NewContributionService(contributionRepo, memberRepo)
	settingService := service.NewSettingService(settingRepo)
	summaryService := service.NewSummaryService(shareRepo, paymentRepo, contributionRepo)

	// Create router
	router := api.NewRouter(api.Services{
		System:        systemService,
		Members:       memberService,
		Shares:        shareService,
		Dividends:     dividendService,
		Loans:         loanService,
		Guarantors:    guarantorService,
		Contributions: contributionService,
		Settings:      settingService,
		Summary:       summaryService,
	}, cfg)

	// Background share summary refresh
	if cfg.Scheduler.Enabled {
		sched, err := scheduler.New(cfg.Scheduler.Spec, shareService)
		if err != nil {
			log.Fatalf("Failed to create scheduler: %v", err)
		}
		sched.Start()
		defer sched.Stop()
		log.Printf("Scheduler started with spec %q", cfg.Scheduler.Spec)
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
