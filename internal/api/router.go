package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/saccokit/sacco-backoffice/internal/api/handlers"
	custommiddleware "github.com/saccokit/sacco-backoffice/internal/api/middleware"
	"github.com/saccokit/sacco-backoffice/internal/config"
	"github.com/saccokit/sacco-backoffice/internal/service"
)

// Services bundles the service layer for router construction.
type Services struct {
	System        *service.SystemService
	Members       *service.MemberService
	Shares        *service.ShareService
	Dividends     *service.DividendService
	Loans         *service.LoanService
	Guarantors    *service.GuarantorService
	Contributions *service.ContributionService
	Settings      *service.SettingService
	Summary       *service.SummaryService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svcs Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svcs.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/members", func(r chi.Router) {
			memberHandler := handlers.NewMemberHandler(svcs.Members)
			r.Get("/", memberHandler.GetMembers)
			r.Post("/", memberHandler.CreateMember)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", memberHandler.GetMember)
				r.Put("/", memberHandler.UpdateMember)
				r.Post("/deactivate", memberHandler.DeactivateMember)
			})
		})

		r.Route("/shares", func(r chi.Router) {
			shareHandler := handlers.NewShareHandler(svcs.Shares)
			r.Get("/", shareHandler.GetShares)
			r.Post("/", shareHandler.AddShare)
			r.Post("/transfer", shareHandler.TransferShares)
			r.Get("/summary", shareHandler.GetShareSummary)
			r.Get("/summary/members", shareHandler.GetMemberShareSummaries)
			r.Post("/summary/refresh", shareHandler.RefreshMemberShareSummaries)
			r.Route("/member/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", shareHandler.GetMemberShares)
			})
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Put("/", shareHandler.UpdateShare)
				r.Delete("/", shareHandler.CancelShare)
			})
		})

		r.Route("/dividends", func(r chi.Router) {
			dividendHandler := handlers.NewDividendHandler(svcs.Dividends)
			r.Get("/eligible", dividendHandler.GetEligibleMembers)

			r.Route("/declarations", func(r chi.Router) {
				r.Get("/", dividendHandler.GetDeclarations)
				r.Post("/", dividendHandler.CreateDeclaration)
				r.Put("/year/{year}", dividendHandler.UpdateDeclaration)
				r.Route("/{uuid}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDMiddleware)
					r.Get("/", dividendHandler.GetDeclaration)
					r.Delete("/", dividendHandler.DeleteDeclaration)
					r.Post("/approve", dividendHandler.ApproveDeclaration)
					r.Post("/process", dividendHandler.ProcessDeclaration)
					r.Get("/payments", dividendHandler.GetPaymentsByDeclaration)
				})
			})

			r.Route("/payments", func(r chi.Router) {
				r.Get("/", dividendHandler.GetPayments)
				r.Post("/process", dividendHandler.ProcessPayments)
				r.Route("/{uuid}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDMiddleware)
					r.Post("/process", dividendHandler.ProcessPayment)
					r.Post("/fail", dividendHandler.FailPayment)
				})
			})
		})

		r.Route("/loans", func(r chi.Router) {
			loanHandler := handlers.NewLoanHandler(svcs.Loans)
			r.Get("/", loanHandler.GetLoans)
			r.Post("/", loanHandler.ApplyLoan)
			r.Route("/installments/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Post("/pay", loanHandler.PayInstallment)
			})
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", loanHandler.GetLoan)
				r.Delete("/", loanHandler.DeleteLoan)
				r.Post("/approve", loanHandler.ApproveLoan)
				r.Post("/reject", loanHandler.RejectLoan)
				r.Post("/disburse", loanHandler.DisburseLoan)
				r.Get("/installments", loanHandler.GetInstallments)
			})
		})

		r.Route("/guarantors", func(r chi.Router) {
			guarantorHandler := handlers.NewGuarantorHandler(svcs.Guarantors)
			r.Get("/", guarantorHandler.GetGuarantors)
			r.Post("/", guarantorHandler.CreateGuarantor)
			r.Get("/search", guarantorHandler.SearchGuarantors)
			r.Get("/potential", guarantorHandler.GetPotentialGuarantors)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", guarantorHandler.GetGuarantor)
				r.Put("/", guarantorHandler.UpdateGuarantor)
				r.Delete("/", guarantorHandler.DeleteGuarantor)
			})
		})

		r.Route("/contributions", func(r chi.Router) {
			contributionHandler := handlers.NewContributionHandler(svcs.Contributions)
			r.Get("/", contributionHandler.GetContributions)
			r.Post("/", contributionHandler.CreateContribution)
		})

		r.Route("/settings", func(r chi.Router) {
			settingHandler := handlers.NewSettingHandler(svcs.Settings)
			r.Get("/", settingHandler.GetSettings)
			r.Get("/{key}", settingHandler.GetSetting)
			r.Put("/{key}", settingHandler.UpsertSetting)
		})

		r.Route("/summary", func(r chi.Router) {
			summaryHandler := handlers.NewSummaryHandler(svcs.Summary, svcs.Dividends)
			r.Get("/", summaryHandler.GetDashboardSummary)
			r.Get("/dividends", summaryHandler.GetDividendSummary)
		})
	})

	return r
}
