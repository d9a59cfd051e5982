// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"splitledger/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(
	userHandler *handler.UserHandler,
	groupHandler *handler.GroupHandler,
	ledgerHandler *handler.LedgerHandler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// User API routes
	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.CreateUser)
		r.Get("/", userHandler.ListUsers)
		r.Get("/{userID}", userHandler.GetUser)
		r.Put("/{userID}", userHandler.UpdateUser)
		r.Delete("/{userID}", userHandler.DeleteUser)
	})

	// Group API routes, including per-group ledger views
	r.Route("/groups", func(r chi.Router) {
		r.Post("/", groupHandler.CreateGroup)
		r.Get("/", groupHandler.ListGroups)
		r.Get("/{groupID}", groupHandler.GetGroup)
		r.Put("/{groupID}", groupHandler.UpdateGroup)
		r.Delete("/{groupID}", groupHandler.DeleteGroup)

		r.Post("/{groupID}/members", groupHandler.AddMembers)
		r.Delete("/{groupID}/members/{userID}", groupHandler.RemoveMember)

		r.Get("/{groupID}/balance-sheet", ledgerHandler.GetBalanceSheet)
		r.Get("/{groupID}/transactions", ledgerHandler.ListGroupTransactions)
		r.Post("/{groupID}/settlements", ledgerHandler.Settle)
		r.Get("/{groupID}/settlements", ledgerHandler.ListGroupSettlements)
	})

	// Transaction API routes
	r.Route("/transactions", func(r chi.Router) {
		r.Post("/", ledgerHandler.RecordTransaction)
		r.Post("/equal-split", ledgerHandler.RecordEqualSplit)
		r.Get("/{transactionID}", ledgerHandler.GetTransaction)
	})

	return r
}
