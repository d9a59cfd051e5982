// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "splitledger/internal/api"
	"splitledger/internal/api/handler"
	"splitledger/internal/config"
	"splitledger/internal/repository"
	"splitledger/internal/repository/postgres"
	"splitledger/internal/service"
	"splitledger/internal/util"
	"splitledger/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	UserRepository        repository.UserRepository
	GroupRepository       repository.GroupRepository
	MembershipRepository  repository.MembershipRepository
	BalanceRepository     repository.BalanceRepository
	TransactionRepository repository.TransactionRepository
	SettlementRepository  repository.SettlementRepository

	// Services
	UserService   service.UserService
	GroupService  service.GroupService
	LedgerService service.LedgerService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger()
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database and apply migrations
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	if err := db.RunMigrations(app.DB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Logger.Info("Database migrations applied.")

	// 4. Initialize Repositories
	app.UserRepository = postgres.NewUserRepository(app.DB)
	app.GroupRepository = postgres.NewGroupRepository(app.DB)
	app.MembershipRepository = postgres.NewMembershipRepository(app.DB)
	app.BalanceRepository = postgres.NewBalanceRepository(app.DB)
	app.TransactionRepository = postgres.NewTransactionRepository(app.DB)
	app.SettlementRepository = postgres.NewSettlementRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Services
	// Pass the concrete db.BeginTx, db.CommitTx, db.RollbackTx functions from pkg/db
	app.UserService = service.NewUserService(app.DB, app.UserRepository)
	app.GroupService = service.NewGroupService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.UserRepository,
		app.GroupRepository,
		app.MembershipRepository,
		app.BalanceRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.LedgerService = service.NewLedgerService(
		app.DB,
		app.DB,
		app.GroupRepository,
		app.MembershipRepository,
		app.BalanceRepository,
		app.TransactionRepository,
		app.SettlementRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.Logger.Info("Services initialized.")

	// 6. Initialize HTTP Handlers and Router
	userHandler := handler.NewUserHandler(app.UserService, app.Logger)
	groupHandler := handler.NewGroupHandler(app.GroupService, app.Logger)
	ledgerHandler := handler.NewLedgerHandler(app.LedgerService, app.Logger)
	app.HTTPHandler = router.NewRouter(userHandler, groupHandler, ledgerHandler, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
