package api

import (
	"net/http"
	"time"

	"fundserver/src/api/controllers"
	"fundserver/src/api/handlers"
	"fundserver/src/config"
	"fundserver/src/database"
	"fundserver/src/repositories"
	"fundserver/src/services"
	"fundserver/src/utils"
	redis_utils "fundserver/src/utils/redis"

	"github.com/go-chi/chi/v5"
)

type Server struct {
	Router  *chi.Mux
	Handler *handlers.Handler
}

func NewServer(cfg *config.Config) (*Server, error) {
	logger := utils.NewLoggerFromConfig(cfg)

	var (
		navRepo         repositories.NAVRepository
		accountRepo     repositories.AccountRepository
		transactionRepo repositories.TransactionRepository
		tradeRepo       repositories.TradeRepository
		portfolioRepo   repositories.PortfolioRepository
	)
	if cfg.Databases.SQL.Driver == "memory" {
		store := repositories.NewMemoryStore()
		navRepo = repositories.NewMemoryNAVRepository(store)
		accountRepo = repositories.NewMemoryAccountRepository(store)
		transactionRepo = repositories.NewMemoryTransactionRepository(store)
		tradeRepo = repositories.NewMemoryTradeRepository(store)
		portfolioRepo = repositories.NewMemoryPortfolioRepository(store)
	} else {
		db, err := database.SetupDB(cfg)
		if err != nil {
			return nil, err
		}
		navRepo = repositories.NewNAVRepository(db)
		accountRepo = repositories.NewAccountRepository(db)
		transactionRepo = repositories.NewTransactionRepository(db)
		tradeRepo = repositories.NewTradeRepository(db)
		portfolioRepo = repositories.NewPortfolioRepository(db)
	}

	var redisHandler *redis_utils.RedisHandler
	if cfg.Databases.Redis.Enabled {
		var err error
		redisHandler, err = redis_utils.NewRedisHandler(cfg)
		if err != nil {
			return nil, err
		}
	}

	navService := services.NewNAVService(navRepo, cfg.NAV.DefaultValue)
	accountService := services.NewAccountService(accountRepo, navService)
	tradeService := services.NewTradeService(tradeRepo)
	portfolioService := services.NewPortfolioService(portfolioRepo, logger)

	controller := controllers.NewController(
		navService,
		accountService,
		tradeService,
		portfolioService,
		transactionRepo,
		redisHandler,
		logger,
	)

	server := &Server{
		Router:  chi.NewRouter(),
		Handler: handlers.NewHandler(controller, logger),
	}
	server.InitRoutes()
	return server, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(utils.WithLogger(r.Context(), s.Handler.Logger)))
		})
	})

	s.Router.Get("/alive", handlers.Healthcheck)

	s.Router.Route("/api/nav", func(r chi.Router) {
		r.Post("/", s.Handler.PublishNAV)
		r.Get("/", s.Handler.ListNAV)
		r.Get("/current", s.Handler.GetCurrentNAV)
		r.Delete("/{id}", s.Handler.DeleteNAV)
	})

	s.Router.Route("/api/accounts", func(r chi.Router) {
		r.Post("/", s.Handler.CreateAccount)
		r.Get("/{id}", s.Handler.GetAccount)
		r.Delete("/{id}", s.Handler.DeleteAccount)
		r.Post("/{id}/invest", s.Handler.Invest)
		r.Post("/{id}/withdraw", s.Handler.Withdraw)
	})

	s.Router.Route("/api/trades", func(r chi.Router) {
		r.Post("/", s.Handler.OpenPosition)
		r.Get("/", s.Handler.ListPositions)
		r.Get("/{id}", s.Handler.GetPosition)
		r.Post("/{id}/sell", s.Handler.SellPosition)
	})

	s.Router.Get("/api/transactions", s.Handler.ListTransactions)

	s.Router.Route("/api/portfolio", func(r chi.Router) {
		r.Get("/totals", s.Handler.GetPortfolioTotals)
		r.Post("/recompute", s.Handler.RecomputeTotals)
	})
}

func NewHTTPServer(server *Server, port string) *http.Server {
	if port == "" {
		port = "8000"
	}
	return &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Handler:      server,
	}
}
