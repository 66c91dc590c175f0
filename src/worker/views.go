package worker

import (
	"net/http"
	"time"

	"fundserver/src/config"
	"fundserver/src/database"
	"fundserver/src/repositories"
	"fundserver/src/scheduler"
	"fundserver/src/services"
	"fundserver/src/utils"
	"fundserver/src/worker/controllers"
	"fundserver/src/worker/handlers"

	"github.com/go-chi/chi/v5"
)

// Server is the WORKER service type: it owns the scheduled portfolio totals
// reconciliation and exposes a health endpoint plus a manual trigger.
type Server struct {
	Router    *chi.Mux
	Handler   *handlers.Handler
	reconcile *scheduler.ScheduledTask
}

func NewServer(cfg *config.Config) (*Server, error) {
	logger := utils.NewLoggerFromConfig(cfg)

	var portfolioRepo repositories.PortfolioRepository
	if cfg.Databases.SQL.Driver == "memory" {
		portfolioRepo = repositories.NewMemoryPortfolioRepository(repositories.NewMemoryStore())
	} else {
		db, err := database.SetupDB(cfg)
		if err != nil {
			return nil, err
		}
		portfolioRepo = repositories.NewPortfolioRepository(db)
	}

	portfolioService := services.NewPortfolioService(portfolioRepo, logger)
	controller := controllers.NewController(portfolioService, logger)

	server := &Server{
		Router:  chi.NewRouter(),
		Handler: handlers.NewHandler(controller, logger),
	}

	if cfg.Scheduler.Enabled {
		cronSpec := cfg.Scheduler.ReconcileCron
		if cronSpec == "" {
			cronSpec = "@every 5m"
		}
		task, err := scheduler.NewReconcileTask(cronSpec, portfolioService, logger)
		if err != nil {
			return nil, err
		}
		server.reconcile = task
	}

	server.InitRoutes()
	return server, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Get("/alive", handlers.Healthcheck)
	s.Router.Post("/reconcile", s.Handler.TriggerReconcile)
}

// Stop cancels the scheduled reconciliation, if any.
func (s *Server) Stop() {
	if s.reconcile != nil {
		s.reconcile.Cancel()
	}
}

func NewHTTPServer(server *Server, port string) *http.Server {
	if port == "" {
		port = "8001"
	}
	return &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Handler:      server,
	}
}
