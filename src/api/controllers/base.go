package controllers

import (
	"context"

	"fundserver/src/models"
	"fundserver/src/repositories"
	"fundserver/src/schemas"
	"fundserver/src/services"
	"fundserver/src/utils"
	redis_utils "fundserver/src/utils/redis"

	"github.com/sirupsen/logrus"
)

type IController interface {
	PublishNAV(ctx context.Context, req *schemas.PublishNAVRequest) (*models.NAVRecord, error)
	CurrentNAV(ctx context.Context) (*schemas.CurrentNAVResponse, error)
	ListNAV(ctx context.Context) ([]models.NAVRecord, error)
	DeleteNAV(ctx context.Context, id string) error

	CreateAccount(ctx context.Context, req *schemas.CreateAccountRequest) (*models.UserAccount, error)
	GetAccount(ctx context.Context, id string) (*schemas.AccountSnapshot, error)
	DeleteAccount(ctx context.Context, id string) error
	Invest(ctx context.Context, userID string, req *schemas.InvestRequest) (*schemas.AccountSnapshot, error)
	Withdraw(ctx context.Context, userID string, req *schemas.WithdrawRequest) (*schemas.AccountSnapshot, error)

	OpenPosition(ctx context.Context, req *schemas.OpenPositionRequest) (*schemas.PositionResponse, error)
	GetPosition(ctx context.Context, id string) (*schemas.PositionResponse, error)
	ListPositions(ctx context.Context) ([]schemas.PositionResponse, error)
	SellPosition(ctx context.Context, id string, req *schemas.SellPositionRequest) (*schemas.PositionResponse, error)

	ListTransactions(ctx context.Context, filter repositories.TransactionFilter, page, pageSize int, sortAsc bool) (*schemas.TransactionListResponse, error)

	PortfolioTotals(ctx context.Context, view string) (*models.PortfolioTotals, error)
	RecomputeTotals(ctx context.Context) (*models.PortfolioTotals, error)
}

// Controller orchestrates the domain services for the HTTP layer: it owns
// pagination defaults, the totals caches and their invalidation on every
// mutating path.
type Controller struct {
	NAVService       services.NAVServiceI
	AccountService   services.AccountServiceI
	TradeService     services.TradeServiceI
	PortfolioService services.PortfolioServiceI
	TransactionRepo  repositories.TransactionRepository
	TotalsCache      *utils.Cache[models.PortfolioTotals]
	Redis            *redis_utils.RedisHandler
	Logger           *logrus.Logger
}

func NewController(
	navService services.NAVServiceI,
	accountService services.AccountServiceI,
	tradeService services.TradeServiceI,
	portfolioService services.PortfolioServiceI,
	transactionRepo repositories.TransactionRepository,
	redisHandler *redis_utils.RedisHandler,
	logger *logrus.Logger,
) *Controller {
	return &Controller{
		NAVService:       navService,
		AccountService:   accountService,
		TradeService:     tradeService,
		PortfolioService: portfolioService,
		TransactionRepo:  transactionRepo,
		TotalsCache:      utils.NewCache[models.PortfolioTotals](),
		Redis:            redisHandler,
		Logger:           logger,
	}
}
