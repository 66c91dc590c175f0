package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"fundserver/src/models"
	"fundserver/src/repositories"
	"fundserver/src/schemas"
	"fundserver/src/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

// newAccountFixture wires an account service over the memory driver with a
// single NAV record published at the given value.
func newAccountFixture(t *testing.T, nav float64) (*repositories.MemoryStore, *services.AccountService) {
	t.Helper()
	store := repositories.NewMemoryStore()
	navService := services.NewNAVService(repositories.NewMemoryNAVRepository(store), 0)
	if nav > 0 {
		_, err := navService.Publish(context.Background(), day(2024, 1, 1), nav, "admin")
		require.NoError(t, err)
	}
	return store, services.NewAccountService(repositories.NewMemoryAccountRepository(store), navService)
}

func TestAccountInvestAndWithdraw(t *testing.T) {
	ctx := context.Background()
	_, accountService := newAccountFixture(t, 100)

	_, err := accountService.Create(ctx, "user-1")
	require.NoError(t, err)

	t.Run("investing converts cash to units at the current nav", func(t *testing.T) {
		snapshot, err := accountService.Invest(ctx, "user-1", 1000, "")
		require.NoError(t, err)
		assert.InDelta(t, 10, snapshot.Units, models.UnitsEpsilon)
		assert.InDelta(t, 1000, snapshot.InvestedAmount, models.UnitsEpsilon)
		assert.InDelta(t, 1000, snapshot.CurrentValue, models.UnitsEpsilon)
		assert.Equal(t, 100.0, snapshot.NAVValue)
	})

	t.Run("withdrawing by units reduces units but not contributions", func(t *testing.T) {
		snapshot, err := accountService.Withdraw(ctx, "user-1", &schemas.WithdrawRequest{Units: floatPtr(4)})
		require.NoError(t, err)
		assert.InDelta(t, 6, snapshot.Units, models.UnitsEpsilon)
		assert.InDelta(t, 1000, snapshot.InvestedAmount, models.UnitsEpsilon)
		assert.InDelta(t, 600, snapshot.CurrentValue, models.UnitsEpsilon)
	})

	t.Run("withdrawing by amount converts at the current nav", func(t *testing.T) {
		snapshot, err := accountService.Withdraw(ctx, "user-1", &schemas.WithdrawRequest{Amount: floatPtr(200)})
		require.NoError(t, err)
		assert.InDelta(t, 4, snapshot.Units, models.UnitsEpsilon)
	})

	t.Run("withdrawing more than held is rejected with the available balance", func(t *testing.T) {
		var insufficient *models.InsufficientUnitsError
		_, err := accountService.Withdraw(ctx, "user-1", &schemas.WithdrawRequest{Units: floatPtr(5)})
		require.ErrorAs(t, err, &insufficient)
		assert.InDelta(t, 5, insufficient.Requested, models.UnitsEpsilon)
		assert.InDelta(t, 4, insufficient.Available, models.UnitsEpsilon)

		// State is untouched by the failed attempt.
		snapshot, err := accountService.Get(ctx, "user-1")
		require.NoError(t, err)
		assert.InDelta(t, 4, snapshot.Units, models.UnitsEpsilon)
	})
}

func TestAccountWithdrawValidation(t *testing.T) {
	ctx := context.Background()
	_, accountService := newAccountFixture(t, 100)

	_, err := accountService.Create(ctx, "user-1")
	require.NoError(t, err)

	var validation *models.ValidationError

	_, err = accountService.Withdraw(ctx, "user-1", &schemas.WithdrawRequest{})
	require.ErrorAs(t, err, &validation)

	_, err = accountService.Withdraw(ctx, "user-1", &schemas.WithdrawRequest{
		Amount: floatPtr(10),
		Units:  floatPtr(1),
	})
	require.ErrorAs(t, err, &validation)

	_, err = accountService.Withdraw(ctx, "user-1", &schemas.WithdrawRequest{Units: floatPtr(-1)})
	require.ErrorAs(t, err, &validation)

	_, err = accountService.Withdraw(ctx, "user-1", &schemas.WithdrawRequest{Amount: floatPtr(0)})
	require.ErrorAs(t, err, &validation)
}

func TestAccountInvestValidation(t *testing.T) {
	ctx := context.Background()
	_, accountService := newAccountFixture(t, 100)

	var validation *models.ValidationError
	_, err := accountService.Invest(ctx, "", 100, "")
	require.ErrorAs(t, err, &validation)

	_, err = accountService.Invest(ctx, "user-1", -50, "")
	require.ErrorAs(t, err, &validation)

	var notFound *models.NotFoundError
	_, err = accountService.Invest(ctx, "ghost", 100, "")
	require.ErrorAs(t, err, &notFound)
}

func TestAccountInvestRequiresNAV(t *testing.T) {
	ctx := context.Background()
	_, accountService := newAccountFixture(t, 0)

	_, err := accountService.Create(ctx, "user-1")
	require.NoError(t, err)

	var unavailable *models.DependencyUnavailableError
	_, err = accountService.Invest(ctx, "user-1", 100, "")
	require.ErrorAs(t, err, &unavailable)
}

func TestAccountRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, accountService := newAccountFixture(t, 73.21)

	_, err := accountService.Create(ctx, "user-1")
	require.NoError(t, err)

	invested, err := accountService.Invest(ctx, "user-1", 1234.56, "")
	require.NoError(t, err)

	// Withdrawing every unit at the same nav must return the full amount.
	snapshot, err := accountService.Withdraw(ctx, "user-1", &schemas.WithdrawRequest{
		Units: floatPtr(invested.Units),
	})
	require.NoError(t, err)
	assert.InDelta(t, 0, snapshot.Units, models.UnitsEpsilon)
	assert.InDelta(t, 1234.56, invested.Units*snapshot.NAVValue, 1e-6)
}

func TestAccountConcurrentInvest(t *testing.T) {
	ctx := context.Background()
	_, accountService := newAccountFixture(t, 10)

	_, err := accountService.Create(ctx, "user-1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := accountService.Invest(ctx, "user-1", 10, "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snapshot, err := accountService.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.InDelta(t, 100, snapshot.Units, models.UnitsEpsilon)
	assert.InDelta(t, 1000, snapshot.InvestedAmount, models.UnitsEpsilon)
}

func TestAccountDelete(t *testing.T) {
	ctx := context.Background()
	store, accountService := newAccountFixture(t, 100)

	_, err := accountService.Create(ctx, "user-1")
	require.NoError(t, err)
	_, err = accountService.Invest(ctx, "user-1", 500, "")
	require.NoError(t, err)

	t.Run("accounts holding units cannot be deleted", func(t *testing.T) {
		var validation *models.ValidationError
		err := accountService.Delete(ctx, "user-1")
		require.ErrorAs(t, err, &validation)
	})

	t.Run("empty accounts can be deleted", func(t *testing.T) {
		_, err := accountService.Withdraw(ctx, "user-1", &schemas.WithdrawRequest{Units: floatPtr(5)})
		require.NoError(t, err)
		require.NoError(t, accountService.Delete(ctx, "user-1"))

		var notFound *models.NotFoundError
		_, err = accountService.Get(ctx, "user-1")
		require.ErrorAs(t, err, &notFound)

		// The deleted account's contributions leave the aggregate.
		totals, err := repositories.NewMemoryPortfolioRepository(store).GetTotals(ctx)
		require.NoError(t, err)
		assert.InDelta(t, 0, totals.TotalUnits, models.UnitsEpsilon)
		assert.InDelta(t, 0, totals.TotalInvestment, models.UnitsEpsilon)
	})
}

func TestAccountSnapshotWithEmptyLedger(t *testing.T) {
	ctx := context.Background()
	_, accountService := newAccountFixture(t, 0)

	_, err := accountService.Create(ctx, "user-1")
	require.NoError(t, err)

	// Reads value holdings at zero instead of failing.
	snapshot, err := accountService.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, snapshot.NAVValue)
	assert.Equal(t, 0.0, snapshot.CurrentValue)
}

func TestAccountTransactionLedger(t *testing.T) {
	ctx := context.Background()
	store, accountService := newAccountFixture(t, 100)
	transactionRepo := repositories.NewMemoryTransactionRepository(store)

	_, err := accountService.Create(ctx, "user-1")
	require.NoError(t, err)
	_, err = accountService.Invest(ctx, "user-1", 1000, "ops")
	require.NoError(t, err)
	_, err = accountService.Withdraw(ctx, "user-1", &schemas.WithdrawRequest{Units: floatPtr(4)})
	require.NoError(t, err)

	items, total, err := transactionRepo.List(ctx, repositories.TransactionFilter{UserID: "user-1"}, repositories.Page{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 2, total)

	// Descending by default, the withdrawal comes first.
	withdrawal, investment := items[0], items[1]
	assert.Equal(t, models.TransactionWithdraw, withdrawal.Type)
	assert.InDelta(t, 400, withdrawal.Amount, models.UnitsEpsilon)
	assert.InDelta(t, 4, withdrawal.Units, models.UnitsEpsilon)
	assert.Equal(t, "user-1", withdrawal.ProcessedBy)

	assert.Equal(t, models.TransactionInvest, investment.Type)
	assert.Equal(t, 100.0, investment.NAVValue)
	assert.Equal(t, models.StatusCompleted, investment.Status)
	assert.Equal(t, "ops", investment.ProcessedBy)
	assert.False(t, investment.CreatedAt.After(withdrawal.CreatedAt.Add(time.Second)))
}
