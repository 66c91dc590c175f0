package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"fundserver/src/api"
	"fundserver/src/config"
	"fundserver/src/models"
	"fundserver/src/schemas"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *api.Server {
	t.Helper()
	cfg := &config.Config{
		Service: config.ServiceConfig{Type: config.API, Port: "8000"},
		Databases: config.DatabasesConfig{
			SQL: config.SQLConfig{Driver: "memory"},
		},
		Logging: config.LoggingConfig{Level: "error"},
	}
	server, err := api.NewServer(cfg)
	require.NoError(t, err)
	return server
}

func doJSON(t *testing.T, server *api.Server, method, path string, body interface{}, out interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func TestHealthcheck(t *testing.T) {
	server := newTestServer(t)
	rec := doJSON(t, server, http.MethodGet, "/alive", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNAVEndpoints(t *testing.T) {
	server := newTestServer(t)

	t.Run("current nav is unavailable before the first publish", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/nav/current", nil, nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("publishing makes the value current", func(t *testing.T) {
		var published models.NAVRecord
		rec := doJSON(t, server, http.MethodPost, "/api/nav", map[string]interface{}{
			"date":      "2024-01-01",
			"value":     100,
			"updatedBy": "admin",
		}, &published)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.NotEmpty(t, published.ID)

		var current schemas.CurrentNAVResponse
		rec = doJSON(t, server, http.MethodGet, "/api/nav/current", nil, &current)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 100.0, current.Value)
	})

	t.Run("non-positive values are rejected", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodPost, "/api/nav", map[string]interface{}{
			"date":      "2024-01-02",
			"value":     -10,
			"updatedBy": "admin",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("deleting an unknown record is a 404", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodDelete, "/api/nav/missing-id", nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAccountLifecycleOverHTTP(t *testing.T) {
	server := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/nav", map[string]interface{}{
		"date":      "2024-01-01",
		"value":     100,
		"updatedBy": "admin",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, server, http.MethodPost, "/api/accounts", map[string]string{"id": "user-1"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("invest", func(t *testing.T) {
		var snapshot schemas.AccountSnapshot
		rec := doJSON(t, server, http.MethodPost, "/api/accounts/user-1/invest",
			map[string]interface{}{"amount": 1000}, &snapshot)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.InDelta(t, 10, snapshot.Units, models.UnitsEpsilon)
		assert.InDelta(t, 1000, snapshot.CurrentValue, models.UnitsEpsilon)
	})

	t.Run("withdraw by units", func(t *testing.T) {
		var snapshot schemas.AccountSnapshot
		rec := doJSON(t, server, http.MethodPost, "/api/accounts/user-1/withdraw",
			map[string]interface{}{"units": 4}, &snapshot)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.InDelta(t, 6, snapshot.Units, models.UnitsEpsilon)
		assert.InDelta(t, 1000, snapshot.InvestedAmount, models.UnitsEpsilon)
	})

	t.Run("overdraw returns 422 with the balances", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodPost, "/api/accounts/user-1/withdraw",
			map[string]interface{}{"units": 100}, nil)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.InDelta(t, 100, body["requested"].(float64), models.UnitsEpsilon)
		assert.InDelta(t, 6, body["available"].(float64), models.UnitsEpsilon)
	})

	t.Run("ambiguous withdraw request is a 400", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodPost, "/api/accounts/user-1/withdraw",
			map[string]interface{}{"units": 1, "amount": 100}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown account is a 404", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/accounts/ghost", nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("transactions ledger records the flow", func(t *testing.T) {
		var list schemas.TransactionListResponse
		rec := doJSON(t, server, http.MethodGet, "/api/transactions?userId=user-1", nil, &list)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 2, list.TotalCount)
		assert.Equal(t, models.TransactionWithdraw, list.Items[0].Type)
		assert.Equal(t, models.TransactionInvest, list.Items[1].Type)
	})

	t.Run("type filter narrows the ledger", func(t *testing.T) {
		var list schemas.TransactionListResponse
		rec := doJSON(t, server, http.MethodGet, "/api/transactions?userId=user-1&type=invest", nil, &list)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 1, list.TotalCount)
		assert.InDelta(t, 1000, list.Items[0].Amount, models.UnitsEpsilon)
	})

	t.Run("portfolio totals follow the account", func(t *testing.T) {
		var totals models.PortfolioTotals
		rec := doJSON(t, server, http.MethodGet, "/api/portfolio/totals", nil, &totals)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.InDelta(t, 6, totals.TotalUnits, models.UnitsEpsilon)
		assert.InDelta(t, 1000, totals.TotalInvestment, models.UnitsEpsilon)
	})

	t.Run("recompute returns the same figures", func(t *testing.T) {
		var totals models.PortfolioTotals
		rec := doJSON(t, server, http.MethodPost, "/api/portfolio/recompute", nil, &totals)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.InDelta(t, 6, totals.TotalUnits, models.UnitsEpsilon)
	})

	t.Run("unknown totals view is a 400", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/portfolio/totals?view=bogus", nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTradeEndpoints(t *testing.T) {
	server := newTestServer(t)

	var opened schemas.PositionResponse
	rec := doJSON(t, server, http.MethodPost, "/api/trades", map[string]interface{}{
		"stockName":      "ACME",
		"purchaseRate":   50,
		"unitsPurchased": 100,
		"purchaseDate":   "2024-03-01",
	}, &opened)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotEmpty(t, opened.ID)
	assert.Equal(t, models.PositionActive, opened.Status)
	assert.Equal(t, 100, opened.RemainingUnits)

	t.Run("partial sell", func(t *testing.T) {
		var sold schemas.PositionResponse
		rec := doJSON(t, server, http.MethodPost, fmt.Sprintf("/api/trades/%s/sell", opened.ID),
			map[string]interface{}{
				"sellingPrice": 60,
				"units":        40,
				"sellingDate":  "2024-04-01",
			}, &sold)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, models.PositionPartial, sold.Status)
		assert.Equal(t, 60, sold.RemainingUnits)
		assert.InDelta(t, 400, sold.RealizedReturn, models.UnitsEpsilon)
	})

	t.Run("overselling is a 422", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodPost, fmt.Sprintf("/api/trades/%s/sell", opened.ID),
			map[string]interface{}{
				"sellingPrice": 60,
				"units":        70,
				"sellingDate":  "2024-04-02",
			}, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("listing includes the open position", func(t *testing.T) {
		var positions []schemas.PositionResponse
		rec := doJSON(t, server, http.MethodGet, "/api/trades", nil, &positions)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, positions, 1)
		assert.Equal(t, "ACME", positions[0].StockName)
	})

	t.Run("trades totals view", func(t *testing.T) {
		var totals models.PortfolioTotals
		rec := doJSON(t, server, http.MethodGet, "/api/portfolio/totals?view=trades", nil, &totals)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.InDelta(t, 60, totals.TotalUnits, models.UnitsEpsilon)
		assert.InDelta(t, 5000, totals.TotalInvestment, models.UnitsEpsilon)
	})

	t.Run("unknown position is a 404", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/trades/missing-id", nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
