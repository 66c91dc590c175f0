package repositories

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"fundserver/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MemoryStore backs the "memory" database driver: the same repository
// interfaces as postgres, held in maps behind one mutex. The single lock is
// a stricter serialization than the per-entity requirement, which keeps the
// invest/withdraw critical sections trivially correct.
type MemoryStore struct {
	mu           sync.RWMutex
	navRecords   []models.NAVRecord
	accounts     map[string]models.UserAccount
	transactions []models.Transaction
	positions    map[string]models.TradePosition
	totals       models.PortfolioTotals
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:  make(map[string]models.UserAccount),
		positions: make(map[string]models.TradePosition),
		totals:    models.PortfolioTotals{UpdatedAt: time.Now()},
	}
}

/* ---- NAV repository ---- */

type memoryNAVRepo struct{ s *MemoryStore }

func NewMemoryNAVRepository(s *MemoryStore) NAVRepository { return &memoryNAVRepo{s: s} }

func (r *memoryNAVRepo) Create(_ context.Context, rec *models.NAVRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	r.s.navRecords = append(r.s.navRecords, *rec)
	return nil
}

func (r *memoryNAVRepo) Latest(_ context.Context) (*models.NAVRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var latest *models.NAVRecord
	for i := range r.s.navRecords {
		rec := &r.s.navRecords[i]
		// Later insertions win date ties.
		if latest == nil || !rec.Date.Before(latest.Date) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := *latest
	return &out, nil
}

func (r *memoryNAVRepo) List(_ context.Context) ([]models.NAVRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.NAVRecord, 0, len(r.s.navRecords))
	for i := len(r.s.navRecords) - 1; i >= 0; i-- {
		out = append(out, r.s.navRecords[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (r *memoryNAVRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.navRecords {
		if r.s.navRecords[i].ID == id {
			r.s.navRecords = append(r.s.navRecords[:i], r.s.navRecords[i+1:]...)
			return nil
		}
	}
	return &models.NotFoundError{Entity: "nav record", ID: id}
}

/* ---- Account repository ---- */

type memoryAccountRepo struct{ s *MemoryStore }

func NewMemoryAccountRepository(s *MemoryStore) AccountRepository { return &memoryAccountRepo{s: s} }

func (r *memoryAccountRepo) Create(_ context.Context, a *models.UserAccount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[a.ID]; ok {
		return fmt.Errorf("account %s already exists", a.ID)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	r.s.accounts[a.ID] = *a
	return nil
}

func (r *memoryAccountRepo) GetByID(_ context.Context, id string) (*models.UserAccount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, &models.NotFoundError{Entity: "account", ID: id}
	}
	return &a, nil
}

func (r *memoryAccountRepo) ApplyInvestment(_ context.Context, t *models.Transaction) (*models.UserAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[t.UserID]
	if !ok {
		return nil, &models.NotFoundError{Entity: "account", ID: t.UserID}
	}
	a.Units += t.Units
	a.InvestedAmount += t.Amount
	r.s.accounts[t.UserID] = a
	r.s.appendTransaction(t)
	r.s.applyTotalsDelta(t.Units, t.Amount)
	return &a, nil
}

func (r *memoryAccountRepo) ApplyWithdrawal(_ context.Context, t *models.Transaction) (*models.UserAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[t.UserID]
	if !ok {
		return nil, &models.NotFoundError{Entity: "account", ID: t.UserID}
	}
	if models.ExceedsAvailable(t.Units, a.Units) {
		return nil, &models.InsufficientUnitsError{Requested: t.Units, Available: a.Units}
	}
	a.Units -= t.Units
	r.s.accounts[t.UserID] = a
	r.s.appendTransaction(t)
	r.s.applyTotalsDelta(-t.Units, 0)
	return &a, nil
}

func (r *memoryAccountRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return &models.NotFoundError{Entity: "account", ID: id}
	}
	if math.Abs(a.Units) > models.UnitsEpsilon {
		return &models.ValidationError{
			Field:   "units",
			Message: fmt.Sprintf("account still holds %g units", a.Units),
		}
	}
	delete(r.s.accounts, id)
	r.s.applyTotalsDelta(-a.Units, -a.InvestedAmount)
	return nil
}

// callers must hold s.mu
func (s *MemoryStore) appendTransaction(t *models.Transaction) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	s.transactions = append(s.transactions, *t)
}

// callers must hold s.mu
func (s *MemoryStore) applyTotalsDelta(unitsDelta, investmentDelta float64) {
	s.totals.TotalUnits += unitsDelta
	s.totals.TotalInvestment += investmentDelta
	s.totals.UpdatedAt = time.Now()
}

/* ---- Transaction repository ---- */

type memoryTransactionRepo struct{ s *MemoryStore }

func NewMemoryTransactionRepository(s *MemoryStore) TransactionRepository {
	return &memoryTransactionRepo{s: s}
}

func (r *memoryTransactionRepo) Create(_ context.Context, t *models.Transaction, _ pgx.Tx) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.appendTransaction(t)
	return nil
}

func (r *memoryTransactionRepo) List(_ context.Context, filter TransactionFilter, page Page) ([]models.Transaction, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []models.Transaction
	for _, t := range r.s.transactions {
		if filter.UserID != "" && t.UserID != filter.UserID {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if !filter.From.IsZero() && t.CreatedAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && t.CreatedAt.After(filter.To) {
			continue
		}
		matched = append(matched, t)
	}
	total := len(matched)

	// Insertion order is created_at ascending; reverse for descending.
	if !page.SortAsc {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}

	start := page.Offset
	if start > total {
		start = total
	}
	end := start + page.Limit
	if page.Limit <= 0 || end > total {
		end = total
	}
	return matched[start:end], total, nil
}

/* ---- Trade repository ---- */

type memoryTradeRepo struct{ s *MemoryStore }

func NewMemoryTradeRepository(s *MemoryStore) TradeRepository { return &memoryTradeRepo{s: s} }

func (r *memoryTradeRepo) Create(_ context.Context, p *models.TradePosition) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	r.s.positions[p.ID] = *p
	return nil
}

func (r *memoryTradeRepo) GetByID(_ context.Context, id string) (*models.TradePosition, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.positions[id]
	if !ok {
		return nil, &models.NotFoundError{Entity: "position", ID: id}
	}
	return &p, nil
}

func (r *memoryTradeRepo) List(_ context.Context) ([]models.TradePosition, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.TradePosition, 0, len(r.s.positions))
	for _, p := range r.s.positions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PurchaseDate.Equal(out[j].PurchaseDate) {
			return out[i].PurchaseDate.After(out[j].PurchaseDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryTradeRepo) ApplySale(_ context.Context, p *models.TradePosition) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.positions[p.ID]
	if !ok {
		return &models.NotFoundError{Entity: "position", ID: p.ID}
	}
	if current.Version != p.Version {
		return &models.ConflictError{Entity: "position", ID: p.ID}
	}
	p.Version++
	r.s.positions[p.ID] = *p
	return nil
}

/* ---- Portfolio repository ---- */

type memoryPortfolioRepo struct{ s *MemoryStore }

func NewMemoryPortfolioRepository(s *MemoryStore) PortfolioRepository {
	return &memoryPortfolioRepo{s: s}
}

func (r *memoryPortfolioRepo) GetTotals(_ context.Context) (*models.PortfolioTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t := r.s.totals
	return &t, nil
}

func (r *memoryPortfolioRepo) RecomputeFromAccounts(_ context.Context) (*models.PortfolioTotals, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var t models.PortfolioTotals
	for _, a := range r.s.accounts {
		t.TotalUnits += a.Units
		t.TotalInvestment += a.InvestedAmount
	}
	t.UpdatedAt = time.Now()
	r.s.totals = t
	return &t, nil
}

func (r *memoryPortfolioRepo) TradeTotals(_ context.Context) (*models.PortfolioTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var t models.PortfolioTotals
	for _, p := range r.s.positions {
		t.TotalUnits += float64(p.RemainingUnits())
		if p.Status != models.PositionSold {
			t.TotalInvestment += p.TotalInvestment()
		}
	}
	t.UpdatedAt = time.Now()
	return &t, nil
}

// SetTotals overwrites the materialized aggregate directly. Only tests use
// it, to inject drift for the reconciliation path.
func (s *MemoryStore) SetTotals(t models.PortfolioTotals) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totals = t
}
