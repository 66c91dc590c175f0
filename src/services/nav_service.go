package services

import (
	"context"
	"fmt"
	"time"

	"fundserver/src/models"
	"fundserver/src/repositories"
)

type NAVServiceI interface {
	Publish(ctx context.Context, date time.Time, value float64, updatedBy string) (*models.NAVRecord, error)
	Current(ctx context.Context) (float64, error)
	List(ctx context.Context) ([]models.NAVRecord, error)
	Delete(ctx context.Context, id string) error
}

// NAVService maintains the append-only NAV ledger. Same-date records are
// allowed; the most recent insertion wins for "current NAV" purposes.
type NAVService struct {
	navRepo    repositories.NAVRepository
	defaultNAV float64
}

func NewNAVService(navRepo repositories.NAVRepository, defaultNAV float64) *NAVService {
	return &NAVService{navRepo: navRepo, defaultNAV: defaultNAV}
}

func (s *NAVService) Publish(ctx context.Context, date time.Time, value float64, updatedBy string) (*models.NAVRecord, error) {
	if value <= 0 {
		return nil, &models.ValidationError{
			Field:   "value",
			Message: fmt.Sprintf("nav value must be positive, got %g", value),
		}
	}
	if date.IsZero() {
		return nil, &models.ValidationError{Field: "date", Message: "date is required"}
	}
	if updatedBy == "" {
		return nil, &models.ValidationError{Field: "updatedBy", Message: "updatedBy is required"}
	}

	rec := &models.NAVRecord{
		Date:      date,
		Value:     value,
		UpdatedBy: updatedBy,
	}
	if err := s.navRepo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Current returns the latest published value. An empty ledger falls back to
// the configured default; with no default configured, conversions cannot
// proceed and the caller gets DependencyUnavailable.
func (s *NAVService) Current(ctx context.Context) (float64, error) {
	latest, err := s.navRepo.Latest(ctx)
	if err != nil {
		return 0, err
	}
	if latest != nil {
		return latest.Value, nil
	}
	if s.defaultNAV > 0 {
		return s.defaultNAV, nil
	}
	return 0, &models.DependencyUnavailableError{
		Dependency: "nav ledger",
		Reason:     "no nav published and no default configured",
	}
}

func (s *NAVService) List(ctx context.Context) ([]models.NAVRecord, error) {
	return s.navRepo.List(ctx)
}

// Delete removes a record without touching past transactions; they store the
// NAV value that was in effect when they executed.
func (s *NAVService) Delete(ctx context.Context, id string) error {
	return s.navRepo.Delete(ctx, id)
}
