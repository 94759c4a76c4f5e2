package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/phk910805/overtime-sub000/internal/utils"
	"github.com/phk910805/overtime-sub000/pkg/employee"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Get(ctx context.Context, month utils.Month) (MonthlySettings, error)
	Set(ctx context.Context, s MonthlySettings) (MonthlySettings, error)
	// MultiplierFor returns the multiplier that was in effect for the given
	// month, falling back to 1.0 when the month has no settings row. The
	// fallback is the only silent coercion in the module.
	MultiplierFor(ctx context.Context, month utils.Month) (decimal.Decimal, error)
	ApprovalModeFor(ctx context.Context, month utils.Month) (ApprovalMode, error)
}

type ServiceImpl struct {
	repo  Repository
	cache *Cache
	clock utils.Clock
}

func NewService(repo Repository, cache *Cache, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, cache: cache, clock: clock}
}

func (s *ServiceImpl) Get(ctx context.Context, month utils.Month) (MonthlySettings, error) {
	orgId, err := employee.CurrentOrgId(ctx)
	if err != nil {
		return MonthlySettings{}, fmt.Errorf("failed to get current employee: %w", err)
	}
	return s.find(ctx, orgId, month)
}

func (s *ServiceImpl) Set(ctx context.Context, settings MonthlySettings) (MonthlySettings, error) {
	current, err := employee.Current(ctx)
	if err != nil {
		return MonthlySettings{}, fmt.Errorf("failed to get current employee: %w", err)
	}
	if !current.IsAdmin() {
		return MonthlySettings{}, employee.ErrNotAdmin
	}
	if err := ValidateMultiplier(settings.Multiplier); err != nil {
		return MonthlySettings{}, err
	}
	if settings.ApprovalMode != ApprovalAuto && settings.ApprovalMode != ApprovalManual {
		return MonthlySettings{}, ErrInvalidApproval
	}

	settings.CreatedAt = s.clock.Now()
	if err := s.repo.Upsert(ctx, current.OrgID, settings); err != nil {
		return MonthlySettings{}, err
	}
	s.cache.Invalidate(current.OrgID)
	log.Infof("monthly settings updated for org %d, %04d-%02d: multiplier=%s approval=%s",
		current.OrgID, settings.Year, int(settings.Month), settings.Multiplier, settings.ApprovalMode)

	stored, err := s.repo.Find(ctx, current.OrgID, utils.Month{Year: settings.Year, Month: settings.Month})
	if err != nil {
		return MonthlySettings{}, err
	}
	return stored, nil
}

func (s *ServiceImpl) MultiplierFor(ctx context.Context, month utils.Month) (decimal.Decimal, error) {
	orgId, err := employee.CurrentOrgId(ctx)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to get current employee: %w", err)
	}
	settings, err := s.find(ctx, orgId, month)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return DefaultMultiplier, nil
		}
		return decimal.Decimal{}, err
	}
	return settings.Multiplier, nil
}

func (s *ServiceImpl) ApprovalModeFor(ctx context.Context, month utils.Month) (ApprovalMode, error) {
	orgId, err := employee.CurrentOrgId(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get current employee: %w", err)
	}
	settings, err := s.find(ctx, orgId, month)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return DefaultApprovalMode, nil
		}
		return "", err
	}
	return settings.ApprovalMode, nil
}

func (s *ServiceImpl) find(ctx context.Context, orgId int, month utils.Month) (MonthlySettings, error) {
	if cached, ok := s.cache.Get(orgId, month); ok {
		return cached, nil
	}
	settings, err := s.repo.Find(ctx, orgId, month)
	if err != nil {
		return MonthlySettings{}, err
	}
	s.cache.Put(orgId, month, settings)
	return settings, nil
}
