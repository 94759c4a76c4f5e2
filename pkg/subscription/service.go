package subscription

import (
	"context"
	"fmt"

	"github.com/phk910805/overtime-sub000/internal/utils"
	"github.com/phk910805/overtime-sub000/pkg/organization"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// Current reports the subscription state of the caller's organization.
	Current(ctx context.Context) (Info, error)
	// CheckWritable returns ErrExpired when the organization may no longer
	// mutate data. Reads stay allowed after expiry.
	CheckWritable(ctx context.Context) error
}

type ServiceImpl struct {
	orgService organization.Service
	orgRepo    organization.Repository
	clock      utils.Clock
}

func NewService(orgService organization.Service, orgRepo organization.Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{orgService: orgService, orgRepo: orgRepo, clock: clock}
}

func (s *ServiceImpl) Current(ctx context.Context) (Info, error) {
	org, err := s.orgService.GetCurrent(ctx)
	if err != nil {
		return Info{}, fmt.Errorf("failed to get current organization: %w", err)
	}
	org, err = s.reconcile(ctx, org)
	if err != nil {
		return Info{}, err
	}

	daysLeft := organization.TrialDaysLeft(org, s.clock.Now())
	if org.Status != organization.StatusTrial || daysLeft < 0 {
		daysLeft = 0
	}
	return Info{
		Status:   string(org.Status),
		DaysLeft: daysLeft,
		Writable: org.Status != organization.StatusExpired,
	}, nil
}

func (s *ServiceImpl) CheckWritable(ctx context.Context) error {
	info, err := s.Current(ctx)
	if err != nil {
		return err
	}
	if !info.Writable {
		return ErrExpired
	}
	return nil
}

// reconcile flips a trial organization to expired once its trial end date
// has passed. The transition is lazy: it happens on the first request after
// the deadline rather than on a timer.
func (s *ServiceImpl) reconcile(ctx context.Context, org organization.Organization) (organization.Organization, error) {
	if org.Status != organization.StatusTrial || s.clock.Now().Before(org.TrialEndsAt) {
		return org, nil
	}
	if _, err := s.orgRepo.UpdateStatus(ctx, org.ID, organization.StatusExpired); err != nil {
		return organization.Organization{}, err
	}
	log.Infof("organization %d trial expired on %s", org.ID, org.TrialEndsAt.Format("2006-01-02"))
	org.Status = organization.StatusExpired
	return org, nil
}
