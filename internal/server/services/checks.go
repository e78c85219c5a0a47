package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/uptimekeeper/internal/common"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/config"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/models"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/repositories/repomanager"
)

// ErrOwnerMissing means a check's owning user could not be found.
var ErrOwnerMissing = errors.New("could not find the user who created the check")

// CheckSpec is the user-controlled part of a check.
type CheckSpec struct {
	Protocol       string
	URL            string
	Method         string
	SuccessCodes   []int
	TimeoutSeconds int
}

// CheckChanges lists the fields a check update may touch. Nil means unchanged.
type CheckChanges struct {
	Protocol       *string
	URL            *string
	Method         *string
	SuccessCodes   []int
	TimeoutSeconds *int
}

// CheckService manages check definitions and keeps each owner's check list
// in step with the checks collection.
type CheckService struct {
	repomanager repomanager.RepositoryManager
	maxChecks   int
	newID       func() (string, error)
}

func NewCheckService(m repomanager.RepositoryManager, cfg *config.Config) *CheckService {
	return &CheckService{
		repomanager: m,
		maxChecks:   cfg.MaxChecks,
		newID:       func() (string, error) { return common.MakeRandString(models.CheckIDLength) },
	}
}

// Create stores a new check for owner and appends its id to the owner's
// list. It fails with common.ErrorForbidden if the owner does not exist and
// common.ErrorLimitReached if they already have the maximum number of checks.
func (s *CheckService) Create(ctx context.Context, owner string, spec CheckSpec) (*models.Check, error) {
	users := s.repomanager.Users()

	defer userLocks.lock(owner)()

	user, err := users.Get(ctx, owner)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorForbidden
		}
		return nil, fmt.Errorf("error reading user: %w", err)
	}

	if len(user.Checks) >= s.maxChecks {
		return nil, fmt.Errorf("%w: the user already has the maximum number of checks (%d)", common.ErrorLimitReached, s.maxChecks)
	}

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("error generating check id: %w", err)
	}

	check := &models.Check{
		ID:             id,
		UserPhone:      owner,
		Protocol:       spec.Protocol,
		URL:            spec.URL,
		Method:         spec.Method,
		SuccessCodes:   spec.SuccessCodes,
		TimeoutSeconds: spec.TimeoutSeconds,
	}
	if err := s.repomanager.Checks().Create(ctx, check); err != nil {
		return nil, fmt.Errorf("error creating check: %w", err)
	}

	user.Checks = append(user.Checks, id)
	if err := users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return check, nil
}

func (s *CheckService) Get(ctx context.Context, id string) (*models.Check, error) {
	return s.repomanager.Checks().Get(ctx, id)
}

// Update merges changes into check and stores it.
func (s *CheckService) Update(ctx context.Context, check *models.Check, changes CheckChanges) (*models.Check, error) {
	if changes.Protocol != nil {
		check.Protocol = *changes.Protocol
	}
	if changes.URL != nil {
		check.URL = *changes.URL
	}
	if changes.Method != nil {
		check.Method = *changes.Method
	}
	if changes.SuccessCodes != nil {
		check.SuccessCodes = changes.SuccessCodes
	}
	if changes.TimeoutSeconds != nil {
		check.TimeoutSeconds = *changes.TimeoutSeconds
	}

	if err := s.repomanager.Checks().Update(ctx, check); err != nil {
		return nil, fmt.Errorf("error updating check: %w", err)
	}
	return check, nil
}

// Delete removes check and drops it from its owner's list. If the owner is
// gone the check is still deleted and ErrOwnerMissing is returned.
func (s *CheckService) Delete(ctx context.Context, check *models.Check) error {
	if err := s.repomanager.Checks().Delete(ctx, check.ID); err != nil {
		return fmt.Errorf("error deleting check: %w", err)
	}

	users := s.repomanager.Users()

	defer userLocks.lock(check.UserPhone)()

	user, err := users.Get(ctx, check.UserPhone)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return ErrOwnerMissing
		}
		return fmt.Errorf("error reading user: %w", err)
	}

	if !user.HasCheck(check.ID) {
		return nil
	}
	user.RemoveCheck(check.ID)
	if err := users.Update(ctx, user); err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}
	return nil
}
