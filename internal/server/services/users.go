package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/uptimekeeper/internal/common"
	"github.com/dmitrijs2005/uptimekeeper/internal/cryptox"
	"github.com/dmitrijs2005/uptimekeeper/internal/logging"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/config"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/models"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/repositories/repomanager"
)

// ErrCheckCleanup is returned by UserService.Delete when the user is gone
// but some of their checks could not be removed.
var ErrCheckCleanup = errors.New("errors encountered while deleting the user's checks")

// NewUser carries the fields required to register.
type NewUser struct {
	FirstName string
	LastName  string
	Phone     string
	Password  string
}

// UserChanges lists the fields a user update may touch. Nil means unchanged.
type UserChanges struct {
	FirstName *string
	LastName  *string
	Password  *string
}

// UserService registers, reads, updates and removes users.
type UserService struct {
	repomanager repomanager.RepositoryManager
	secret      []byte
	log         logging.Logger
}

func NewUserService(m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		repomanager: m,
		secret:      []byte(cfg.HashingSecret),
		log:         log.With("module", "users"),
	}
}

// Create registers a user with the terms-of-service agreement recorded and
// no checks. A taken phone yields common.ErrorAlreadyExists.
func (s *UserService) Create(ctx context.Context, in NewUser) error {
	user := &models.User{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Phone:          in.Phone,
		HashedPassword: cryptox.HashPassword(in.Password, s.secret),
		TOSAgreement:   true,
		Checks:         []string{},
	}
	return s.repomanager.Users().Create(ctx, user)
}

func (s *UserService) Get(ctx context.Context, phone string) (*models.User, error) {
	return s.repomanager.Users().Get(ctx, phone)
}

// Update merges changes into the user stored under phone, re-hashing the
// password if one is given.
func (s *UserService) Update(ctx context.Context, phone string, changes UserChanges) error {
	repo := s.repomanager.Users()

	defer userLocks.lock(phone)()

	user, err := repo.Get(ctx, phone)
	if err != nil {
		return err
	}

	if changes.FirstName != nil {
		user.FirstName = *changes.FirstName
	}
	if changes.LastName != nil {
		user.LastName = *changes.LastName
	}
	if changes.Password != nil {
		user.HashedPassword = cryptox.HashPassword(*changes.Password, s.secret)
	}

	if err := repo.Update(ctx, user); err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}
	return nil
}

// Delete removes the user and then every check they own. Tokens are left to
// expire. A failure while removing checks is reported as ErrCheckCleanup
// after all checks have been attempted.
func (s *UserService) Delete(ctx context.Context, phone string) error {
	repo := s.repomanager.Users()

	defer userLocks.lock(phone)()

	user, err := repo.Get(ctx, phone)
	if err != nil {
		return err
	}

	if err := repo.Delete(ctx, phone); err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}

	checks := s.repomanager.Checks()
	failed := 0
	for _, id := range user.Checks {
		if err := checks.Delete(ctx, id); err != nil && !errors.Is(err, common.ErrorNotFound) {
			s.log.Error(ctx, "failed to delete check of removed user", "check_id", id, "error", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d failed", ErrCheckCleanup, failed, len(user.Checks))
	}
	return nil
}
