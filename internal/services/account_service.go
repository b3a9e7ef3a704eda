package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/62String/devicerent-sub000/internal/auth"
	"github.com/62String/devicerent-sub000/internal/models"
	"github.com/62String/devicerent-sub000/internal/repositories"
	"github.com/62String/devicerent-sub000/internal/validator"
)

type accountService struct {
	repo      repositories.Repository
	tokens    *auth.TokenIssuer
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAccountService(repo repositories.Repository, tokens *auth.TokenIssuer, logger *slog.Logger, validator *validator.Validator) AccountService {
	return &accountService{
		repo:      repo,
		tokens:    tokens,
		logger:    logger,
		validator: validator,
	}
}

// Register creates a pending account. Admin eligibility and role level are
// derived from the position table, never from caller input.
func (s *accountService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if errs := s.validator.GetBusinessValidator().ValidateRegister(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	exists, err := s.repo.User().Exists(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("check user existence: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	rank := models.PositionTable[models.Position(req.Position)]
	user := &models.User{
		ID:           req.ID,
		Name:         req.Name,
		Affiliation:  req.Affiliation,
		Position:     models.Position(req.Position),
		PasswordHash: hash,
		IsPending:    true,
		IsAdmin:      rank.AdminEligible,
		RoleLevel:    rank.RoleLevel,
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered",
		"user_id", user.ID,
		"position", user.Position,
		"role_level", user.RoleLevel,
	)
	return user, nil
}

func (s *accountService) CheckIDAvailable(ctx context.Context, id string) (bool, error) {
	exists, err := s.repo.User().Exists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("check user existence: %w", err)
	}
	return !exists, nil
}

// Login verifies credentials and issues a signed token. Unknown id and wrong
// password share one error so ids cannot be enumerated.
func (s *accountService) Login(ctx context.Context, req *LoginRequest) (*models.LoginResponse, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	user, err := s.repo.User().GetWithCredentials(ctx, req.ID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if user.IsPending {
		return nil, ErrPendingApproval
	}

	token, err := s.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID, "is_admin", user.IsAdmin)
	return &models.LoginResponse{Token: token, User: user}, nil
}

func (s *accountService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Approve activates a pending account. A non-pending target is treated as
// absent: there is no transition back into pending, so nothing to approve.
func (s *accountService) Approve(ctx context.Context, requester *models.User, req *ApproveUserRequest) error {
	user, err := s.repo.User().GetByID(ctx, req.ID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}
	if !user.IsPending {
		return ErrUserNotFound
	}

	user.IsPending = false
	user.IsAdmin = req.IsAdmin
	if err := s.repo.User().Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("user approved",
		"user_id", user.ID,
		"is_admin", user.IsAdmin,
		"approved_by", requester.ID,
	)
	return nil
}

// Reject tombstones a pending registration.
func (s *accountService) Reject(ctx context.Context, requester *models.User, req *RejectUserRequest) error {
	user, err := s.repo.User().GetByID(ctx, req.ID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}

	if err := s.tombstone(ctx, user, req.Reason, requester.ID); err != nil {
		return err
	}

	s.logger.Info("user rejected", "user_id", user.ID, "rejected_by", requester.ID)
	return nil
}

// Delete removes an active account. Self-deletion is refused, and a requester
// may only delete strictly lower-ranked users (RoleLevel 1 is the highest
// rank).
func (s *accountService) Delete(ctx context.Context, requester *models.User, req *DeleteUserRequest) error {
	if req.ID == requester.ID {
		return NewPermissionError(requester.ID, "user", "delete", "cannot delete own account")
	}

	user, err := s.repo.User().GetByID(ctx, req.ID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}

	if user.RoleLevel <= requester.RoleLevel {
		return NewPermissionError(requester.ID, "user", "delete", "cannot delete a user of equal or higher rank")
	}

	if err := s.tombstone(ctx, user, req.Reason, requester.ID); err != nil {
		return err
	}

	s.logger.Info("user deleted", "user_id", user.ID, "deleted_by", requester.ID)
	return nil
}

// tombstone snapshots the user and removes the account in one transaction.
func (s *accountService) tombstone(ctx context.Context, user *models.User, reason, deletedBy string) error {
	return s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		record := &models.DeletedUser{
			UserID:      user.ID,
			Name:        user.Name,
			Affiliation: user.Affiliation,
			Position:    user.Position,
			RoleLevel:   user.RoleLevel,
			Reason:      reason,
			DeletedBy:   deletedBy,
			DeletedAt:   time.Now().UTC(),
		}
		if err := tx.DeletedUser().Create(ctx, record); err != nil {
			return fmt.Errorf("create tombstone: %w", err)
		}
		if err := tx.User().Delete(ctx, user.ID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}

func (s *accountService) ListPending(ctx context.Context) (*models.UserListResponse, error) {
	return s.list(ctx, true)
}

func (s *accountService) ListApproved(ctx context.Context) (*models.UserListResponse, error) {
	return s.list(ctx, false)
}

func (s *accountService) list(ctx context.Context, pending bool) (*models.UserListResponse, error) {
	users, total, err := s.repo.User().List(ctx, repositories.UserFilters{Pending: &pending})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return &models.UserListResponse{Users: users, Total: total}, nil
}
