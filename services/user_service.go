package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/repository"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"
)

const (
	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute
)

// UserService handles registration, authentication and account management.
type UserService struct {
	userRepo repository.UserRepositoryInterface
	config   *models.Config
	logger   logger.Logger
}

// NewUserService creates a new user service instance
func NewUserService(userRepo repository.UserRepositoryInterface, cfg *models.Config, log logger.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		config:   cfg,
		logger:   log,
	}
}

// RegisterUser creates a new account with a bcrypt password hash. New users
// start as viewers; an admin promotes them afterwards.
func (s *UserService) RegisterUser(ctx context.Context, req *models.RegisterUser) (*models.User, error) {
	if err := s.validateRegistration(req); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.logger.Errorf("Failed to hash password: %v", err)
		return nil, errors.New("failed to process password")
	}

	user := &models.User{
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Username:        strings.TrimSpace(req.Username),
		PasswordHash:    hash,
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		Role:            models.UserRoleViewer,
		Status:          models.UserStatusActive,
		DefaultLocation: strings.TrimSpace(req.Location),
		EmailVerified:   false,
	}
	if req.Phone != "" {
		phone := strings.TrimSpace(req.Phone)
		user.Phone = &phone
	}

	created, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Infof("User registered: %s (%s)", created.Username, created.Email)
	return created, nil
}

// AuthenticateUser verifies credentials for login. Failed attempts count
// against the account, and five in a row lock it for fifteen minutes.
func (s *UserService) AuthenticateUser(email, password string) (*models.User, error) {
	user, err := s.userRepo.GetUser(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, errors.New("invalid credentials")
	}

	if user.AccountLockedUntil != nil && user.AccountLockedUntil.After(time.Now()) {
		return nil, errors.New("account is temporarily locked, try again later")
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		s.recordFailedLogin(user)
		return nil, errors.New("invalid credentials")
	}

	if user.Status != models.UserStatusActive {
		return nil, errors.New("account is not active")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"last_login_at":         now,
		"failed_login_attempts": 0,
	}
	if user.AccountLockedUntil != nil {
		updates["account_locked_until"] = nil
	}
	updated, err := s.userRepo.UpdateUser(user.ID, updates)
	if err != nil {
		// Login bookkeeping must not block a valid login.
		s.logger.Warnf("Failed to record login for user %s: %v", user.ID, err)
		return user, nil
	}

	return updated, nil
}

// GetUsers returns all user accounts.
func (s *UserService) GetUsers() ([]*models.User, error) {
	return s.userRepo.GetUsers()
}

// GetUserByID retrieves a user account by its ID.
func (s *UserService) GetUserByID(id string) (*models.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("user ID is required")
	}
	return s.userRepo.GetUser(id)
}

// GetUserByEmail retrieves a user account by email address.
func (s *UserService) GetUserByEmail(email string) (*models.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, errors.New("email is required")
	}
	return s.userRepo.GetUser(strings.ToLower(strings.TrimSpace(email)))
}

// UpdateUser applies a sparse account update. Email, username and password
// are not updatable through this path.
func (s *UserService) UpdateUser(id string, req *models.UpdateUserRequest, updatedBy string) (*models.User, error) {
	if _, err := s.userRepo.GetUser(id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.FirstName != "" {
		updates["first_name"] = strings.TrimSpace(req.FirstName)
	}
	if req.LastName != "" {
		updates["last_name"] = strings.TrimSpace(req.LastName)
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Role != "" {
		updates["role"] = string(req.Role)
	}
	if req.Status != "" {
		updates["status"] = string(req.Status)
	}
	if req.DefaultLocation != "" {
		updates["default_location"] = req.DefaultLocation
	}

	if len(updates) == 0 {
		return nil, errors.New("no fields to update")
	}

	updated, err := s.userRepo.UpdateUser(id, updates)
	if err != nil {
		return nil, err
	}

	s.logger.Infof("User %s updated by %s", id, updatedBy)
	return updated, nil
}

func (s *UserService) validateRegistration(req *models.RegisterUser) error {
	if strings.TrimSpace(req.Email) == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(req.Email, "@") {
		return errors.New("email address is invalid")
	}
	if strings.TrimSpace(req.Username) == "" {
		return errors.New("username is required")
	}
	if len(req.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return errors.New("first and last name are required")
	}
	return nil
}

func (s *UserService) recordFailedLogin(user *models.User) {
	attempts := user.FailedLoginAttempts + 1
	updates := map[string]interface{}{
		"failed_login_attempts": attempts,
	}
	if attempts >= maxFailedLogins {
		lockedUntil := time.Now().Add(lockoutDuration)
		updates["account_locked_until"] = lockedUntil
		s.logger.Warnf("Account %s locked after %d failed login attempts", user.ID, attempts)
	}
	if _, err := s.userRepo.UpdateUser(user.ID, updates); err != nil {
		s.logger.Warnf("Failed to record failed login for user %s: %v", user.ID, err)
	}
}
