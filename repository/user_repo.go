package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/dal"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"
)

type UserRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	var existing []*models.User
	err := r.db.QueryByIndex(ctx, r.config.DynamoDBTablePrefix+"_users", "email-index", "email", user.Email, &existing)
	if err == nil && len(existing) > 0 && existing[0].ID != "" {
		return nil, errors.New("user with this email already exists")
	}

	existing = nil
	err = r.db.QueryByIndex(ctx, r.config.DynamoDBTablePrefix+"_users", "username-index", "username", user.Username, &existing)
	if err == nil && len(existing) > 0 && existing[0].ID != "" {
		return nil, errors.New("user with this username already exists")
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.ID = utils.GenerateUUID()
	user.Status = models.UserStatusActive
	if user.Role == "" {
		user.Role = models.UserRoleViewer
	}

	err = r.db.PutItem(ctx, r.config.DynamoDBTablePrefix+"_users", user)
	if err != nil {
		r.logger.Errorf("Failed to create user: %v", err)
		return nil, err
	}

	r.logger.Infof("User created successfully: %s", user.ID)
	return user, nil
}

// GetUser resolves the key as a UUID, an email address or a username.
func (r *UserRepository) GetUser(key string) (*models.User, error) {
	ctx := context.Background()

	if key == "" {
		return nil, errors.New("user key is required")
	}

	keyType, indexName, keyName := r.determineKeyType(key)

	if keyType == "id" {
		user := models.User{}
		config := models.QueryConfig{
			TableName: r.config.DynamoDBTablePrefix + "_users",
			KeyName:   "id",
			KeyValue:  key,
			KeyType:   models.StringType,
		}

		err := r.db.GetItem(ctx, config, &user)
		if err != nil {
			r.logger.Errorf("Failed to get user by id: %v", err)
			return nil, fmt.Errorf("failed to get user by id: %w", err)
		}

		if user.ID == "" {
			return nil, errors.New("user not found")
		}
		return &user, nil
	}

	var users []*models.User
	err := r.db.QueryByIndex(ctx, r.config.DynamoDBTablePrefix+"_users", indexName, keyName, key, &users)
	if err != nil {
		r.logger.Errorf("Failed to get user by %s: %v", keyName, err)
		return nil, fmt.Errorf("failed to get user by %s: %w", keyName, err)
	}

	if len(users) == 0 || users[0].ID == "" {
		return nil, errors.New("user not found")
	}

	return users[0], nil
}

func (r *UserRepository) GetUsers() ([]*models.User, error) {
	ctx := context.Background()

	var users []*models.User
	err := r.db.ScanTable(ctx, r.config.DynamoDBTablePrefix+"_users", &users)
	if err != nil {
		r.logger.Errorf("Failed to scan users: %v", err)
		return nil, err
	}

	r.logger.Infof("Found %d users", len(users))
	return users, nil
}

// UpdateUser applies a partial update. Map keys are storage attribute names.
func (r *UserRepository) UpdateUser(id string, updates map[string]interface{}) (*models.User, error) {
	ctx := context.Background()

	existing, err := r.GetUser(id)
	if err != nil {
		return nil, err
	}

	updates["updated_at"] = time.Now()

	err = r.db.UpdateItem(ctx, r.config.DynamoDBTablePrefix+"_users", "id", existing.ID, updates)
	if err != nil {
		r.logger.Errorf("Failed to update user: %v", err)
		return nil, err
	}

	r.logger.Infof("User updated successfully: %s", existing.ID)
	return r.GetUser(existing.ID)
}

func (r *UserRepository) determineKeyType(key string) (keyType, indexName, keyName string) {
	uuidPattern := `^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`
	isUUID, _ := regexp.MatchString(uuidPattern, strings.ToLower(key))

	if isUUID {
		return "id", "", "id"
	}
	if strings.Contains(key, "@") {
		return "email", "email-index", "email"
	}
	return "username", "username-index", "username"
}
