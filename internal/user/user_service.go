package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/AmnezziaCS/FitConnect/internal/common"
	"github.com/AmnezziaCS/FitConnect/internal/dbmysql"
)

// ProfileUpdate carries the optional profile fields; nil means unchanged.
type ProfileUpdate struct {
	DisplayName   *string
	Bio           *string
	FavoriteSport *string
	PhotoURL      *string
}

// UserService is the user directory: identity, profiles, friends, device
// tokens.
type UserService interface {
	Register(ctx context.Context, email, password, displayName string) (*dbmysql.User, string, error)
	Login(ctx context.Context, email, password string) (*dbmysql.User, string, error)
	GetProfile(ctx context.Context, userID string) (*dbmysql.User, error)
	Search(ctx context.Context, query string) ([]*dbmysql.User, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) error
	UpdateTotalSteps(ctx context.Context, userID string, steps int64) error
	AddFriend(ctx context.Context, userID, friendID string) error
	RemoveFriend(ctx context.Context, userID, friendID string) error
	GetFriends(ctx context.Context, userID string) ([]*dbmysql.User, error)
	GetFriendIDs(ctx context.Context, userID string) ([]string, error)
	RegisterDevice(ctx context.Context, userID, deviceToken, platform string) error
}

type userService struct {
	users   UserRepository
	friends FriendRepository
	devices DeviceRepository
	tokens  *common.TokenManager
}

func NewUserService(
	users UserRepository,
	friends FriendRepository,
	devices DeviceRepository,
	tokens *common.TokenManager,
) UserService {
	return &userService{
		users:   users,
		friends: friends,
		devices: devices,
		tokens:  tokens,
	}
}

// Register creates the user record on first authentication, the way the
// mobile client did on sign-up.
func (s *userService) Register(ctx context.Context, email, password, displayName string) (*dbmysql.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("email is required: %w", common.ErrValidation)
	}
	if len(password) < 8 {
		return nil, "", fmt.Errorf("password must be at least 8 characters: %w", common.ErrValidation)
	}
	if strings.TrimSpace(displayName) == "" {
		return nil, "", fmt.Errorf("display name is required: %w", common.ErrValidation)
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, "", fmt.Errorf("email already registered: %w", common.ErrValidation)
	}

	hash, err := common.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	u := &dbmysql.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(displayName),
		TotalSteps:   0,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return u, token, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*dbmysql.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", common.ErrUnauthorized)
	}
	if err := common.CheckPassword(password, u.PasswordHash); err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", common.ErrUnauthorized)
	}

	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return u, token, nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*dbmysql.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", common.ErrValidation)
	}
	return s.users.GetUserByID(ctx, userID)
}

func (s *userService) Search(ctx context.Context, query string) ([]*dbmysql.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*dbmysql.User{}, nil
	}
	return s.users.Search(ctx, query)
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) error {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if update.DisplayName != nil && strings.TrimSpace(*update.DisplayName) != "" {
		u.DisplayName = strings.TrimSpace(*update.DisplayName)
	}
	if update.Bio != nil {
		u.Bio = update.Bio
	}
	if update.FavoriteSport != nil {
		u.FavoriteSport = update.FavoriteSport
	}
	if update.PhotoURL != nil {
		u.PhotoURL = update.PhotoURL
	}

	return s.users.UpdateUser(ctx, u)
}

func (s *userService) UpdateTotalSteps(ctx context.Context, userID string, steps int64) error {
	if steps < 0 {
		return fmt.Errorf("steps cannot be negative: %w", common.ErrValidation)
	}
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	u.TotalSteps = steps
	return s.users.UpdateUser(ctx, u)
}

func (s *userService) AddFriend(ctx context.Context, userID, friendID string) error {
	if userID == friendID {
		return fmt.Errorf("cannot befriend yourself: %w", common.ErrValidation)
	}
	// both users must exist before linking them
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return err
	}
	if _, err := s.users.GetUserByID(ctx, friendID); err != nil {
		return err
	}
	return s.friends.AddFriend(ctx, userID, friendID)
}

func (s *userService) RemoveFriend(ctx context.Context, userID, friendID string) error {
	if userID == friendID {
		return fmt.Errorf("cannot unfriend yourself: %w", common.ErrValidation)
	}
	return s.friends.RemoveFriend(ctx, userID, friendID)
}

func (s *userService) GetFriends(ctx context.Context, userID string) ([]*dbmysql.User, error) {
	return s.friends.ListFriends(ctx, userID)
}

func (s *userService) GetFriendIDs(ctx context.Context, userID string) ([]string, error) {
	return s.friends.ListFriendIDs(ctx, userID)
}

func (s *userService) RegisterDevice(ctx context.Context, userID, deviceToken, platform string) error {
	if deviceToken == "" {
		return fmt.Errorf("device token is required: %w", common.ErrValidation)
	}
	return s.devices.CreateOrUpdate(ctx, userID, deviceToken, platform)
}
