package user

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmnezziaCS/FitConnect/internal/common"
	"github.com/AmnezziaCS/FitConnect/internal/dbmysql"
)

type fakeUserRepo struct {
	byID    map[string]*dbmysql.User
	byEmail map[string]*dbmysql.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*dbmysql.User),
		byEmail: make(map[string]*dbmysql.User),
	}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, u *dbmysql.User) error {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*dbmysql.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*dbmysql.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) UpdateUser(ctx context.Context, u *dbmysql.User) error {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUserRepo) Search(ctx context.Context, query string) ([]*dbmysql.User, error) {
	var out []*dbmysql.User
	for _, u := range f.byID {
		if strings.Contains(strings.ToLower(u.DisplayName), strings.ToLower(query)) {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeFriendRepo struct {
	links map[string]map[string]bool
}

func newFakeFriendRepo() *fakeFriendRepo {
	return &fakeFriendRepo{links: make(map[string]map[string]bool)}
}

func (f *fakeFriendRepo) link(a, b string) {
	if f.links[a] == nil {
		f.links[a] = make(map[string]bool)
	}
	f.links[a][b] = true
}

func (f *fakeFriendRepo) AddFriend(ctx context.Context, userID, friendID string) error {
	f.link(userID, friendID)
	f.link(friendID, userID)
	return nil
}

func (f *fakeFriendRepo) RemoveFriend(ctx context.Context, userID, friendID string) error {
	delete(f.links[userID], friendID)
	delete(f.links[friendID], userID)
	return nil
}

func (f *fakeFriendRepo) ListFriendIDs(ctx context.Context, userID string) ([]string, error) {
	var out []string
	for id := range f.links[userID] {
		out = append(out, id)
	}
	return out, nil
}

func (f *fakeFriendRepo) ListFriends(ctx context.Context, userID string) ([]*dbmysql.User, error) {
	ids, _ := f.ListFriendIDs(ctx, userID)
	out := make([]*dbmysql.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, &dbmysql.User{ID: id})
	}
	return out, nil
}

type fakeDeviceRepo struct {
	tokens map[string]string // token -> user
}

func (f *fakeDeviceRepo) CreateOrUpdate(ctx context.Context, userID, deviceToken, platform string) error {
	if f.tokens == nil {
		f.tokens = make(map[string]string)
	}
	f.tokens[deviceToken] = userID
	return nil
}

func (f *fakeDeviceRepo) ActiveByUserID(ctx context.Context, userID string) ([]*dbmysql.Device, error) {
	return nil, nil
}

func (f *fakeDeviceRepo) UpdateTokenStatus(ctx context.Context, token string, isActive bool) error {
	return nil
}

func (f *fakeDeviceRepo) DeleteToken(ctx context.Context, token string) error {
	return nil
}

func newTestUserService() (UserService, *fakeUserRepo, *fakeFriendRepo) {
	users := newFakeUserRepo()
	friends := newFakeFriendRepo()
	tokens := common.NewTokenManager("test-secret", time.Hour)
	svc := NewUserService(users, friends, &fakeDeviceRepo{}, tokens)
	return svc, users, friends
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestUserService()
	ctx := context.Background()

	u, token, err := svc.Register(ctx, "Alice@Example.com", "secret123", "Alice")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice@example.com", u.Email, "email is normalized")
	assert.NotEqual(t, "secret123", u.PasswordHash)

	logged, token, err := svc.Login(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)
	assert.NotEmpty(t, token)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestUserService()
	ctx := context.Background()

	tests := []struct {
		name        string
		email       string
		password    string
		displayName string
	}{
		{"missing email", "", "secret123", "Alice"},
		{"bad email", "not-an-email", "secret123", "Alice"},
		{"short password", "a@b.fr", "short", "Alice"},
		{"missing display name", "a@b.fr", "secret123", "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tt.email, tt.password, tt.displayName)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestUserService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "a@b.fr", "secret123", "Alice")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "a@b.fr", "secret456", "Imposter")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestLoginWrongPasswordIsUnauthorized(t *testing.T) {
	svc, _, _ := newTestUserService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "a@b.fr", "secret123", "Alice")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "a@b.fr", "wrong-password")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	// unknown account reads the same as a wrong password
	_, _, err = svc.Login(ctx, "ghost@b.fr", "whatever")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestAddFriendRejectsSelfAndUnknownUsers(t *testing.T) {
	svc, _, _ := newTestUserService()
	ctx := context.Background()

	alice, _, err := svc.Register(ctx, "a@b.fr", "secret123", "Alice")
	require.NoError(t, err)

	err = svc.AddFriend(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, common.ErrValidation)

	err = svc.AddFriend(ctx, alice.ID, "ghost")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAddAndRemoveFriendIsSymmetric(t *testing.T) {
	svc, _, _ := newTestUserService()
	ctx := context.Background()

	alice, _, err := svc.Register(ctx, "a@b.fr", "secret123", "Alice")
	require.NoError(t, err)
	bob, _, err := svc.Register(ctx, "b@b.fr", "secret123", "Bob")
	require.NoError(t, err)

	require.NoError(t, svc.AddFriend(ctx, alice.ID, bob.ID))

	aliceFriends, err := svc.GetFriendIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, aliceFriends)

	bobFriends, err := svc.GetFriendIDs(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID}, bobFriends)

	require.NoError(t, svc.RemoveFriend(ctx, alice.ID, bob.ID))
	aliceFriends, err = svc.GetFriendIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, aliceFriends)
}

func TestUpdateProfileAppliesOnlyProvidedFields(t *testing.T) {
	svc, users, _ := newTestUserService()
	ctx := context.Background()

	alice, _, err := svc.Register(ctx, "a@b.fr", "secret123", "Alice")
	require.NoError(t, err)

	bio := "course à pied le dimanche"
	require.NoError(t, svc.UpdateProfile(ctx, alice.ID, ProfileUpdate{Bio: &bio}))

	stored, err := users.GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.DisplayName, "unset fields stay untouched")
	require.NotNil(t, stored.Bio)
	assert.Equal(t, bio, *stored.Bio)
}

func TestUpdateTotalStepsRejectsNegative(t *testing.T) {
	svc, _, _ := newTestUserService()
	ctx := context.Background()

	alice, _, err := svc.Register(ctx, "a@b.fr", "secret123", "Alice")
	require.NoError(t, err)

	err = svc.UpdateTotalSteps(ctx, alice.ID, -10)
	assert.ErrorIs(t, err, common.ErrValidation)

	require.NoError(t, svc.UpdateTotalSteps(ctx, alice.ID, 12000))
	stored, err := svc.GetProfile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12000), stored.TotalSteps)
}
