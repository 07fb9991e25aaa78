package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tiendapos/pos/internal/platform/httpx"
)

type memoryRepo struct {
	users  map[int64]User
	hashes map[int64]string
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: map[int64]User{}, hashes: map[int64]string{}}
}

func (r *memoryRepo) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	for id := int64(1); id <= r.nextID; id++ {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memoryRepo) CreateUser(ctx context.Context, username, fullName, hash string) (int64, error) {
	for _, u := range r.users {
		if u.Username == username {
			return 0, ErrDuplicateUsername
		}
	}
	r.nextID++
	r.users[r.nextID] = User{ID: r.nextID, Username: username, FullName: fullName}
	r.hashes[r.nextID] = hash
	return r.nextID, nil
}

func (r *memoryRepo) GetUser(ctx context.Context, id int64) (User, error) {
	u, ok := r.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (r *memoryRepo) DeleteUser(ctx context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func newTestService(repo *memoryRepo) *Service {
	return NewService(repo, ServiceConfig{ProtectedUsername: "admin", BcryptCost: bcrypt.MinCost})
}

func TestCreateUserHashesPassword(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	user, err := svc.CreateUser(context.Background(), CreateUserInput{Username: " cajero1 ", FullName: "Caja Uno", Password: "s3creto"})
	require.NoError(t, err)
	require.Equal(t, "cajero1", user.Username)
	require.NotEqual(t, "s3creto", repo.hashes[user.ID])
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.hashes[user.ID]), []byte("s3creto")))
}

func TestCreateUserRejectsDuplicatesAndMissingFields(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserInput{Username: "cajero1", FullName: "Caja Uno", Password: "s3creto"})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, CreateUserInput{Username: "cajero1", FullName: "Otra", Password: "s3creto"})
	require.ErrorIs(t, err, ErrDuplicateUsername)
	require.ErrorIs(t, err, httpx.ErrDuplicate)

	_, err = svc.CreateUser(ctx, CreateUserInput{Username: "cajero2", Password: "s3creto"})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.CreateUser(ctx, CreateUserInput{Username: "cajero2", FullName: "Caja Dos"})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestDeleteUserProtectsAdministrator(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	admin, err := svc.CreateUser(ctx, CreateUserInput{Username: "admin", FullName: "Administrador", Password: "cambiar123"})
	require.NoError(t, err)
	clerk, err := svc.CreateUser(ctx, CreateUserInput{Username: "cajero", FullName: "Cajero", Password: "cambiar123"})
	require.NoError(t, err)

	err = svc.DeleteUser(ctx, admin.ID)
	require.ErrorIs(t, err, ErrProtectedUser)
	require.ErrorIs(t, err, httpx.ErrForbidden)
	require.Contains(t, repo.users, admin.ID)

	require.NoError(t, svc.DeleteUser(ctx, clerk.ID))
	require.ErrorIs(t, svc.DeleteUser(ctx, clerk.ID), ErrUserNotFound)
	require.ErrorIs(t, svc.DeleteUser(ctx, 0), httpx.ErrValidation)
}

func TestListUsersNeverNil(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.NotNil(t, users)
	require.Empty(t, users)
}
