package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"optimapricer/internal/model"
	repoMocks "optimapricer/internal/repository/mocks"
)

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		mRepo.On("FindByEmail", ctx, "new@example.com").Return(nil, sql.ErrNoRows)
		mRepo.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
			hashOK := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("s3cretpass")) == nil
			return u.ID != "" && u.Email == "new@example.com" && hashOK
		})).Return(&model.User{ID: "user-1", Email: "new@example.com", Name: "Merchant"}, nil)

		svc := NewAuthService(mRepo)
		u, err := svc.Register(ctx, RegisterInput{Email: "new@example.com", Password: "s3cretpass", Name: "Merchant"})

		assert.NoError(t, err)
		assert.Equal(t, "user-1", u.ID)
		mRepo.AssertExpectations(t)
	})

	t.Run("email taken", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		mRepo.On("FindByEmail", ctx, "taken@example.com").
			Return(&model.User{ID: "user-1"}, nil)

		svc := NewAuthService(mRepo)
		u, err := svc.Register(ctx, RegisterInput{Email: "taken@example.com", Password: "s3cretpass"})

		assert.ErrorIs(t, err, ErrEmailTaken)
		assert.Nil(t, u)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cretpass"), bcrypt.MinCost)
	assert.NoError(t, err)
	stored := &model.User{ID: "user-1", Email: "merchant@example.com", Password: string(hash)}

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		mRepo.On("FindByEmail", ctx, "merchant@example.com").Return(stored, nil)

		svc := NewAuthService(mRepo)
		u, err := svc.Login(ctx, "merchant@example.com", "s3cretpass")

		assert.NoError(t, err)
		assert.Equal(t, "user-1", u.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		mRepo.On("FindByEmail", ctx, "merchant@example.com").Return(stored, nil)

		svc := NewAuthService(mRepo)
		u, err := svc.Login(ctx, "merchant@example.com", "wrong")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Nil(t, u)
	})

	t.Run("unknown email", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		mRepo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, sql.ErrNoRows)

		svc := NewAuthService(mRepo)
		u, err := svc.Login(ctx, "ghost@example.com", "s3cretpass")

		// Same error as a bad password so the response does not leak
		// whether the account exists.
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Nil(t, u)
	})
}

func TestAuthService_GetUser(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		mRepo.On("FindByID", ctx, "user-1").Return(&model.User{ID: "user-1"}, nil)

		svc := NewAuthService(mRepo)
		u, err := svc.GetUser(ctx, "user-1")

		assert.NoError(t, err)
		assert.Equal(t, "user-1", u.ID)
	})

	t.Run("missing", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		mRepo.On("FindByID", ctx, "ghost").Return(nil, sql.ErrNoRows)

		svc := NewAuthService(mRepo)
		_, err := svc.GetUser(ctx, "ghost")

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty id", func(t *testing.T) {
		svc := NewAuthService(new(repoMocks.MockUserRepository))
		_, err := svc.GetUser(ctx, "")
		assert.ErrorIs(t, err, ErrIDRequired)
	})
}
