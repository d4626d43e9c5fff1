package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/impresos/internal/application/dto"
	"github.com/jhoicas/impresos/internal/domain"
	"github.com/jhoicas/impresos/internal/domain/entity"
	"github.com/jhoicas/impresos/pkg/jwt"
)

type fakeUsers struct {
	users map[string]*entity.User
	err   error
}

func (f fakeUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[email], nil
}

func newUseCase(t *testing.T, status string) *AuthUseCase {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)
	users := fakeUsers{users: map[string]*entity.User{
		"ana@impresos.test": {
			ID: "user-1", CompanyID: "company-1", Email: "ana@impresos.test",
			PasswordHash: string(hash), Name: "Ana", Role: entity.RoleVendedor, Status: status,
		},
	}}
	return NewAuthUseCase(users, JWTConfig{Secret: "test-secret", ExpMinutes: 5, Issuer: "impresos"})
}

func TestLogin_OK(t *testing.T) {
	uc := newUseCase(t, "active")

	resp, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@impresos.test", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", resp.User.ID)
	assert.Equal(t, entity.RoleVendedor, resp.User.Role)

	userID, companyID, role, err := jwt.Parse("test-secret", resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "company-1", companyID)
	assert.Equal(t, entity.RoleVendedor, role)
}

func TestLogin_Errors(t *testing.T) {
	active := newUseCase(t, "active")
	inactive := newUseCase(t, "inactive")

	tests := []struct {
		name string
		uc   *AuthUseCase
		in   dto.LoginRequest
		want error
	}{
		{"sin datos", active, dto.LoginRequest{}, domain.ErrInvalidInput},
		{"usuario inexistente", active, dto.LoginRequest{Email: "x@impresos.test", Password: "secreto123"}, domain.ErrUserNotFound},
		{"password incorrecta", active, dto.LoginRequest{Email: "ana@impresos.test", Password: "otra"}, domain.ErrUnauthorized},
		{"usuario inactivo", inactive, dto.LoginRequest{Email: "ana@impresos.test", Password: "secreto123"}, domain.ErrForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.uc.Login(context.Background(), tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLogin_RepositoryError(t *testing.T) {
	boom := errors.New("conexión perdida")
	uc := NewAuthUseCase(fakeUsers{err: boom}, JWTConfig{Secret: "s"})

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "a@b.c", Password: "p"})
	assert.ErrorIs(t, err, boom)
}
