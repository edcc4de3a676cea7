package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Ventas-api/internal/application/auth"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Ventas-api/pkg/jwt"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

const secret = "test-secret"

func newAuth(t *testing.T, active bool) (*auth.AuthUseCase, *entity.User) {
	t.Helper()
	st := memory.NewStore()
	hash, err := bcrypt.GenerateFromPassword([]byte("clave-segura"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.User{Username: "Ana", FirstName: "Ana", LastName: "Pérez", PasswordHash: string(hash), Role: entity.RoleAsesor, Active: active}
	require.NoError(t, st.Users().Create(context.Background(), u))
	uc := auth.NewAuthUseCase(st.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "ventas-api"}, logger.Nop())
	return uc, u
}

func TestLogin_OK(t *testing.T) {
	uc, u := newAuth(t, true)

	res, err := uc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)
	assert.Equal(t, "Ana Pérez", res.User.FullName)

	claims, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, entity.RoleAsesor, claims.Role)
	assert.Equal(t, "Ana", claims.Username)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _ := newAuth(t, true)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_UsuarioDeshabilitado(t *testing.T) {
	uc, _ := newAuth(t, false)
	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrInactiveUser)
}

func TestMe(t *testing.T) {
	uc, u := newAuth(t, true)
	me, err := uc.Me(context.Background(), entity.Actor{UserID: u.ID, Role: u.Role})
	require.NoError(t, err)
	assert.Equal(t, "Ana", me.Username)

	_, err = uc.Me(context.Background(), entity.Actor{UserID: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
