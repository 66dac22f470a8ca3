package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/arielalcuri/doslidias/internal/config"
	"github.com/arielalcuri/doslidias/internal/dto"
	"github.com/arielalcuri/doslidias/internal/model"
	"github.com/arielalcuri/doslidias/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

func newAuthCfg() *config.Config {
	return &config.Config{JWTSecret: testSecret, JWTExpirationHours: 8, JWTRefreshHours: 24}
}

func seedUsuario(t *testing.T, repo *stubUsuarioRepo, email, password, rol string) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.Usuario{
		ID: uuid.New(), Email: email, Nombre: "Test", PasswordHash: string(hash), Rol: rol, Activo: true,
	}
	repo.users[u.ID] = u
	return u
}

func TestLogin_Success(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUsuario(t, repo, "admin@doslidias.com", "password123", model.RolAdministrador)
	svc := service.NewAuthService(repo, newAuthCfg())

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: "admin@doslidias.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, model.RolAdministrador, resp.User.Rol)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUsuario(t, repo, "ana@example.com", "correctpass", model.RolCliente)
	svc := service.NewAuthService(repo, newAuthCfg())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: "wrongpass"})
	assert.Equal(t, service.KindUnauthorized, service.KindOf(err))

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "nadie@example.com", Password: "whatever"})
	assert.Equal(t, service.KindUnauthorized, service.KindOf(err))
}

func TestRegistrar_CreatesCliente(t *testing.T) {
	repo := newStubUsuarioRepo()
	svc := service.NewAuthService(repo, newAuthCfg())

	resp, err := svc.Registrar(context.Background(), dto.RegistroRequest{
		Email: " Lucia@Example.com ", Password: "supersecreta", Nombre: "Lucía", Apellido: "Ruiz",
	})
	require.NoError(t, err)
	assert.Equal(t, "lucia@example.com", resp.User.Email)
	assert.Equal(t, model.RolCliente, resp.User.Rol)
	assert.Equal(t, "DNI", resp.User.TipoDocumento)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "lucia@example.com", Password: "supersecreta"})
	assert.NoError(t, err)
}

func TestRegistrar_DuplicateEmail(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUsuario(t, repo, "ana@example.com", "password123", model.RolCliente)
	svc := service.NewAuthService(repo, newAuthCfg())

	_, err := svc.Registrar(context.Background(), dto.RegistroRequest{
		Email: "ana@example.com", Password: "otraclave1", Nombre: "Ana", Apellido: "Paz",
	})
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestRefresh(t *testing.T) {
	repo := newStubUsuarioRepo()
	u := seedUsuario(t, repo, "ana@example.com", "password123", model.RolCliente)
	svc := service.NewAuthService(repo, newAuthCfg())

	login, err := svc.Login(context.Background(), dto.LoginRequest{Email: u.Email, Password: "password123"})
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), resp.User.ID)

	_, err = svc.Refresh(context.Background(), "this.is.garbage")
	assert.Equal(t, service.KindUnauthorized, service.KindOf(err))
}

func TestRefresh_ExpiredToken(t *testing.T) {
	repo := newStubUsuarioRepo()
	u := seedUsuario(t, repo, "ana@example.com", "password123", model.RolCliente)
	svc := service.NewAuthService(repo, newAuthCfg())

	claims := jwt.MapClaims{
		"user_id": u.ID.String(), "email": u.Email, "rol": u.Rol,
		"exp": time.Now().Add(-time.Second).Unix(), "iat": time.Now().Add(-time.Hour).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), tok)
	assert.Equal(t, service.KindUnauthorized, service.KindOf(err))
}

func TestMe(t *testing.T) {
	repo := newStubUsuarioRepo()
	u := seedUsuario(t, repo, "ana@example.com", "password123", model.RolCliente)
	svc := service.NewAuthService(repo, newAuthCfg())

	me, err := svc.Me(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, me.Email)

	_, err = svc.Me(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}
