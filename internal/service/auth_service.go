package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/arielalcuri/doslidias/internal/config"
	"github.com/arielalcuri/doslidias/internal/dto"
	"github.com/arielalcuri/doslidias/internal/model"
	"github.com/arielalcuri/doslidias/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

var errCredenciales = &Error{Kind: KindUnauthorized, Msg: "credenciales invalidas"}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	// Registrar creates a storefront customer account and signs it in.
	Registrar(ctx context.Context, req dto.RegistroRequest) (*dto.LoginResponse, error)
	Me(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error)
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, errCredenciales
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errCredenciales
	}
	return s.tokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, &Error{Kind: KindUnauthorized, Msg: "refresh token invalido o expirado"}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, &Error{Kind: KindUnauthorized, Msg: "claims invalidos"}
	}
	userIDStr, _ := claims["user_id"].(string)
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, &Error{Kind: KindUnauthorized, Msg: "token mal formado"}
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Activo {
		return nil, &Error{Kind: KindUnauthorized, Msg: "usuario no encontrado o inactivo"}
	}
	return s.tokens(user)
}

func (s *authService) Registrar(ctx context.Context, req dto.RegistroRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, &Error{Kind: KindConflict, Msg: "Ya existe una cuenta con ese email"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storageErr("no se pudo verificar el email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	tipo := req.TipoDocumento
	if tipo == "" {
		tipo = "DNI"
	}
	user := &model.Usuario{
		Email:           email,
		Nombre:          strings.TrimSpace(req.Nombre),
		Apellido:        strings.TrimSpace(req.Apellido),
		Telefono:        strings.TrimSpace(req.Telefono),
		Direccion:       strings.TrimSpace(req.Direccion),
		TipoDocumento:   tipo,
		NumeroDocumento: strings.TrimSpace(req.NumeroDocumento),
		PasswordHash:    string(hash),
		Rol:             model.RolCliente,
		Activo:          true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, storageErr("no se pudo crear la cuenta", err)
	}
	return s.tokens(user)
}

func (s *authService) Me(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundf("Usuario no encontrado")
	}
	if err != nil {
		return nil, storageErr("no se pudo leer el usuario", err)
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) tokens(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         usuarioToResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"rol":     user.Rol,
		"exp":     time.Now().Add(duration).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:              u.ID.String(),
		Email:           u.Email,
		Nombre:          u.Nombre,
		Apellido:        u.Apellido,
		Telefono:        u.Telefono,
		Direccion:       u.Direccion,
		TipoDocumento:   u.TipoDocumento,
		NumeroDocumento: u.NumeroDocumento,
		Rol:             u.Rol,
	}
}
