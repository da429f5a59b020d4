package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/gestimo/gestimo-api/internal/config"
	"github.com/gestimo/gestimo-api/internal/middleware"
	"github.com/gestimo/gestimo-api/internal/models"
	"github.com/gestimo/gestimo-api/internal/repository"
)

// AuthService handles authentication operations
type AuthService struct {
	usuarioRepo      repository.UsuarioRepository
	refreshTokenRepo repository.RefreshTokenRepository
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(usuarioRepo repository.UsuarioRepository, rtRepo repository.RefreshTokenRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		usuarioRepo:      usuarioRepo,
		refreshTokenRepo: rtRepo,
		cfg:              cfg,
	}
}

// LoginResult represents the result of a login attempt
type LoginResult struct {
	Token        string                 `json:"token"`
	RefreshToken string                 `json:"refresh_token"`
	Usuario      models.UsuarioResponse `json:"usuario"`
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, email, senha string) (*LoginResult, error) {
	usuario, err := s.usuarioRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrSenhaInvalida
	}

	if !usuario.IsAtivo() {
		return nil, errors.New("conta inativa ou suspensa")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usuario.SenhaCriptografada), []byte(senha)); err != nil {
		return nil, ErrSenhaInvalida
	}

	return s.emitirTokens(ctx, usuario)
}

// RefreshToken validates a refresh token and returns new tokens
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginResult, error) {
	rt, err := s.refreshTokenRepo.FindByToken(ctx, refreshToken)
	if err != nil {
		return nil, errors.New("token inválido")
	}

	if rt.IsExpirado() {
		s.refreshTokenRepo.Delete(ctx, refreshToken)
		return nil, errors.New("token expirado")
	}

	usuario, err := s.usuarioRepo.FindByID(ctx, rt.UsuarioID)
	if err != nil {
		return nil, errors.New("usuário não encontrado")
	}

	if !usuario.IsAtivo() {
		return nil, errors.New("conta inativa ou suspensa")
	}

	// Rotate: the old refresh token is single-use
	s.refreshTokenRepo.Delete(ctx, refreshToken)

	return s.emitirTokens(ctx, usuario)
}

// Logout invalidates a refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.refreshTokenRepo.Delete(ctx, refreshToken)
}

func (s *AuthService) emitirTokens(ctx context.Context, usuario *models.Usuario) (*LoginResult, error) {
	token, err := s.generateJWT(usuario)
	if err != nil {
		return nil, errors.New("erro ao gerar token")
	}

	refreshToken, err := s.generateRefreshToken(ctx, usuario.ID)
	if err != nil {
		return nil, errors.New("erro ao gerar refresh token")
	}

	return &LoginResult{
		Token:        token,
		RefreshToken: refreshToken,
		Usuario:      usuario.ToResponse(),
	}, nil
}

// generateJWT creates a new JWT token for a user
func (s *AuthService) generateJWT(usuario *models.Usuario) (string, error) {
	now := time.Now()
	claims := middleware.Claims{
		UsuarioID: usuario.ID,
		Email:     usuario.Email,
		Perfil:    usuario.Perfil,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// generateRefreshToken creates a new refresh token
func (s *AuthService) generateRefreshToken(ctx context.Context, usuarioID uint) (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(bytes)

	expiraEm := time.Now().Add(30 * 24 * time.Hour)

	rt := &models.RefreshToken{
		UsuarioID: usuarioID,
		Token:     token,
		ExpiraEm:  &expiraEm,
	}

	if err := s.refreshTokenRepo.Create(ctx, rt); err != nil {
		return "", err
	}

	return token, nil
}

// HashPassword hashes a password using bcrypt
func HashPassword(senha string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	return string(bytes), err
}

// VerifyPassword compares a password with a hash
func VerifyPassword(senha, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(senha))
	return err == nil
}
