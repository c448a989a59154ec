package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/sportsys/tournament-admin/models"
	"github.com/sportsys/tournament-admin/repositories"
	"github.com/sportsys/tournament-admin/utils"
)

const (
	minPasswordLength = 8
	tokenTTL          = 24 * time.Hour
)

type RegisterAdminInput struct {
	Username string           `json:"username"`
	Email    string           `json:"email"`
	Password string           `json:"password"`
	Role     models.AdminRole `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminClaims — полезная нагрузка токена доступа. Поля сверх
// RegisteredClaims читает middleware авторизации.
type AdminClaims struct {
	AdminID int              `json:"id"`
	Role    models.AdminRole `json:"role"`
	Email   string           `json:"email"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, input RegisterAdminInput) (*models.Admin, error)
	Login(ctx context.Context, input LoginInput) (*models.Admin, string, error)
	GetAdmin(ctx context.Context, id int) (*models.Admin, error)
	ParseToken(tokenString string) (*AdminClaims, error)
}

type authService struct {
	adminRepo repositories.AdminRepository
	jwtSecret []byte
}

func NewAuthService(adminRepo repositories.AdminRepository, jwtSecret string) AuthService {
	return &authService{adminRepo: adminRepo, jwtSecret: []byte(jwtSecret)}
}

func (s *authService) Register(ctx context.Context, input RegisterAdminInput) (*models.Admin, error) {
	if input.Username == "" || input.Email == "" {
		return nil, fmt.Errorf("%w: username and email are required", ErrValidationFailed)
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	role := input.Role
	if role == "" {
		role = models.RoleEventManager
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := &models.Admin{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrAdminConflict) {
			return nil, ErrAdminConflict
		}
		return nil, err
	}
	admin.PasswordHash = ""
	return admin, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.Admin, string, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			// Одинаковый ответ для неизвестного email и неверного пароля.
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find admin by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(input.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to compare password hash: %w", err)
	}

	token, err := s.issueToken(admin)
	if err != nil {
		return nil, "", err
	}
	admin.PasswordHash = ""
	return admin, token, nil
}

func (s *authService) GetAdmin(ctx context.Context, id int) (*models.Admin, error) {
	admin, err := s.adminRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	admin.PasswordHash = ""
	return admin, nil
}

func (s *authService) issueToken(admin *models.Admin) (string, error) {
	now := time.Now()
	claims := AdminClaims{
		AdminID: admin.ID,
		Role:    admin.Role,
		Email:   admin.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *authService) ParseToken(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}
