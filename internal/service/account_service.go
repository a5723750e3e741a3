package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Sachinsen7/grin/internal/middleware"
	"github.com/Sachinsen7/grin/internal/model"
	"github.com/Sachinsen7/grin/internal/repository"
	"github.com/Sachinsen7/grin/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
	bcryptCost      = 12
)

// DTOs for request validation
type SignupRequest struct {
	Name     string `json:"name" binding:"omitempty,max=100"`
	Username string `json:"username" binding:"required,alphanum,min=3,max=30"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"-"` // cookie only, never in the body
}

// AccountResponse returns an account without its credential hash.
type AccountResponse struct {
	ID        uuid.UUID `json:"_id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// AccountService holds the per-role signup/login/list/delete operations and
// refresh token handling.
type AccountService interface {
	Signup(ctx context.Context, role string, req SignupRequest) error
	Login(ctx context.Context, role string, req LoginRequest) (*LoginResult, error)
	List(ctx context.Context, role string) ([]AccountResponse, error)
	Delete(ctx context.Context, role, id string) error
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

type accountService struct {
	repo repository.AccountRepository
}

// NewAccountService returns a new instance of AccountService.
func NewAccountService(repo repository.AccountRepository) AccountService {
	return &accountService{repo: repo}
}

func requireRoleName(role string) error {
	if !model.ValidRole(role) {
		return apperror.BadRequest("Unknown role: " + role)
	}
	return nil
}

func (s *accountService) Signup(ctx context.Context, role string, req SignupRequest) error {
	if err := requireRoleName(role); err != nil {
		return err
	}

	if _, err := s.repo.FindByUsername(ctx, role, req.Username); err == nil {
		return apperror.New("User already exists", http.StatusBadRequest, apperror.CodeUserExists)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return err
	}

	account := &model.Account{
		Name:     req.Name,
		Username: req.Username,
		Role:     role,
		Password: string(hashed),
	}
	if err := s.repo.Create(ctx, account); err != nil {
		// A concurrent signup for the same role and username lands on the
		// composite unique index instead of the existence check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.New("User already exists", http.StatusBadRequest, apperror.CodeUserExists)
		}
		return err
	}

	logrus.WithFields(logrus.Fields{"role": role, "username": req.Username}).Info("account created")
	return nil
}

func (s *accountService) Login(ctx context.Context, role string, req LoginRequest) (*LoginResult, error) {
	if err := requireRoleName(role); err != nil {
		return nil, err
	}

	// Identical failure for unknown username and wrong password: no
	// user-existence disclosure.
	invalid := apperror.New("Invalid username or password", http.StatusUnauthorized, apperror.CodeAuthBadCredentials)

	account, err := s.repo.FindByUsername(ctx, role, req.Username)
	if err != nil {
		return nil, invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)); err != nil {
		return nil, invalid
	}

	accessToken, err := signToken(account.ID.String(), role, accessTokenTTL, middleware.GetJWTSecret())
	if err != nil {
		return nil, err
	}
	refreshToken, err := signToken(account.ID.String(), role, refreshTokenTTL, middleware.GetRefreshSecret())
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"role": role, "username": req.Username}).Info("login succeeded")
	return &LoginResult{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *accountService) List(ctx context.Context, role string) ([]AccountResponse, error) {
	if err := requireRoleName(role); err != nil {
		return nil, err
	}

	accounts, err := s.repo.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}

	responses := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		responses = append(responses, AccountResponse{
			ID:        a.ID,
			Name:      a.Name,
			Username:  a.Username,
			CreatedAt: a.CreatedAt,
		})
	}
	return responses, nil
}

func (s *accountService) Delete(ctx context.Context, role, id string) error {
	if err := requireRoleName(role); err != nil {
		return err
	}

	accountID, err := uuid.Parse(id)
	if err != nil {
		return apperror.NotFound("User not found")
	}

	deleted, err := s.repo.Delete(ctx, role, accountID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return apperror.NotFound("User not found")
	}

	logrus.WithFields(logrus.Fields{"role": role, "id": id}).Info("account deleted")
	return nil
}

func (s *accountService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return middleware.GetRefreshSecret(), nil
	})
	if err != nil || !token.Valid {
		return "", apperror.New("Forbidden: Invalid refresh token", http.StatusForbidden, apperror.CodeAuthInvalidToken)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperror.New("Forbidden: Invalid refresh token", http.StatusForbidden, apperror.CodeAuthInvalidToken)
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)

	accountID, err := uuid.Parse(sub)
	if err != nil {
		return "", apperror.New("Forbidden: Invalid refresh token", http.StatusForbidden, apperror.CodeAuthInvalidToken)
	}

	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperror.New("Forbidden: User not found", http.StatusForbidden, apperror.CodeAuthUserNotFound)
		}
		return "", err
	}

	accessToken, err := signToken(account.ID.String(), role, accessTokenTTL, middleware.GetJWTSecret())
	if err != nil {
		return "", err
	}

	logrus.WithFields(logrus.Fields{"role": role, "id": sub}).Info("access token refreshed")
	return accessToken, nil
}

func signToken(subject, role string, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}
