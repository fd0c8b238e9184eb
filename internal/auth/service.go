package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/churchflow/churchflow-backend/config"
	"github.com/churchflow/churchflow-backend/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
)

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Service interface {
	Register(input RegisterInput) (*User, error)
	Login(input LoginInput) (*TokenPair, *User, error)
	Refresh(refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
	GetUserByID(userID string) (User, error)
	GetUsersByIDs(userIDs []string) (map[string]User, error)
}

type service struct {
	repo          Repository
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewService(r Repository, cfg *config.Config) Service {
	return &service{
		repo:          r,
		accessSecret:  cfg.JWTAccessSecret,
		refreshSecret: cfg.JWTRefreshSecret,
		accessTTL:     time.Duration(cfg.JWTAccessTTLHours) * time.Hour,
		refreshTTL:    time.Duration(cfg.JWTRefreshTTLHours) * time.Hour,
	}
}

// =============================
// Register
// =============================

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

func (s *service) Register(in RegisterInput) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if existing, err := s.repo.FindByEmail(email); err == nil && existing.ID != "" {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// Everyone self-registers as a member; admins are seeded or promoted
	// out of band.
	user := &User{
		Email:        email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         RoleUser,
		PasswordHash: string(hash),
	}

	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// =============================
// Login
// =============================

type LoginInput struct {
	Email    string
	Password string
}

func (s *service) Login(in LoginInput) (*TokenPair, *User, error) {
	user, err := s.repo.FindByEmail(strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	access, err := s.signAccessToken(user)
	if err != nil {
		return nil, nil, err
	}

	tokenID := uuid.NewString()
	refresh, err := s.signRefreshToken(user.ID, tokenID)
	if err != nil {
		return nil, nil, err
	}

	// Refresh tokens live in Redis so logout actually revokes them
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := utils.CacheSet(ctx, refreshKey(tokenID), user.ID, s.refreshTTL); err != nil {
		return nil, nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, user, nil
}

// =============================
// Refresh / Logout
// =============================

func (s *service) Refresh(refreshToken string) (string, error) {
	userID, tokenID, err := s.parseRefreshToken(refreshToken)
	if err != nil {
		return "", ErrInvalidToken
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	stored, err := utils.CacheGet(ctx, refreshKey(tokenID))
	if err != nil || stored != userID {
		return "", ErrInvalidToken
	}

	user, err := s.repo.FindByID(userID)
	if err != nil {
		return "", ErrUserNotFound
	}
	return s.signAccessToken(&user)
}

func (s *service) Logout(ctx context.Context, refreshToken string) error {
	_, tokenID, err := s.parseRefreshToken(refreshToken)
	if err != nil {
		return ErrInvalidToken
	}
	return utils.CacheDel(ctx, refreshKey(tokenID))
}

func (s *service) GetUserByID(userID string) (User, error) {
	return s.repo.FindByID(userID)
}

// GetUsersByIDs resolves users keyed by ID for conflict-list display
func (s *service) GetUsersByIDs(userIDs []string) (map[string]User, error) {
	users, err := s.repo.FindByIDs(userIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

// =============================
// Token helpers
// =============================

func refreshKey(tokenID string) string {
	return "auth:refresh:" + tokenID
}

func (s *service) signAccessToken(user *User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(s.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.accessSecret))
}

func (s *service) signRefreshToken(userID, tokenID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"token_id": tokenID,
		"exp":      time.Now().Add(s.refreshTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.refreshSecret))
}

func (s *service) parseRefreshToken(refreshToken string) (userID, tokenID string, err error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.refreshSecret), nil
	})
	if err != nil || !token.Valid {
		return "", "", ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrInvalidToken
	}
	userID, _ = claims["user_id"].(string)
	tokenID, _ = claims["token_id"].(string)
	if userID == "" || tokenID == "" {
		return "", "", ErrInvalidToken
	}
	return userID, tokenID, nil
}

// =============================
// Admin seeding
// =============================

// SeedAdminUser creates the initial admin from ADMIN_EMAIL/ADMIN_PASSWORD
// when the users table is empty
func SeedAdminUser(db *gorm.DB) error {
	email := strings.ToLower(os.Getenv("ADMIN_EMAIL"))
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var count int64
	if err := db.Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &User{
		Email:        email,
		FirstName:    "ChurchFlow",
		LastName:     "Admin",
		Role:         RoleAdmin,
		PasswordHash: string(hash),
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}
	log.Printf("✅ Seeded admin user %s", email)
	return nil
}
