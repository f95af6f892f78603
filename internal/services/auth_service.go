package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles business logic for authentication and authorization.
// It issues two token kinds: bearer tokens for accounts, and guest tokens —
// short signed tokens carrying a server-generated guest ID that anonymous
// carts are keyed by. A guest ID is never accepted from the client raw; it
// must arrive inside a token we signed.
type AuthService struct {
	userRepo      repositories.UserRepository
	jwtSecret     []byte
	guestSecret   []byte
	tokenDuration time.Duration
	guestDuration time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret, guestSecret string) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     []byte(jwtSecret),
		guestSecret:   []byte(guestSecret),
		tokenDuration: 24 * time.Hour,
		guestDuration: 30 * 24 * time.Hour,
	}
}

// RegisterUser registers a new customer account, hashing the password
// before storage. Self-registration never grants the admin role.
func (s *AuthService) RegisterUser(user *models.User) error {
	if existingUser, err := s.userRepo.GetByUsername(user.Username); err == nil && existingUser != nil {
		return fmt.Errorf("username %q already taken: %w", user.Username, repositories.ErrConflict)
	}
	if existingUser, err := s.userRepo.GetByEmail(user.Email); err == nil && existingUser != nil {
		return fmt.Errorf("email %q already registered: %w", user.Email, repositories.ErrConflict)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	user.Role = models.RoleCustomer

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// LoginUser authenticates a user and returns a JWT token if successful.
func (s *AuthService) LoginUser(username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		// Do not reveal whether the username exists.
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(s.tokenDuration).Unix(),
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken parses and validates a bearer token, returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	return s.validateHS256(tokenString, s.jwtSecret)
}

// IssueGuestToken mints a fresh guest identity and returns it wrapped in a
// signed token. The guest ID inside is what anonymous carts are keyed by.
func (s *AuthService) IssueGuestToken() (token string, guestID string, err error) {
	guestID = "guest-" + uuid.New().String()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"guest_id": guestID,
		"exp":      time.Now().Add(s.guestDuration).Unix(),
		"iat":      time.Now().Unix(),
	})
	token, err = t.SignedString(s.guestSecret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign guest token: %w", err)
	}
	return token, guestID, nil
}

// ValidateGuestToken checks the signature on a guest token and extracts the
// guest ID.
func (s *AuthService) ValidateGuestToken(tokenString string) (string, error) {
	claims, err := s.validateHS256(tokenString, s.guestSecret)
	if err != nil {
		return "", err
	}
	guestID, ok := claims["guest_id"].(string)
	if !ok || guestID == "" {
		return "", errors.New("invalid token: missing guest_id claim")
	}
	return guestID, nil
}

func (s *AuthService) validateHS256(tokenString string, secret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
