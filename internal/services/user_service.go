package services

import (
	"errors"
	"fmt"
	"log"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// UserUpdate carries a partial admin edit of an account. Empty fields are
// left unchanged.
type UserUpdate struct {
	Username string `json:"username" validate:"omitempty,min=3,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=customer admin"`
}

// UserService is the admin-facing account management surface.
type UserService struct {
	userRepo repositories.UserRepository
	cartRepo repositories.CartRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, cartRepo repositories.CartRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		cartRepo: cartRepo,
	}
}

// ListUsers returns every account.
func (s *UserService) ListUsers() ([]models.User, error) {
	return s.userRepo.GetAll()
}

// GetUser returns one account by ID.
func (s *UserService) GetUser(id string) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// CreateUser creates an account with an admin-chosen role, hashing the
// password before storage. A taken email is a conflict.
func (s *UserService) CreateUser(user *models.User) error {
	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return fmt.Errorf("email %q already registered: %w", user.Email, repositories.ErrConflict)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}

	return s.userRepo.Create(user)
}

// UpdateUser applies a partial edit. Email uniqueness is re-checked only
// when the email actually changes; a supplied password is re-hashed.
func (s *UserService) UpdateUser(id string, update UserUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if update.Email != "" && update.Email != user.Email {
		if existing, lookupErr := s.userRepo.GetByEmail(update.Email); lookupErr == nil && existing != nil {
			return nil, fmt.Errorf("email %q already registered: %w", update.Email, repositories.ErrConflict)
		} else if lookupErr != nil && !errors.Is(lookupErr, repositories.ErrNotFound) {
			return nil, lookupErr
		}
		user.Email = update.Email
	}
	if update.Username != "" {
		user.Username = update.Username
	}
	if update.Role != "" {
		user.Role = update.Role
	}
	if update.Password != "" {
		hashedPassword, hashErr := bcrypt.GenerateFromPassword([]byte(update.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, fmt.Errorf("failed to hash password: %w", hashErr)
		}
		user.Password = string(hashedPassword)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes an account and its carts. Orders are kept as
// historical records.
func (s *UserService) DeleteUser(id string) error {
	if err := s.userRepo.Delete(id); err != nil {
		return err
	}
	if err := s.cartRepo.DeleteByUserID(id); err != nil {
		log.Printf("Warning: failed to clear carts for deleted user %s: %v", id, err)
	}
	return nil
}
