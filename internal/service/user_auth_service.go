package service

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"spacely/internal/db"
	"spacely/internal/repository"
)

type UserAuthService interface {
	Register(name, email, phone, password, language string) (*db.User, error)
	Login(email, password string) (string, error)
}

type userAuthService struct {
	repo *repository.UserRepository
}

func NewUserAuthService(repo *repository.UserRepository) UserAuthService {
	return &userAuthService{repo: repo}
}

func (s *userAuthService) Register(name, email, phone, password, language string) (*db.User, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password cannot be empty")
	}
	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("email already registered")
	}
	if language == "" {
		language = "en"
	}
	user := &db.User{Name: name, Email: email, Phone: phone, Language: language}
	if err := s.repo.CreateUser(user, password); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userAuthService) Login(email, password string) (string, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", errors.New("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", errors.New("invalid credentials")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
