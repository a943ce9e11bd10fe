package service

import (
	"errors"

	"github.com/wandertours/backend/internal/models"
	"github.com/wandertours/backend/internal/repository"
	"github.com/wandertours/backend/pkg/bcrypt"
	"github.com/wandertours/backend/pkg/email"
	jwtPkg "github.com/wandertours/backend/pkg/jwt"
	"go.uber.org/zap"
)

type AuthService struct {
	userRepo     *repository.UserRepository
	emailService *email.EmailService
	logger       *zap.Logger
}

func NewAuthService(userRepo *repository.UserRepository, emailService *email.EmailService, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		emailService: emailService,
		logger:       logger,
	}
}

func (s *AuthService) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	exists, err := s.userRepo.EmailExists(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.New("email already exists")
	}

	hashedPassword, err := bcrypt.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName: req.FullName,
		Email:    req.Email,
		Password: hashedPassword,
		Role:     models.RoleUser,
		Active:   true,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	// Welcome email is best effort
	if s.emailService != nil {
		if err := s.emailService.SendWelcomeEmail(user.Email, user.FullName); err != nil {
			s.logger.Warn("failed to send welcome email",
				zap.String("email", user.Email),
				zap.Error(err),
			)
		}
	}

	token, err := jwtPkg.GenerateToken(user.Email, user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{Token: token, User: *user}, nil
}

func (s *AuthService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if !user.Active {
		return nil, errors.New("account is deactivated")
	}

	if err := bcrypt.ComparePassword(user.Password, req.Password); err != nil {
		return nil, errors.New("invalid email or password")
	}

	token, err := jwtPkg.GenerateToken(user.Email, user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{Token: token, User: *user}, nil
}
