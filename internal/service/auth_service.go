package service

import (
	"errors"
	"time"

	"course_hub_backend/internal/config"
	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/util"
	"course_hub_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Config   *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Config:   cfg,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     model.UserRole
}

func (s *AuthService) Register(input RegisterInput) (*model.User, error) {
	if _, err := s.UserRepo.FindByEmail(input.Email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role != model.Instructor {
		role = model.Student
	}

	user := &model.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashed),
		Role:     role,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}

	logger.Log.Info("user registered",
		zap.Uint("userId", user.ID),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)))
	return user, nil
}

// Login 校验密码并签发 JWT，登录失败不区分“用户不存在”和“密码错误”
func (s *AuthService) Login(email, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, util.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if user.Disabled {
		return "", nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	expiration := time.Duration(s.Config.JWT.ExpirationHours) * time.Hour
	token, err := util.GenerateJWT(user, s.Config.JWT.Secret, expiration)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
