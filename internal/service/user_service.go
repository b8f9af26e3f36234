package service

import (
	"errors"

	"course_hub_backend/internal/model"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetUser(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers 管理员查看用户列表，可按角色过滤
func (s *UserService) ListUsers(offset, limit int, role model.UserRole) ([]model.User, int64, error) {
	return s.UserRepo.FindAll(offset, limit, role)
}

// TouchLastSeen 异步更新最近活跃时间，失败静默忽略
func (s *UserService) TouchLastSeen(userID uint) {
	go func() {
		_ = s.UserRepo.UpdateLastSeen(userID)
	}()
}
