package service

import (
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

type ProfileUpdateRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func (s *UserService) UpdateProfile(userID uint, req ProfileUpdateRequest) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) SetAvatar(userID uint, url string) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return err
	}
	user.Avatar = url
	return s.UserRepo.Update(user)
}

// DeleteUser 仅本人或管理员可删除账号
func (s *UserService) DeleteUser(targetID uint, claims *util.Claims) error {
	if claims.UserID != targetID && claims.Role != model.Admin {
		return util.ErrPermissionDenied
	}

	if _, err := s.UserRepo.FindByID(targetID); err != nil {
		return err
	}
	return s.UserRepo.Delete(targetID)
}
