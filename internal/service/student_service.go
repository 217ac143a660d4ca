package service

import (
	"edu_center_backend/internal/model"
	"edu_center_backend/internal/repository"
	"edu_center_backend/internal/util"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type StudentService struct {
	UserRepo *repository.UserRepository
}

func NewStudentService(userRepo *repository.UserRepository) *StudentService {
	return &StudentService{UserRepo: userRepo}
}

func (s *StudentService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

type ProfileUpdate struct {
	Name      string
	Phone     string
	Address   string
	BirthDate *time.Time
}

func (s *StudentService) UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	} else if err != nil {
		return nil, err
	}

	if update.Name != "" {
		user.Name = update.Name
	}
	user.Phone = update.Phone
	user.Address = update.Address
	if update.BirthDate != nil {
		user.BirthDate = update.BirthDate
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *StudentService) ListStudents(page, limit int) ([]model.User, int64, error) {
	return s.UserRepo.ListByRole(model.Student, page, limit)
}

func (s *StudentService) CreateStudent(user *model.User) error {
	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	user.Role = model.Student
	return s.UserRepo.Create(user)
}

func (s *StudentService) UpdateStudent(id uint, update ProfileUpdate, disabled *bool) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	} else if err != nil {
		return nil, err
	}

	if update.Name != "" {
		user.Name = update.Name
	}
	user.Phone = update.Phone
	user.Address = update.Address
	if update.BirthDate != nil {
		user.BirthDate = update.BirthDate
	}
	if disabled != nil {
		user.Disabled = *disabled
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *StudentService) DeleteStudent(id uint) error {
	_, err := s.UserRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrUserNotFound
	} else if err != nil {
		return err
	}
	return s.UserRepo.Delete(id)
}
