package service

import (
	"edu_center_backend/internal/model"
	"edu_center_backend/internal/repository"
	"edu_center_backend/internal/util"
	"edu_center_backend/pkg/monitoring"
	"errors"
	"time"

	"gorm.io/gorm"
)

type OrderService struct {
	OrderRepo      *repository.OrderRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	DB             *gorm.DB
}

func NewOrderService(orderRepo *repository.OrderRepository, courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository, db *gorm.DB) *OrderService {
	return &OrderService{
		OrderRepo:      orderRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		DB:             db,
	}
}

// CreateOrder registers a purchase intent. The price is taken from the course
// row, never from the client.
func (s *OrderService) CreateOrder(studentID, courseID uint, transferNote string) (*model.Order, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	} else if err != nil {
		return nil, err
	}

	if _, err := s.EnrollmentRepo.FindByStudentAndCourse(studentID, courseID); err == nil {
		return nil, util.ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	active, err := s.OrderRepo.HasActiveOrder(studentID, courseID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, util.ErrAlreadyEnrolled
	}

	order := &model.Order{
		StudentID:      studentID,
		CourseID:       courseID,
		Price:          course.Price,
		PaymentStatus:  model.PaymentPending,
		ApprovalStatus: model.ApprovalPending,
		TransferNote:   transferNote,
	}
	if err := s.OrderRepo.Create(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) GetOrder(id uint) (*model.Order, error) {
	order, err := s.OrderRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrOrderNotFound
	}
	return order, err
}

func (s *OrderService) ListMyOrders(studentID uint) ([]model.Order, error) {
	return s.OrderRepo.FindByStudent(studentID)
}

func (s *OrderService) ListPending(page, limit int) ([]model.Order, int64, error) {
	return s.OrderRepo.FindPending(page, limit)
}

// Approve is one-shot: a reviewed order is never touched again. The
// enrollment is created in the same transaction so an approved order always
// has its enrollment.
func (s *OrderService) Approve(orderID uint) (*model.Order, error) {
	var order *model.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var o model.Order
		if err := tx.First(&o, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrOrderNotFound
			}
			return err
		}

		if o.Reviewed() {
			return util.ErrOrderAlreadyReviewed
		}

		now := time.Now()
		o.ApprovalStatus = model.ApprovalApproved
		o.PaymentStatus = model.PaymentPaid
		o.ApprovedAt = &now
		if err := tx.Save(&o).Error; err != nil {
			return err
		}

		var existing model.Enrollment
		err := tx.Where("student_id = ? AND course_id = ?", o.StudentID, o.CourseID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			enrollment := model.Enrollment{
				StudentID:        o.StudentID,
				CourseID:         o.CourseID,
				Status:           model.Enrolled,
				CompletionResult: model.NotReviewed,
				EnrolledAt:       now,
			}
			if err := tx.Create(&enrollment).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		order = &o
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.OrdersReviewed.WithLabelValues("approved").Inc()
	return order, nil
}

func (s *OrderService) Reject(orderID uint) (*model.Order, error) {
	var order *model.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var o model.Order
		if err := tx.First(&o, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrOrderNotFound
			}
			return err
		}

		if o.Reviewed() {
			return util.ErrOrderAlreadyReviewed
		}

		now := time.Now()
		o.ApprovalStatus = model.ApprovalRejected
		o.PaymentStatus = model.PaymentFailed
		o.RejectedAt = &now
		if err := tx.Save(&o).Error; err != nil {
			return err
		}

		order = &o
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.OrdersReviewed.WithLabelValues("rejected").Inc()
	return order, nil
}
