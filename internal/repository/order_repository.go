package repository

import (
	"edu_center_backend/internal/model"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

func (r *OrderRepository) Create(order *model.Order) error {
	return r.DB.Create(order).Error
}

func (r *OrderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	err := r.DB.First(&order, id).Error
	return &order, err
}

func (r *OrderRepository) FindByStudent(studentID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.DB.Where("student_id = ?", studentID).Order("id DESC").Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) FindPending(page, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	query := r.DB.Model(&model.Order{}).Where("approval_status = ?", model.ApprovalPending)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("id").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	return orders, total, err
}

// HasActiveOrder reports whether the student already has a pending or
// approved order for the course. Used for the "already enrolled" guard.
func (r *OrderRepository) HasActiveOrder(studentID, courseID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Order{}).
		Where("student_id = ? AND course_id = ? AND approval_status IN ?",
			studentID, courseID,
			[]model.ApprovalStatus{model.ApprovalPending, model.ApprovalApproved}).
		Count(&count).Error
	return count > 0, err
}
