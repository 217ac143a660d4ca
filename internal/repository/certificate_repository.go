package repository

import (
	"edu_center_backend/internal/model"

	"gorm.io/gorm"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

func (r *CertificateRepository) Create(certificate *model.Certificate) error {
	return r.DB.Create(certificate).Error
}

func (r *CertificateRepository) FindByEnrollment(enrollmentID uint) (*model.Certificate, error) {
	var certificate model.Certificate
	err := r.DB.Where("enrollment_id = ?", enrollmentID).First(&certificate).Error
	return &certificate, err
}

func (r *CertificateRepository) FindByCode(code string) (*model.Certificate, error) {
	var certificate model.Certificate
	err := r.DB.Where("certificate_code = ?", code).First(&certificate).Error
	return &certificate, err
}

func (r *CertificateRepository) FindByStudent(studentID uint) ([]model.Certificate, error) {
	var certificates []model.Certificate
	err := r.DB.Where("student_id = ?", studentID).Order("id DESC").Find(&certificates).Error
	return certificates, err
}

func (r *CertificateRepository) List(page, limit int) ([]model.Certificate, int64, error) {
	var certificates []model.Certificate
	var total int64

	query := r.DB.Model(&model.Certificate{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&certificates).Error
	return certificates, total, err
}
