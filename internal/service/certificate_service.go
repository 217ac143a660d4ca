package service

import (
	"edu_center_backend/internal/model"
	"edu_center_backend/internal/repository"
	"edu_center_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type CertificateService struct {
	CertificateRepo *repository.CertificateRepository
	EnrollmentRepo  *repository.EnrollmentRepository
	DB              *gorm.DB
}

func NewCertificateService(certificateRepo *repository.CertificateRepository, enrollmentRepo *repository.EnrollmentRepository, db *gorm.DB) *CertificateService {
	return &CertificateService{
		CertificateRepo: certificateRepo,
		EnrollmentRepo:  enrollmentRepo,
		DB:              db,
	}
}

// Issue is the recovery path for a passed enrollment that somehow lacks its
// certificate. Issuing twice returns the existing certificate unchanged.
func (s *CertificateService) Issue(enrollmentID uint) (*model.Certificate, error) {
	var certificate *model.Certificate
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var enrollment model.Enrollment
		if err := tx.First(&enrollment, enrollmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrEnrollmentNotFound
			}
			return err
		}

		if enrollment.CompletionResult != model.Passed {
			return util.ErrNotPassed
		}

		cert, err := issueCertificateTx(tx, &enrollment)
		if err != nil {
			return err
		}

		if enrollment.CertificateCode == nil || *enrollment.CertificateCode != cert.CertificateCode {
			if err := tx.Model(&model.Enrollment{}).
				Where("id = ?", enrollment.ID).
				Update("certificate_code", cert.CertificateCode).Error; err != nil {
				return err
			}
		}

		certificate = cert
		return nil
	})
	if err != nil {
		return nil, err
	}
	return certificate, nil
}

// GetByEnrollment looks up the certificate issued for an enrollment, if any.
func (s *CertificateService) GetByEnrollment(enrollmentID uint) (*model.Certificate, error) {
	certificate, err := s.CertificateRepo.FindByEnrollment(enrollmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCertificateNotFound
	}
	return certificate, err
}

func (s *CertificateService) ListMyCertificates(studentID uint) ([]model.Certificate, error) {
	return s.CertificateRepo.FindByStudent(studentID)
}

func (s *CertificateService) ListCertificates(page, limit int) ([]model.Certificate, int64, error) {
	return s.CertificateRepo.List(page, limit)
}

// Verify resolves a certificate by its public code.
func (s *CertificateService) Verify(code string) (*model.Certificate, error) {
	certificate, err := s.CertificateRepo.FindByCode(code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCertificateNotFound
	}
	return certificate, err
}
