package service

import (
	"edu_center_backend/internal/model"
	"edu_center_backend/internal/repository"
	"edu_center_backend/internal/util"
	"edu_center_backend/pkg/logger"
	"edu_center_backend/pkg/monitoring"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EnrollmentService struct {
	EnrollmentRepo  *repository.EnrollmentRepository
	CourseRepo      *repository.CourseRepository
	CertificateRepo *repository.CertificateRepository
	DB              *gorm.DB
}

func NewEnrollmentService(enrollmentRepo *repository.EnrollmentRepository, courseRepo *repository.CourseRepository, certificateRepo *repository.CertificateRepository, db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo:  enrollmentRepo,
		CourseRepo:      courseRepo,
		CertificateRepo: certificateRepo,
		DB:              db,
	}
}

// SelfEnroll lets a student join a free course directly. Paid courses go
// through the order gate.
func (s *EnrollmentService) SelfEnroll(studentID, courseID uint) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	} else if err != nil {
		return nil, err
	}

	if course.Price > 0 {
		return nil, util.ErrCourseNotFree
	}

	if _, err := s.EnrollmentRepo.FindByStudentAndCourse(studentID, courseID); err == nil {
		return nil, util.ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := &model.Enrollment{
		StudentID:        studentID,
		CourseID:         courseID,
		Status:           model.Enrolled,
		CompletionResult: model.NotReviewed,
		EnrolledAt:       time.Now(),
	}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *EnrollmentService) GetEnrollment(id uint) (*model.Enrollment, error) {
	enrollment, err := s.EnrollmentRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrEnrollmentNotFound
	}
	return enrollment, err
}

func (s *EnrollmentService) ListMyEnrollments(studentID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.FindByStudent(studentID)
}

func (s *EnrollmentService) ListEnrollments(page, limit int) ([]model.Enrollment, int64, error) {
	return s.EnrollmentRepo.List(page, limit)
}

// MarkLessonComplete records a completion event and refreshes the stored
// progress percentage. Marking twice is a no-op.
func (s *EnrollmentService) MarkLessonComplete(studentID, enrollmentID, lessonID uint) (*model.Enrollment, error) {
	enrollment, err := s.GetEnrollment(enrollmentID)
	if err != nil {
		return nil, err
	}

	if enrollment.StudentID != studentID {
		return nil, util.ErrPermissionDenied
	}

	lesson, err := s.CourseRepo.FindLessonByID(lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLessonNotInCourse
	} else if err != nil {
		return nil, err
	}
	if lesson.CourseID != enrollment.CourseID {
		return nil, util.ErrLessonNotInCourse
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var progress model.LessonProgress
		err := tx.Where("enrollment_id = ? AND lesson_id = ?", enrollmentID, lessonID).First(&progress).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			now := time.Now()
			progress = model.LessonProgress{
				EnrollmentID: enrollmentID,
				LessonID:     lessonID,
				Completed:    true,
				CompletedAt:  &now,
			}
			if err := tx.Create(&progress).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else if !progress.Completed {
			now := time.Now()
			progress.Completed = true
			progress.CompletedAt = &now
			if err := tx.Save(&progress).Error; err != nil {
				return err
			}
		}
		// Already completed: fall through, recompute is idempotent.

		return refreshProgress(tx, enrollment)
	})
	if err != nil {
		return nil, err
	}

	return enrollment, nil
}

// refreshProgress recomputes the percentage from video completions. The
// stored value never decreases here, completion is one-directional.
func refreshProgress(tx *gorm.DB, enrollment *model.Enrollment) error {
	var totalVideos int64
	if err := tx.Model(&model.Lesson{}).
		Where("course_id = ? AND type = ?", enrollment.CourseID, model.LessonVideo).
		Count(&totalVideos).Error; err != nil {
		return err
	}

	var completed int64
	if err := tx.Model(&model.LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progress.lesson_id AND lessons.deleted_at IS NULL").
		Where("lesson_progress.enrollment_id = ? AND lesson_progress.completed = ? AND lessons.type = ?",
			enrollment.ID, true, model.LessonVideo).
		Count(&completed).Error; err != nil {
		return err
	}

	pct := float64(0)
	if totalVideos > 0 {
		pct = float64(completed) / float64(totalVideos) * 100
	}
	if pct < enrollment.ProgressPercentage {
		return nil
	}

	enrollment.ProgressPercentage = pct
	return tx.Model(&model.Enrollment{}).
		Where("id = ?", enrollment.ID).
		Update("progress_percentage", pct).Error
}

type ProgressReport struct {
	EnrollmentID           uint    `json:"enrollmentId"`
	ProgressPercentage     float64 `json:"progressPercentage"`
	CompletedVideoLessons  int64   `json:"completedVideoLessons"`
	TotalVideoLessons      int64   `json:"totalVideoLessons"`
	EligibleForCertificate bool    `json:"eligibleForCertificate"`
	CompletedLessonIDs     []uint  `json:"completedLessonIds"`
}

func (s *EnrollmentService) GetProgress(studentID, enrollmentID uint, isAdmin bool) (*ProgressReport, error) {
	enrollment, err := s.GetEnrollment(enrollmentID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && enrollment.StudentID != studentID {
		return nil, util.ErrPermissionDenied
	}

	total, err := s.CourseRepo.CountVideoLessons(enrollment.CourseID)
	if err != nil {
		return nil, err
	}
	completed, err := s.EnrollmentRepo.CountCompletedVideoLessons(enrollmentID)
	if err != nil {
		return nil, err
	}

	records, err := s.EnrollmentRepo.ListLessonProgress(enrollmentID)
	if err != nil {
		return nil, err
	}
	lessonIDs := make([]uint, 0, len(records))
	for _, record := range records {
		if record.Completed {
			lessonIDs = append(lessonIDs, record.LessonID)
		}
	}

	return &ProgressReport{
		EnrollmentID:           enrollment.ID,
		ProgressPercentage:     enrollment.ProgressPercentage,
		CompletedVideoLessons:  completed,
		TotalVideoLessons:      total,
		EligibleForCertificate: enrollment.EligibleForCertificate(),
		CompletedLessonIDs:     lessonIDs,
	}, nil
}

// SetCompletionResult is the admin review gate. A pass issues the certificate
// in the same transaction, so a reviewed-passed enrollment can never be
// observed without its certificate unless recovery is needed for rows
// reviewed before this behavior existed.
func (s *EnrollmentService) SetCompletionResult(enrollmentID uint, result model.CompletionResult) (*model.Enrollment, error) {
	if result != model.Passed && result != model.Failed {
		return nil, util.ErrNotEligible
	}

	var enrollment *model.Enrollment
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var e model.Enrollment
		if err := tx.First(&e, enrollmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrEnrollmentNotFound
			}
			return err
		}

		if e.CompletionResult != model.NotReviewed {
			return util.ErrAlreadyReviewed
		}
		if !e.EligibleForCertificate() {
			return util.ErrNotEligible
		}

		e.CompletionResult = result
		if result == model.Passed {
			e.Status = model.Completed
		} else {
			e.Status = model.NotCompleted
		}

		if result == model.Passed {
			certificate, err := issueCertificateTx(tx, &e)
			if err != nil {
				return err
			}
			e.CertificateCode = &certificate.CertificateCode
		}

		if err := tx.Save(&e).Error; err != nil {
			return err
		}

		enrollment = &e
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("enrollment reviewed",
		zap.Uint("enrollmentId", enrollment.ID),
		zap.String("result", string(enrollment.CompletionResult)))
	return enrollment, nil
}

// issueCertificateTx creates the certificate row inside the caller's
// transaction. The unique index on enrollment_id backs the at-most-once
// guarantee.
func issueCertificateTx(tx *gorm.DB, enrollment *model.Enrollment) (*model.Certificate, error) {
	var existing model.Certificate
	err := tx.Where("enrollment_id = ?", enrollment.ID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	certificate := model.Certificate{
		EnrollmentID:    enrollment.ID,
		StudentID:       enrollment.StudentID,
		CourseID:        enrollment.CourseID,
		CertificateCode: util.GenerateCertificateCode(),
		Result:          "PASS",
		IssuedAt:        time.Now(),
	}
	if err := tx.Create(&certificate).Error; err != nil {
		return nil, err
	}

	monitoring.CertificatesIssued.Inc()
	return &certificate, nil
}
