package model

import (
	"time"
)

type EnrollmentStatus string

const (
	Enrolled     EnrollmentStatus = "enrolled"
	Completed    EnrollmentStatus = "completed"
	NotCompleted EnrollmentStatus = "not_completed"
)

type CompletionResult string

const (
	NotReviewed CompletionResult = "not_reviewed"
	Passed      CompletionResult = "passed"
	Failed      CompletionResult = "failed"
)

// Enrollment tracks a student's relationship to a course from registration to
// certificate issuance. Rows are never deleted, only transitioned.
type Enrollment struct {
	BaseModel
	StudentID uint             `gorm:"index:idx_student_course,unique;not null" json:"studentId"`
	CourseID  uint             `gorm:"index:idx_student_course,unique;not null" json:"courseId"`
	Status    EnrollmentStatus `gorm:"size:20;default:'enrolled'" json:"status"`

	// ProgressPercentage is derived from video lesson completions and is
	// monotonically non-decreasing.
	ProgressPercentage float64          `gorm:"default:0" json:"progressPercentage"`
	CompletionResult   CompletionResult `gorm:"size:20;default:'not_reviewed'" json:"completionResult"`
	CertificateCode    *string          `gorm:"size:64" json:"certificateCode"`
	EnrolledAt         time.Time        `json:"enrolledAt"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// EligibleForCertificate is the review gate: all video lessons done and not
// yet reviewed.
func (e *Enrollment) EligibleForCertificate() bool {
	return e.ProgressPercentage >= 100 && e.CompletionResult == NotReviewed
}

// LessonProgress records one student's completion of one lesson. Completion
// is one-directional, false to true, never reverted.
type LessonProgress struct {
	BaseModel
	EnrollmentID uint       `gorm:"index:idx_enrollment_lesson,unique;not null" json:"enrollmentId"`
	LessonID     uint       `gorm:"index:idx_enrollment_lesson,unique;not null" json:"lessonId"`
	Completed    bool       `gorm:"default:false" json:"completed"`
	CompletedAt  *time.Time `json:"completedAt"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}
