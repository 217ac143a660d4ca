package model

import (
	"time"
)

// Certificate is the immutable proof of completion, issued at most once per
// enrollment and only for a passed review.
type Certificate struct {
	BaseModel
	EnrollmentID    uint      `gorm:"uniqueIndex;not null" json:"enrollmentId"`
	StudentID       uint      `gorm:"index;not null" json:"studentId"`
	CourseID        uint      `gorm:"index;not null" json:"courseId"`
	CertificateCode string    `gorm:"size:64;uniqueIndex;not null" json:"certificateCode"`
	Result          string    `gorm:"size:10;default:'PASS'" json:"result"`
	IssuedAt        time.Time `json:"issuedAt"`
}

func (Certificate) TableName() string {
	return "certificates"
}
