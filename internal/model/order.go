package model

import (
	"time"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Order is a purchase request for a course. Review is one-shot: once the
// approval status leaves pending the row is never mutated again.
type Order struct {
	BaseModel
	StudentID      uint           `gorm:"index;not null" json:"studentId"`
	CourseID       uint           `gorm:"index;not null" json:"courseId"`
	Price          float64        `gorm:"not null" json:"price"`
	PaymentStatus  PaymentStatus  `gorm:"size:20;default:'pending'" json:"paymentStatus"`
	ApprovalStatus ApprovalStatus `gorm:"size:20;default:'pending';index" json:"approvalStatus"`
	TransferNote   string         `gorm:"size:255" json:"transferNote"`
	ApprovedAt     *time.Time     `json:"approvedAt"`
	RejectedAt     *time.Time     `json:"rejectedAt"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) Reviewed() bool {
	return o.ApprovalStatus != ApprovalPending
}
