package service

import (
	"edu_center_backend/internal/model"
	"edu_center_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newOrderService(db *gorm.DB) *OrderService {
	repos := newTestRepos(db)
	return NewOrderService(repos.order, repos.course, repos.enrollment, db)
}

func TestCreateOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)

	student := createStudent(t, db, "buyer@test.dev")
	course, _ := createCourse(t, db, 750000, model.LessonVideo)

	order, err := svc.CreateOrder(student.ID, course.ID, "bank transfer ref 123")
	require.NoError(t, err)
	assert.Equal(t, course.Price, order.Price)
	assert.Equal(t, model.PaymentPending, order.PaymentStatus)
	assert.Equal(t, model.ApprovalPending, order.ApprovalStatus)

	// A pending order blocks a second one for the same course.
	_, err = svc.CreateOrder(student.ID, course.ID, "")
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)

	_, err = svc.CreateOrder(student.ID, 99999, "")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestCreateOrder_AlreadyEnrolled(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)

	student := createStudent(t, db, "enrolled@test.dev")
	course, _ := createCourse(t, db, 750000, model.LessonVideo)
	createEnrollment(t, db, student.ID, course.ID)

	_, err := svc.CreateOrder(student.ID, course.ID, "")
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)
}

func TestApprove_CreatesEnrollment(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)

	student := createStudent(t, db, "approve@test.dev")
	course, _ := createCourse(t, db, 750000, model.LessonVideo)

	order, err := svc.CreateOrder(student.ID, course.ID, "")
	require.NoError(t, err)

	approved, err := svc.Approve(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalApproved, approved.ApprovalStatus)
	assert.Equal(t, model.PaymentPaid, approved.PaymentStatus)
	require.NotNil(t, approved.ApprovedAt)

	var enrollment model.Enrollment
	require.NoError(t, db.Where("student_id = ? AND course_id = ?", student.ID, course.ID).
		First(&enrollment).Error)
	assert.Equal(t, model.Enrolled, enrollment.Status)
	assert.Equal(t, float64(0), enrollment.ProgressPercentage)
	assert.Equal(t, model.NotReviewed, enrollment.CompletionResult)
}

func TestApprove_OneShot(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)

	student := createStudent(t, db, "oneshot@test.dev")
	course, _ := createCourse(t, db, 750000, model.LessonVideo)

	order, err := svc.CreateOrder(student.ID, course.ID, "")
	require.NoError(t, err)
	_, err = svc.Approve(order.ID)
	require.NoError(t, err)

	_, err = svc.Approve(order.ID)
	assert.ErrorIs(t, err, util.ErrOrderAlreadyReviewed)
	_, err = svc.Reject(order.ID)
	assert.ErrorIs(t, err, util.ErrOrderAlreadyReviewed)

	// The row is unchanged by the failed second review.
	reread, err := svc.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalApproved, reread.ApprovalStatus)
	assert.Nil(t, reread.RejectedAt)
}

func TestReject(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)

	student := createStudent(t, db, "reject@test.dev")
	course, _ := createCourse(t, db, 750000, model.LessonVideo)

	order, err := svc.CreateOrder(student.ID, course.ID, "")
	require.NoError(t, err)

	rejected, err := svc.Reject(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalRejected, rejected.ApprovalStatus)
	assert.Equal(t, model.PaymentFailed, rejected.PaymentStatus)
	require.NotNil(t, rejected.RejectedAt)

	// Rejection creates no enrollment.
	var count int64
	require.NoError(t, db.Model(&model.Enrollment{}).
		Where("student_id = ?", student.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	_, err = svc.Approve(order.ID)
	assert.ErrorIs(t, err, util.ErrOrderAlreadyReviewed)
}

func TestReject_ThenReorder(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)

	student := createStudent(t, db, "retry@test.dev")
	course, _ := createCourse(t, db, 750000, model.LessonVideo)

	order, err := svc.CreateOrder(student.ID, course.ID, "")
	require.NoError(t, err)
	_, err = svc.Reject(order.ID)
	require.NoError(t, err)

	// A rejected order is not active, so the student may order again.
	second, err := svc.CreateOrder(student.ID, course.ID, "second attempt")
	require.NoError(t, err)
	assert.NotEqual(t, order.ID, second.ID)
}

func TestListPending(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)

	student := createStudent(t, db, "pending@test.dev")
	first, _ := createCourse(t, db, 100, model.LessonVideo)
	second, _ := createCourse(t, db, 200, model.LessonVideo)

	a, err := svc.CreateOrder(student.ID, first.ID, "")
	require.NoError(t, err)
	b, err := svc.CreateOrder(student.ID, second.ID, "")
	require.NoError(t, err)

	_, err = svc.Approve(a.ID)
	require.NoError(t, err)

	pending, total, err := svc.ListPending(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pending, 1)
	assert.Equal(t, b.ID, pending[0].ID)
}
