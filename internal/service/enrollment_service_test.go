package service

import (
	"edu_center_backend/internal/model"
	"edu_center_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newEnrollmentService(db *gorm.DB) *EnrollmentService {
	repos := newTestRepos(db)
	return NewEnrollmentService(repos.enrollment, repos.course, repos.certificate, db)
}

func TestMarkLessonComplete_ProgressCountsVideoOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	student := createStudent(t, db, "progress@test.dev")
	_, lessons := createCourse(t, db, 0,
		model.LessonVideo, model.LessonVideo, model.LessonVideo, model.LessonVideo,
		model.LessonDocument)
	enrollment := createEnrollment(t, db, student.ID, lessons[0].CourseID)

	for i := 0; i < 3; i++ {
		_, err := svc.MarkLessonComplete(student.ID, enrollment.ID, lessons[i].ID)
		require.NoError(t, err)
	}

	updated, err := svc.GetEnrollment(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(75), updated.ProgressPercentage)
	assert.False(t, updated.EligibleForCertificate())

	// Document lessons do not move the percentage.
	_, err = svc.MarkLessonComplete(student.ID, enrollment.ID, lessons[4].ID)
	require.NoError(t, err)
	updated, err = svc.GetEnrollment(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(75), updated.ProgressPercentage)

	_, err = svc.MarkLessonComplete(student.ID, enrollment.ID, lessons[3].ID)
	require.NoError(t, err)
	updated, err = svc.GetEnrollment(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(100), updated.ProgressPercentage)
	assert.True(t, updated.EligibleForCertificate())
}

func TestMarkLessonComplete_Idempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	student := createStudent(t, db, "idempotent@test.dev")
	_, lessons := createCourse(t, db, 0, model.LessonVideo, model.LessonVideo)
	enrollment := createEnrollment(t, db, student.ID, lessons[0].CourseID)

	_, err := svc.MarkLessonComplete(student.ID, enrollment.ID, lessons[0].ID)
	require.NoError(t, err)
	first, err := svc.GetEnrollment(enrollment.ID)
	require.NoError(t, err)

	_, err = svc.MarkLessonComplete(student.ID, enrollment.ID, lessons[0].ID)
	require.NoError(t, err)
	second, err := svc.GetEnrollment(enrollment.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ProgressPercentage, second.ProgressPercentage)

	var count int64
	require.NoError(t, db.Model(&model.LessonProgress{}).
		Where("enrollment_id = ?", enrollment.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMarkLessonComplete_ProgressNeverDecreases(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	student := createStudent(t, db, "monotonic@test.dev")
	_, lessons := createCourse(t, db, 0, model.LessonVideo, model.LessonVideo, model.LessonVideo)
	enrollment := createEnrollment(t, db, student.ID, lessons[0].CourseID)

	last := float64(0)
	for _, lesson := range lessons {
		updated, err := svc.MarkLessonComplete(student.ID, enrollment.ID, lesson.ID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, updated.ProgressPercentage, last)
		last = updated.ProgressPercentage
	}
	assert.Equal(t, float64(100), last)
}

func TestMarkLessonComplete_LessonOutsideCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	student := createStudent(t, db, "outside@test.dev")
	_, lessons := createCourse(t, db, 0, model.LessonVideo)
	_, otherLessons := createCourse(t, db, 0, model.LessonVideo)
	enrollment := createEnrollment(t, db, student.ID, lessons[0].CourseID)

	_, err := svc.MarkLessonComplete(student.ID, enrollment.ID, otherLessons[0].ID)
	assert.ErrorIs(t, err, util.ErrLessonNotInCourse)

	_, err = svc.MarkLessonComplete(student.ID, enrollment.ID, 99999)
	assert.ErrorIs(t, err, util.ErrLessonNotInCourse)

	updated, err := svc.GetEnrollment(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(0), updated.ProgressPercentage)
}

func TestMarkLessonComplete_ForeignEnrollment(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	owner := createStudent(t, db, "owner@test.dev")
	intruder := createStudent(t, db, "intruder@test.dev")
	_, lessons := createCourse(t, db, 0, model.LessonVideo)
	enrollment := createEnrollment(t, db, owner.ID, lessons[0].CourseID)

	_, err := svc.MarkLessonComplete(intruder.ID, enrollment.ID, lessons[0].ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func completeAll(t *testing.T, svc *EnrollmentService, studentID uint, enrollmentID uint, lessons []model.Lesson) {
	t.Helper()
	for _, lesson := range lessons {
		_, err := svc.MarkLessonComplete(studentID, enrollmentID, lesson.ID)
		require.NoError(t, err)
	}
}

func TestSetCompletionResult_RejectsBelowThreshold(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	student := createStudent(t, db, "threshold@test.dev")
	_, lessons := createCourse(t, db, 0, model.LessonVideo, model.LessonVideo)
	enrollment := createEnrollment(t, db, student.ID, lessons[0].CourseID)

	_, err := svc.MarkLessonComplete(student.ID, enrollment.ID, lessons[0].ID)
	require.NoError(t, err)

	_, err = svc.SetCompletionResult(enrollment.ID, model.Passed)
	assert.ErrorIs(t, err, util.ErrNotEligible)

	updated, err := svc.GetEnrollment(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.NotReviewed, updated.CompletionResult)
	assert.Equal(t, model.Enrolled, updated.Status)
}

func TestSetCompletionResult_PassIssuesCertificate(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	student := createStudent(t, db, "pass@test.dev")
	_, lessons := createCourse(t, db, 0, model.LessonVideo, model.LessonVideo)
	enrollment := createEnrollment(t, db, student.ID, lessons[0].CourseID)
	completeAll(t, svc, student.ID, enrollment.ID, lessons)

	reviewed, err := svc.SetCompletionResult(enrollment.ID, model.Passed)
	require.NoError(t, err)

	assert.Equal(t, model.Passed, reviewed.CompletionResult)
	assert.Equal(t, model.Completed, reviewed.Status)
	require.NotNil(t, reviewed.CertificateCode)

	var certificate model.Certificate
	require.NoError(t, db.Where("enrollment_id = ?", enrollment.ID).First(&certificate).Error)
	assert.Equal(t, *reviewed.CertificateCode, certificate.CertificateCode)
	assert.Equal(t, student.ID, certificate.StudentID)
	assert.Equal(t, "PASS", certificate.Result)
}

func TestSetCompletionResult_FailIsTerminal(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	student := createStudent(t, db, "fail@test.dev")
	_, lessons := createCourse(t, db, 0, model.LessonVideo)
	enrollment := createEnrollment(t, db, student.ID, lessons[0].CourseID)
	completeAll(t, svc, student.ID, enrollment.ID, lessons)

	reviewed, err := svc.SetCompletionResult(enrollment.ID, model.Failed)
	require.NoError(t, err)
	assert.Equal(t, model.Failed, reviewed.CompletionResult)
	assert.Equal(t, model.NotCompleted, reviewed.Status)
	assert.Nil(t, reviewed.CertificateCode)

	var count int64
	require.NoError(t, db.Model(&model.Certificate{}).
		Where("enrollment_id = ?", enrollment.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// No second review cycle.
	_, err = svc.SetCompletionResult(enrollment.ID, model.Passed)
	assert.ErrorIs(t, err, util.ErrAlreadyReviewed)
}

func TestSetCompletionResult_AlreadyReviewed(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	student := createStudent(t, db, "reviewed@test.dev")
	_, lessons := createCourse(t, db, 0, model.LessonVideo)
	enrollment := createEnrollment(t, db, student.ID, lessons[0].CourseID)
	completeAll(t, svc, student.ID, enrollment.ID, lessons)

	_, err := svc.SetCompletionResult(enrollment.ID, model.Passed)
	require.NoError(t, err)

	_, err = svc.SetCompletionResult(enrollment.ID, model.Failed)
	assert.ErrorIs(t, err, util.ErrAlreadyReviewed)

	updated, err := svc.GetEnrollment(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Passed, updated.CompletionResult)
}

func TestCertificateCodesAreUnique(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	codes := make(map[string]bool)
	for i, email := range []string{"a@test.dev", "b@test.dev", "c@test.dev"} {
		student := createStudent(t, db, email)
		_, lessons := createCourse(t, db, 0, model.LessonVideo)
		enrollment := createEnrollment(t, db, student.ID, lessons[0].CourseID)
		completeAll(t, svc, student.ID, enrollment.ID, lessons)

		reviewed, err := svc.SetCompletionResult(enrollment.ID, model.Passed)
		require.NoError(t, err)
		require.NotNil(t, reviewed.CertificateCode)
		assert.False(t, codes[*reviewed.CertificateCode], "duplicate code on iteration %d", i)
		codes[*reviewed.CertificateCode] = true
	}
}

func TestSelfEnroll(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	student := createStudent(t, db, "selfenroll@test.dev")
	freeCourse, _ := createCourse(t, db, 0, model.LessonVideo)
	paidCourse, _ := createCourse(t, db, 500000, model.LessonVideo)

	enrollment, err := svc.SelfEnroll(student.ID, freeCourse.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Enrolled, enrollment.Status)
	assert.Equal(t, float64(0), enrollment.ProgressPercentage)

	_, err = svc.SelfEnroll(student.ID, freeCourse.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)

	_, err = svc.SelfEnroll(student.ID, paidCourse.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotFree)

	_, err = svc.SelfEnroll(student.ID, 99999)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestGetProgress(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	student := createStudent(t, db, "report@test.dev")
	other := createStudent(t, db, "other@test.dev")
	_, lessons := createCourse(t, db, 0, model.LessonVideo, model.LessonVideo, model.LessonDocument)
	enrollment := createEnrollment(t, db, student.ID, lessons[0].CourseID)

	_, err := svc.MarkLessonComplete(student.ID, enrollment.ID, lessons[0].ID)
	require.NoError(t, err)

	report, err := svc.GetProgress(student.ID, enrollment.ID, false)
	require.NoError(t, err)
	assert.Equal(t, float64(50), report.ProgressPercentage)
	assert.Equal(t, int64(1), report.CompletedVideoLessons)
	assert.Equal(t, int64(2), report.TotalVideoLessons)
	assert.False(t, report.EligibleForCertificate)
	assert.Equal(t, []uint{lessons[0].ID}, report.CompletedLessonIDs)

	// Admins read anyone's progress, other students do not.
	_, err = svc.GetProgress(other.ID, enrollment.ID, false)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
	_, err = svc.GetProgress(other.ID, enrollment.ID, true)
	assert.NoError(t, err)
}
