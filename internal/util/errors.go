package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrCourseNotFound       = errors.New("course not found")
	ErrChapterNotFound      = errors.New("chapter not found")
	ErrLessonNotFound       = errors.New("lesson not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderAlreadyReviewed = errors.New("order already reviewed")
	ErrAlreadyEnrolled      = errors.New("student already enrolled in this course")
	ErrEnrollmentNotFound   = errors.New("enrollment not found")
	ErrLessonNotInCourse    = errors.New("lesson does not belong to the enrollment's course")
	ErrNotEligible          = errors.New("enrollment not eligible for review")
	ErrAlreadyReviewed      = errors.New("enrollment already reviewed")
	ErrNotPassed            = errors.New("enrollment has not passed review")
	ErrCertificateNotFound  = errors.New("certificate not found")
	ErrCourseNotFree        = errors.New("course requires an approved order")
)
