package service

import (
	"edu_center_backend/internal/model"
	"edu_center_backend/internal/repository"
	"edu_center_backend/pkg/database"
	"edu_center_backend/pkg/logger"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type testRepos struct {
	user        *repository.UserRepository
	course      *repository.CourseRepository
	order       *repository.OrderRepository
	enrollment  *repository.EnrollmentRepository
	certificate *repository.CertificateRepository
}

func newTestRepos(db *gorm.DB) *testRepos {
	return &testRepos{
		user:        repository.NewUserRepository(db),
		course:      repository.NewCourseRepository(db),
		order:       repository.NewOrderRepository(db),
		enrollment:  repository.NewEnrollmentRepository(db),
		certificate: repository.NewCertificateRepository(db),
	}
}

func createStudent(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()

	user := &model.User{
		Name:     "Test Student",
		Email:    email,
		Password: "hashed",
		Role:     model.Student,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// createCourse builds a published course with one chapter holding the given
// lessons.
func createCourse(t *testing.T, db *gorm.DB, price float64, lessonTypes ...model.LessonType) (*model.Course, []model.Lesson) {
	t.Helper()

	course := &model.Course{
		Title:     "Test Course",
		Price:     price,
		Published: true,
	}
	require.NoError(t, db.Create(course).Error)

	chapter := &model.Chapter{CourseID: course.ID, Title: "Chapter 1"}
	require.NoError(t, db.Create(chapter).Error)

	lessons := make([]model.Lesson, 0, len(lessonTypes))
	for i, lt := range lessonTypes {
		lesson := model.Lesson{
			ChapterID: chapter.ID,
			CourseID:  course.ID,
			Title:     fmt.Sprintf("Lesson %d", i+1),
			Type:      lt,
		}
		require.NoError(t, db.Create(&lesson).Error)
		lessons = append(lessons, lesson)
	}
	return course, lessons
}

func createEnrollment(t *testing.T, db *gorm.DB, studentID, courseID uint) *model.Enrollment {
	t.Helper()

	enrollment := &model.Enrollment{
		StudentID:        studentID,
		CourseID:         courseID,
		Status:           model.Enrolled,
		CompletionResult: model.NotReviewed,
		EnrolledAt:       time.Now(),
	}
	require.NoError(t, db.Create(enrollment).Error)
	return enrollment
}
