package service

import (
	"context"
	"edu_center_backend/internal/model"
	"edu_center_backend/internal/repository"
	"edu_center_backend/internal/util"
	"edu_center_backend/pkg/logger"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	structureCacheKeyPrefix = "course:structure:"
	structureCacheTTL       = 10 * time.Minute
)

type CourseService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Redis          *redis.Client
	DB             *gorm.DB
}

func NewCourseService(courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository, rdb *redis.Client, db *gorm.DB) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		Redis:          rdb,
		DB:             db,
	}
}

func (s *CourseService) CreateCourse(course *model.Course) error {
	return s.CourseRepo.Create(course)
}

func (s *CourseService) GetCourse(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	return course, err
}

func (s *CourseService) UpdateCourse(id uint, title, description string, price *float64, published *bool) (*model.Course, error) {
	course, err := s.GetCourse(id)
	if err != nil {
		return nil, err
	}

	if title != "" {
		course.Title = title
	}
	if description != "" {
		course.Description = description
	}
	if price != nil {
		course.Price = *price
	}
	if published != nil {
		course.Published = *published
	}

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	s.invalidateStructure(id)
	return course, nil
}

func (s *CourseService) DeleteCourse(id uint) error {
	if _, err := s.GetCourse(id); err != nil {
		return err
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&model.Lesson{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&model.Chapter{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Course{}, id).Error
	})
	if err != nil {
		return err
	}
	s.invalidateStructure(id)
	return nil
}

func (s *CourseService) ListCourses(page, limit int, publishedOnly bool) ([]model.Course, int64, error) {
	return s.CourseRepo.List(page, limit, publishedOnly)
}

// GetStructure serves the chapter/lesson tree, cache-aside over Redis.
func (s *CourseService) GetStructure(id uint) (*model.Course, error) {
	ctx := context.Background()
	cacheKey := fmt.Sprintf("%s%d", structureCacheKeyPrefix, id)

	if s.Redis != nil {
		val, err := s.Redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var cached model.Course
			if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil {
				return &cached, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("structure cache read failed", zap.Error(err))
		}
	}

	course, err := s.CourseRepo.FindStructure(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	} else if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, jsonErr := json.Marshal(course); jsonErr == nil {
			if err := s.Redis.Set(ctx, cacheKey, data, structureCacheTTL).Err(); err != nil {
				logger.Log.Warn("structure cache write failed", zap.Error(err))
			}
		}
	}

	return course, nil
}

func (s *CourseService) invalidateStructure(courseID uint) {
	if s.Redis == nil {
		return
	}
	cacheKey := fmt.Sprintf("%s%d", structureCacheKeyPrefix, courseID)
	if err := s.Redis.Del(context.Background(), cacheKey).Err(); err != nil {
		logger.Log.Warn("structure cache invalidation failed", zap.Error(err))
	}
}

func (s *CourseService) AddChapter(courseID uint, title string) (*model.Chapter, error) {
	if _, err := s.GetCourse(courseID); err != nil {
		return nil, err
	}

	chapter := &model.Chapter{
		CourseID: courseID,
		Title:    title,
	}
	if err := s.CourseRepo.CreateChapter(chapter); err != nil {
		return nil, err
	}
	s.invalidateStructure(courseID)
	return chapter, nil
}

func (s *CourseService) AddLesson(chapterID uint, title string, lessonType model.LessonType, contentURL, content string, duration float64) (*model.Lesson, error) {
	chapter, err := s.CourseRepo.FindChapterByID(chapterID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrChapterNotFound
	} else if err != nil {
		return nil, err
	}

	lesson := &model.Lesson{
		ChapterID:  chapter.ID,
		CourseID:   chapter.CourseID,
		Title:      title,
		Type:       lessonType,
		ContentURL: contentURL,
		Content:    content,
		Duration:   duration,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(lesson).Error; err != nil {
			return err
		}
		// A new video lesson grows the denominator for everyone enrolled.
		if lesson.Type == model.LessonVideo {
			return recomputeCourseProgress(tx, chapter.CourseID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateStructure(chapter.CourseID)
	return lesson, nil
}

// DeleteChapter removes the chapter, its lessons and their completion records,
// then recomputes progress for every enrollment in the course.
func (s *CourseService) DeleteChapter(chapterID uint) error {
	chapter, err := s.CourseRepo.FindChapterByID(chapterID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrChapterNotFound
	} else if err != nil {
		return err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var lessonIDs []uint
		if err := tx.Model(&model.Lesson{}).
			Where("chapter_id = ?", chapterID).
			Pluck("id", &lessonIDs).Error; err != nil {
			return err
		}

		if len(lessonIDs) > 0 {
			if err := tx.Where("lesson_id IN ?", lessonIDs).Delete(&model.LessonProgress{}).Error; err != nil {
				return err
			}
			if err := tx.Where("chapter_id = ?", chapterID).Delete(&model.Lesson{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Delete(&model.Chapter{}, chapterID).Error; err != nil {
			return err
		}

		return recomputeCourseProgress(tx, chapter.CourseID)
	})
	if err != nil {
		return err
	}
	s.invalidateStructure(chapter.CourseID)
	return nil
}

func (s *CourseService) DeleteLesson(lessonID uint) error {
	lesson, err := s.CourseRepo.FindLessonByID(lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrLessonNotFound
	} else if err != nil {
		return err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", lessonID).Delete(&model.LessonProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Lesson{}, lessonID).Error; err != nil {
			return err
		}
		return recomputeCourseProgress(tx, lesson.CourseID)
	})
	if err != nil {
		return err
	}
	s.invalidateStructure(lesson.CourseID)
	return nil
}

// recomputeCourseProgress refreshes progress percentages after the lesson set
// of a course changed. Reviewed enrollments keep their recorded percentage.
func recomputeCourseProgress(tx *gorm.DB, courseID uint) error {
	var totalVideos int64
	if err := tx.Model(&model.Lesson{}).
		Where("course_id = ? AND type = ?", courseID, model.LessonVideo).
		Count(&totalVideos).Error; err != nil {
		return err
	}

	var enrollments []model.Enrollment
	if err := tx.Where("course_id = ?", courseID).Find(&enrollments).Error; err != nil {
		return err
	}

	for i := range enrollments {
		e := &enrollments[i]
		if e.CompletionResult != model.NotReviewed {
			continue
		}

		var completed int64
		if err := tx.Model(&model.LessonProgress{}).
			Joins("JOIN lessons ON lessons.id = lesson_progress.lesson_id AND lessons.deleted_at IS NULL").
			Where("lesson_progress.enrollment_id = ? AND lesson_progress.completed = ? AND lessons.type = ?",
				e.ID, true, model.LessonVideo).
			Count(&completed).Error; err != nil {
			return err
		}

		pct := float64(0)
		if totalVideos > 0 {
			pct = float64(completed) / float64(totalVideos) * 100
		}
		if err := tx.Model(&model.Enrollment{}).
			Where("id = ?", e.ID).
			Update("progress_percentage", pct).Error; err != nil {
			return err
		}
	}
	return nil
}
