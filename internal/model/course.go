package model

type LessonType string

const (
	LessonVideo    LessonType = "video"
	LessonDocument LessonType = "document"
	LessonQuiz     LessonType = "quiz"
)

type Course struct {
	BaseModel
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"default:0" json:"price"`
	Published   bool      `gorm:"default:false" json:"published"`
	Chapters    []Chapter `gorm:"foreignKey:CourseID" json:"chapters,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// Chapters and lessons keep insertion order; there is no reorder operation,
// so ordering by primary key is the contract.
type Chapter struct {
	BaseModel
	CourseID uint     `gorm:"index;not null" json:"courseId"`
	Title    string   `gorm:"size:255;not null" json:"title"`
	Lessons  []Lesson `gorm:"foreignKey:ChapterID" json:"lessons,omitempty"`
}

func (Chapter) TableName() string {
	return "chapters"
}

type Lesson struct {
	BaseModel
	ChapterID uint       `gorm:"index;not null" json:"chapterId"`
	CourseID  uint       `gorm:"index;not null" json:"courseId"`
	Title     string     `gorm:"size:255;not null" json:"title"`
	Type      LessonType `gorm:"size:20;not null" json:"type"`
	// ContentURL points at uploaded media for video/document lessons,
	// inline content for quiz lessons lives in Content.
	ContentURL string  `gorm:"size:512" json:"contentUrl"`
	Content    string  `gorm:"type:text" json:"content"`
	Duration   float64 `gorm:"default:0" json:"duration"`
}

func (Lesson) TableName() string {
	return "lessons"
}
