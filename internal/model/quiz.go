package model

import "time"

// Quiz describes one module quiz. PassThreshold is the named passing bar
// for this quiz; callers must read it from here (or fall back to the
// configured default) instead of hard-coding a percentage.
type Quiz struct {
	BaseModel
	CourseID      uint    `gorm:"index;not null" json:"courseId"`
	ModuleID      uint    `gorm:"index;not null" json:"moduleId"`
	Slug          string  `gorm:"size:100;index;not null" json:"slug"`
	Title         string  `gorm:"size:255;not null" json:"title"`
	PassThreshold float64 `gorm:"default:60" json:"passThreshold"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizResponse is the append-only audit record of one completion attempt.
// One row per submission, pass or fail, immutable once written.
type QuizResponse struct {
	BaseModel
	UserID     uint      `gorm:"index;not null" json:"userId"`
	CourseID   uint      `gorm:"index;not null" json:"courseId"`
	ModuleID   uint      `gorm:"index;not null" json:"moduleId"`
	QuizID     uint      `gorm:"index;not null" json:"quizId"`
	IsCorrect  bool      `gorm:"default:false" json:"isCorrect"`
	TimeSpent  int       `gorm:"default:0" json:"timeSpent"`
	AnsweredAt time.Time `json:"answeredAt"`
}

func (QuizResponse) TableName() string {
	return "quiz_responses"
}
