package model

// Feedback is a free-form course rating left by a learner.
type Feedback struct {
	BaseModel
	UserID   uint   `gorm:"index;not null" json:"userId"`
	CourseID uint   `gorm:"index;not null" json:"courseId"`
	Rating   int    `gorm:"not null" json:"rating"`
	Comment  string `gorm:"type:text" json:"comment"`
}

func (Feedback) TableName() string {
	return "feedback"
}
