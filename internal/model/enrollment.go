package model

import "time"

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
)

// Enrollment ties a learner to a course. At most one row per (user, course);
// Progress moves 0..100 and is only ever incremented, never rolled back.
type Enrollment struct {
	BaseModel
	UserID         uint             `gorm:"index:idx_user_course,unique;not null" json:"userId"`
	CourseID       uint             `gorm:"index:idx_user_course,unique;not null" json:"courseId"`
	Status         EnrollmentStatus `gorm:"size:20;default:'active'" json:"status"`
	Progress       int              `gorm:"default:0" json:"progress"`
	EnrolledAt     time.Time        `json:"enrolledAt"`
	LastAccessedAt time.Time        `json:"lastAccessedAt"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
