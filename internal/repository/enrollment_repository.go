package repository

import (
	"crypto_edu_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *EnrollmentRepository) FindByUserAndCourse(userID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	return &enrollment, err
}

func (r *EnrollmentRepository) ListByUser(userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Where("user_id = ?", userID).Order("enrolled_at").Find(&enrollments).Error
	return enrollments, err
}

// MarkCompleted flips fully-progressed enrollments to completed. Run by
// the nightly reconciler; returns how many rows changed.
func (r *EnrollmentRepository) MarkCompleted() (int64, error) {
	res := r.DB.Model(&model.Enrollment{}).
		Where("progress >= 100 AND status = ?", model.EnrollmentActive).
		Update("status", model.EnrollmentCompleted)
	return res.RowsAffected, res.Error
}

func (r *EnrollmentRepository) TouchLastAccessed(tx *gorm.DB, userID, courseID uint) error {
	return tx.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Update("last_accessed_at", time.Now()).
		Error
}

func (r *EnrollmentRepository) CountByCourse() (map[uint]int64, error) {
	type row struct {
		CourseID uint
		Total    int64
	}
	var rows []row
	err := r.DB.Model(&model.Enrollment{}).
		Select("course_id, COUNT(*) AS total").
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, rw := range rows {
		counts[rw.CourseID] = rw.Total
	}
	return counts, nil
}
