package service

import (
	"crypto_edu_backend/internal/model"
	"crypto_edu_backend/internal/repository"
	"crypto_edu_backend/internal/util"
	"crypto_edu_backend/pkg/logger"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
}

func NewEnrollmentService(enrollmentRepo *repository.EnrollmentRepository, courseRepo *repository.CourseRepository) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
	}
}

// Enroll creates the (user, course) enrollment. A second enrollment for
// the same pair is rejected.
func (s *EnrollmentService) Enroll(userID, courseID uint) (*model.Enrollment, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		return nil, util.ErrCourseNotFound
	}

	_, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID)
	if err == nil {
		return nil, util.ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	enrollment := &model.Enrollment{
		UserID:         userID,
		CourseID:       courseID,
		Status:         model.EnrollmentActive,
		Progress:       0,
		EnrolledAt:     now,
		LastAccessedAt: now,
	}

	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *EnrollmentService) List(userID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByUser(userID)
}

// ReconcileCompleted is the nightly job flipping fully-progressed
// enrollments to completed status.
func (s *EnrollmentService) ReconcileCompleted() {
	changed, err := s.EnrollmentRepo.MarkCompleted()
	if err != nil {
		logger.Log.Error("enrollment reconcile failed", zap.Error(err))
		return
	}
	if changed > 0 {
		logger.Log.Info("enrollments marked completed", zap.Int64("count", changed))
	}
}
