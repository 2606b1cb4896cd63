package service

import (
	"crypto_edu_backend/internal/repository"
)

type MetricsService struct {
	ProgressRepo   *repository.ProgressRepository
	QuizRepo       *repository.QuizRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewMetricsService(
	progressRepo *repository.ProgressRepository,
	quizRepo *repository.QuizRepository,
	enrollmentRepo *repository.EnrollmentRepository,
) *MetricsService {
	return &MetricsService{
		ProgressRepo:   progressRepo,
		QuizRepo:       quizRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

// UserMetrics is the read-only dashboard aggregate. It sits outside the
// write path and never mutates the ledger.
type UserMetrics struct {
	CompletedSections int64   `json:"completedSections"`
	TotalTimeSpent    int64   `json:"totalTimeSpent"`
	AverageQuizScore  float64 `json:"averageQuizScore"`
	QuizAttempts      int64   `json:"quizAttempts"`
	QuizzesPassed     int64   `json:"quizzesPassed"`
	ActiveEnrollments int     `json:"activeEnrollments"`
}

func (s *MetricsService) ForUser(userID uint) (*UserMetrics, error) {
	completed, err := s.ProgressRepo.CountCompleted(userID)
	if err != nil {
		return nil, err
	}

	timeSpent, err := s.ProgressRepo.SumTimeSpent(userID)
	if err != nil {
		return nil, err
	}

	avgScore, err := s.ProgressRepo.AverageQuizScore(userID)
	if err != nil {
		return nil, err
	}

	attempts, passed, err := s.QuizRepo.CountResponses(userID)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.EnrollmentRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	return &UserMetrics{
		CompletedSections: completed,
		TotalTimeSpent:    timeSpent,
		AverageQuizScore:  avgScore,
		QuizAttempts:      attempts,
		QuizzesPassed:     passed,
		ActiveEnrollments: len(enrollments),
	}, nil
}
