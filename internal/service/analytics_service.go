package service

import (
	"crypto_edu_backend/internal/model"
	"crypto_edu_backend/internal/repository"
)

// AnalyticsService backs the admin overview dashboard.
type AnalyticsService struct {
	UserRepo       *repository.UserRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	QuizRepo       *repository.QuizRepository
}

func NewAnalyticsService(
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	quizRepo *repository.QuizRepository,
) *AnalyticsService {
	return &AnalyticsService{
		UserRepo:       userRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		QuizRepo:       quizRepo,
	}
}

type CourseStats struct {
	CourseID    uint   `json:"courseId"`
	Title       string `json:"title"`
	Enrollments int64  `json:"enrollments"`
}

type PlatformOverview struct {
	TotalUsers   int64         `json:"totalUsers"`
	TotalCourses int           `json:"totalCourses"`
	QuizPassRate float64       `json:"quizPassRate"`
	Courses      []CourseStats `json:"courses"`
}

func (s *AnalyticsService) Overview() (*PlatformOverview, error) {
	_, totalUsers, err := s.UserRepo.List(1, 1)
	if err != nil {
		return nil, err
	}

	courses, err := s.CourseRepo.List()
	if err != nil {
		return nil, err
	}

	counts, err := s.EnrollmentRepo.CountByCourse()
	if err != nil {
		return nil, err
	}

	passRate, err := s.QuizRepo.PassRate()
	if err != nil {
		return nil, err
	}

	stats := make([]CourseStats, 0, len(courses))
	for _, c := range courses {
		stats = append(stats, CourseStats{
			CourseID:    c.ID,
			Title:       c.Title,
			Enrollments: counts[c.ID],
		})
	}

	return &PlatformOverview{
		TotalUsers:   totalUsers,
		TotalCourses: len(courses),
		QuizPassRate: passRate,
		Courses:      stats,
	}, nil
}

func (s *AnalyticsService) ListUsers(page, limit int) ([]model.User, int64, error) {
	return s.UserRepo.List(page, limit)
}
