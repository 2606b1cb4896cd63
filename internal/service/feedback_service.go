package service

import (
	"crypto_edu_backend/internal/model"
	"crypto_edu_backend/internal/repository"
	"crypto_edu_backend/internal/util"
)

type FeedbackService struct {
	FeedbackRepo *repository.FeedbackRepository
	CourseRepo   *repository.CourseRepository
}

func NewFeedbackService(feedbackRepo *repository.FeedbackRepository, courseRepo *repository.CourseRepository) *FeedbackService {
	return &FeedbackService{
		FeedbackRepo: feedbackRepo,
		CourseRepo:   courseRepo,
	}
}

func (s *FeedbackService) Submit(userID, courseID uint, rating int, comment string) (*model.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, util.ErrInvalidRating
	}
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		return nil, util.ErrCourseNotFound
	}

	feedback := &model.Feedback{
		UserID:   userID,
		CourseID: courseID,
		Rating:   rating,
		Comment:  comment,
	}
	if err := s.FeedbackRepo.Create(feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

func (s *FeedbackService) ListByCourse(courseID uint, page, limit int) ([]model.Feedback, int64, error) {
	return s.FeedbackRepo.ListByCourse(courseID, page, limit)
}
