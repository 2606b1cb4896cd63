package repository

import (
	"crypto_edu_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// FindByModuleAndSlug resolves a quiz by module number and section slug.
func (r *QuizRepository) FindByModuleAndSlug(moduleID uint, slug string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Where("module_id = ? AND slug = ?", moduleID, slug).First(&quiz).Error
	return &quiz, err
}

// CreateResponse appends one audit row inside the given transaction.
func (r *QuizRepository) CreateResponse(tx *gorm.DB, response *model.QuizResponse) error {
	return tx.Create(response).Error
}

func (r *QuizRepository) ListResponsesByUser(userID uint) ([]model.QuizResponse, error) {
	var responses []model.QuizResponse
	err := r.DB.Where("user_id = ?", userID).Order("answered_at").Find(&responses).Error
	return responses, err
}

func (r *QuizRepository) CountResponses(userID uint) (total int64, passed int64, err error) {
	err = r.DB.Model(&model.QuizResponse{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return 0, 0, err
	}

	err = r.DB.Model(&model.QuizResponse{}).
		Where("user_id = ? AND is_correct = ?", userID, true).
		Count(&passed).Error
	return total, passed, err
}

// PassRate returns the platform-wide share of passing attempts.
func (r *QuizRepository) PassRate() (float64, error) {
	var total, passed int64
	if err := r.DB.Model(&model.QuizResponse{}).Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	if err := r.DB.Model(&model.QuizResponse{}).
		Where("is_correct = ?", true).
		Count(&passed).Error; err != nil {
		return 0, err
	}
	return float64(passed) / float64(total) * 100, nil
}
