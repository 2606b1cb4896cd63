package service

import (
	"context"
	"crypto_edu_backend/internal/config"
	"crypto_edu_backend/internal/model"
	"crypto_edu_backend/internal/repository"
	"crypto_edu_backend/internal/util"
	"crypto_edu_backend/pkg/logger"
	"crypto_edu_backend/pkg/monitoring"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProgressService is the progress ledger. It is the only writer of
// SectionProgress, QuizResponse and Enrollment.Progress; clients hold
// read-only copies and refetch after every write.
type ProgressService struct {
	ProgressRepo   *repository.ProgressRepository
	EnrollmentRepo *repository.EnrollmentRepository
	QuizRepo       *repository.QuizRepository
	CourseRepo     *repository.CourseRepository
	Cfg            *config.Config
	DB             *gorm.DB
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	quizRepo *repository.QuizRepository,
	courseRepo *repository.CourseRepository,
	cfg *config.Config,
	db *gorm.DB,
) *ProgressService {
	return &ProgressService{
		ProgressRepo:   progressRepo,
		EnrollmentRepo: enrollmentRepo,
		QuizRepo:       quizRepo,
		CourseRepo:     courseRepo,
		Cfg:            cfg,
		DB:             db,
	}
}

// ProgressUpdate is one validated ledger request.
type ProgressUpdate struct {
	ModuleID  uint
	CourseID  uint
	SectionID string
	TimeSpent int
	Completed bool
	QuizScore *float64
}

// RecordProgress durably records one learner event. Quiz events (QuizScore
// set) run as a single transaction covering the enrollment, the audit row,
// the ledger upsert and the completion-percentage bump; a failure in any
// step rolls back all of them. Non-quiz events only upsert the ledger row.
func (s *ProgressService) RecordProgress(ctx context.Context, userID uint, upd ProgressUpdate) error {
	var err error
	if upd.QuizScore != nil {
		err = s.recordQuizEvent(userID, upd)
	} else {
		err = s.recordTopicEvent(userID, upd)
	}

	kind := "topic"
	if upd.QuizScore != nil {
		kind = "quiz"
	}

	if err != nil {
		monitoring.ProgressUpdates.WithLabelValues(kind, "error").Inc()
		logger.Log.Error("progress update failed",
			zap.Uint("userID", userID),
			zap.Uint("moduleID", upd.ModuleID),
			zap.String("sectionID", upd.SectionID),
			zap.Error(err),
		)
		return util.ErrProgressUpdateFailed
	}

	monitoring.ProgressUpdates.WithLabelValues(kind, "ok").Inc()
	s.ProgressRepo.InvalidateCache(ctx, userID)
	return nil
}

// passThreshold resolves the named passing bar for a quiz section. Each
// quiz carries its own threshold; sections without a quiz row fall back to
// the configured default. Lookup failures other than a missing row are
// surfaced so the event is not graded against the wrong bar.
func (s *ProgressService) passThreshold(upd ProgressUpdate) (float64, uint, error) {
	quiz, err := s.QuizRepo.FindByModuleAndSlug(upd.ModuleID, upd.SectionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.Cfg.DefaultPassThreshold(), 0, nil
	}
	if err != nil {
		return 0, 0, err
	}
	return quiz.PassThreshold, quiz.ID, nil
}

func (s *ProgressService) recordQuizEvent(userID uint, upd ProgressUpdate) error {
	threshold, quizID, err := s.passThreshold(upd)
	if err != nil {
		return err
	}

	// Pass/fail is decided once, up front, and the same verdict flows
	// through every write below.
	isPassed := *upd.QuizScore >= threshold
	now := time.Now()

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var enrollment model.Enrollment
		err := tx.Where("user_id = ? AND course_id = ?", userID, upd.CourseID).
			First(&enrollment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			enrollment = model.Enrollment{
				UserID:         userID,
				CourseID:       upd.CourseID,
				Status:         model.EnrollmentActive,
				Progress:       0,
				EnrolledAt:     now,
				LastAccessedAt: now,
			}
			if err := tx.Create(&enrollment).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		// Audit row goes in whether the attempt passed or not.
		response := &model.QuizResponse{
			UserID:     userID,
			CourseID:   upd.CourseID,
			ModuleID:   upd.ModuleID,
			QuizID:     quizID,
			IsCorrect:  isPassed,
			TimeSpent:  upd.TimeSpent,
			AnsweredAt: now,
		}
		if err := s.QuizRepo.CreateResponse(tx, response); err != nil {
			return err
		}

		existing, err := s.ProgressRepo.Find(tx, userID, upd.ModuleID, upd.SectionID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		merged := MergeProgress(existing, ProgressEvent{
			UserID:    userID,
			ModuleID:  upd.ModuleID,
			SectionID: upd.SectionID,
			Completed: isPassed,
			Score:     upd.QuizScore,
			TimeSpent: upd.TimeSpent,
		}, now)
		if err := s.ProgressRepo.Save(tx, &merged); err != nil {
			return err
		}

		if isPassed {
			progress := enrollment.Progress + 1
			if progress > 100 {
				progress = 100
			}
			return tx.Model(&model.Enrollment{}).
				Where("id = ?", enrollment.ID).
				Updates(map[string]interface{}{
					"progress":         progress,
					"last_accessed_at": now,
				}).Error
		}

		return s.EnrollmentRepo.TouchLastAccessed(tx, userID, upd.CourseID)
	})
}

func (s *ProgressService) recordTopicEvent(userID uint, upd ProgressUpdate) error {
	now := time.Now()

	return s.DB.Transaction(func(tx *gorm.DB) error {
		existing, err := s.ProgressRepo.Find(tx, userID, upd.ModuleID, upd.SectionID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		merged := MergeProgress(existing, ProgressEvent{
			UserID:    userID,
			ModuleID:  upd.ModuleID,
			SectionID: upd.SectionID,
			Completed: upd.Completed,
			TimeSpent: upd.TimeSpent,
		}, now)
		return s.ProgressRepo.Save(tx, &merged)
	})
}

// GetProgress returns the user's full progress list.
func (s *ProgressService) GetProgress(ctx context.Context, userID uint) ([]model.SectionProgress, error) {
	return s.ProgressRepo.ListByUser(ctx, userID)
}

// SectionState is one section of a module page with the learner's state.
type SectionState struct {
	Slug      string            `json:"slug"`
	Title     string            `json:"title"`
	Kind      model.SectionKind `json:"kind"`
	Order     int               `json:"order"`
	Completed bool              `json:"completed"`
	Score     *float64          `json:"score,omitempty"`
}

// ModuleState drives the gated module page: per-section completion, the
// derived completion ratio and whether the module quiz is unlocked.
type ModuleState struct {
	ModuleID        uint           `json:"moduleId"`
	Title           string         `json:"title"`
	Sections        []SectionState `json:"sections"`
	CompletedTopics int            `json:"completedTopics"`
	TotalTopics     int            `json:"totalTopics"`
	PercentComplete float64        `json:"percentComplete"`
	QuizUnlocked    bool           `json:"quizUnlocked"`
}

// GetModuleState assembles the gating view for one module. The quiz is
// unlocked only when every topic section is completed.
func (s *ProgressService) GetModuleState(ctx context.Context, userID, moduleNumber uint) (*ModuleState, error) {
	module, err := s.CourseRepo.FindModuleByNumber(moduleNumber)
	if err != nil {
		return nil, util.ErrModuleNotFound
	}

	list, err := s.ProgressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	completed := make(map[string]*model.SectionProgress, len(list))
	for i := range list {
		if list[i].ModuleID == moduleNumber {
			completed[list[i].SectionID] = &list[i]
		}
	}

	state := &ModuleState{
		ModuleID: moduleNumber,
		Title:    module.Title,
		Sections: make([]SectionState, 0, len(module.Sections)),
	}

	for _, section := range module.Sections {
		ss := SectionState{
			Slug:  section.Slug,
			Title: section.Title,
			Kind:  section.Kind,
			Order: section.Order,
		}
		if p, ok := completed[section.Slug]; ok {
			ss.Completed = p.Completed
			ss.Score = p.Score
		}
		if section.Kind == model.SectionTopic {
			state.TotalTopics++
			if ss.Completed {
				state.CompletedTopics++
			}
		}
		state.Sections = append(state.Sections, ss)
	}

	if state.TotalTopics > 0 {
		state.PercentComplete = float64(state.CompletedTopics) / float64(state.TotalTopics) * 100
	}
	state.QuizUnlocked = state.TotalTopics > 0 && state.CompletedTopics == state.TotalTopics

	return state, nil
}
