package service

import (
	"context"
	"crypto_edu_backend/internal/config"
	"crypto_edu_backend/internal/model"
	"crypto_edu_backend/internal/repository"
	"crypto_edu_backend/internal/util"
	"crypto_edu_backend/pkg/database"
	"crypto_edu_backend/pkg/logger"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

func seedModule(t *testing.T, db *gorm.DB, passThreshold float64) *model.Course {
	t.Helper()

	course := &model.Course{
		Slug:  "bitcoin-fundamentals",
		Title: "Bitcoin Fundamentals",
		Level: "beginner",
		Modules: []model.CourseModule{
			{
				Number: 1,
				Title:  "Understanding Bitcoin",
				Sections: []model.Section{
					{Slug: "what-is-bitcoin", Title: "What is Bitcoin?", Kind: model.SectionTopic, Order: 1},
					{Slug: "how-transactions-work", Title: "How Transactions Work", Kind: model.SectionTopic, Order: 2},
					{Slug: "bitcoin-quiz", Title: "Bitcoin Quiz", Kind: model.SectionQuiz, Order: 3},
				},
			},
		},
	}
	require.NoError(t, db.Create(course).Error)

	quiz := &model.Quiz{
		CourseID:      course.ID,
		ModuleID:      1,
		Slug:          "bitcoin-quiz",
		Title:         "Bitcoin Quiz",
		PassThreshold: passThreshold,
	}
	require.NoError(t, db.Create(quiz).Error)

	return course
}

func newTestService(t *testing.T, db *gorm.DB) *ProgressService {
	t.Helper()

	if logger.Log == nil {
		logger.Log = zap.NewNop()
	}

	cfg := &config.Config{}
	cfg.Quiz.DefaultPassThreshold = 60

	return NewProgressService(
		repository.NewProgressRepository(db, nil),
		repository.NewEnrollmentRepository(db),
		repository.NewQuizRepository(db),
		repository.NewCourseRepository(db),
		cfg,
		db,
	)
}

func quizUpdate(courseID uint, score float64) ProgressUpdate {
	return ProgressUpdate{
		ModuleID:  1,
		CourseID:  courseID,
		SectionID: "bitcoin-quiz",
		TimeSpent: 300,
		QuizScore: &score,
	}
}

func TestQuizPassAtThreshold(t *testing.T) {
	db := newTestDB(t)
	course := seedModule(t, db, 60)
	svc := newTestService(t, db)
	ctx := context.Background()

	err := svc.RecordProgress(ctx, 1, quizUpdate(course.ID, 60))
	require.NoError(t, err)

	var progress model.SectionProgress
	require.NoError(t, db.Where("user_id = ? AND module_id = ? AND section_id = ?", 1, 1, "bitcoin-quiz").First(&progress).Error)
	assert.True(t, progress.Completed)
	require.NotNil(t, progress.Score)
	assert.Equal(t, 60.0, *progress.Score)
	assert.NotNil(t, progress.CompletedAt)

	var enrollment model.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, course.ID).First(&enrollment).Error)
	assert.Equal(t, 1, enrollment.Progress, "a passing quiz bumps course progress by one")

	var responses []model.QuizResponse
	require.NoError(t, db.Where("user_id = ?", 1).Find(&responses).Error)
	require.Len(t, responses, 1)
	assert.True(t, responses[0].IsCorrect)
}

func TestQuizFailBelowThreshold(t *testing.T) {
	db := newTestDB(t)
	course := seedModule(t, db, 60)
	svc := newTestService(t, db)
	ctx := context.Background()

	err := svc.RecordProgress(ctx, 1, quizUpdate(course.ID, 59))
	require.NoError(t, err)

	var progress model.SectionProgress
	require.NoError(t, db.Where("user_id = ? AND section_id = ?", 1, "bitcoin-quiz").First(&progress).Error)
	assert.False(t, progress.Completed)
	assert.Nil(t, progress.CompletedAt)

	// The failed attempt still leaves an audit row and an enrollment.
	var responses []model.QuizResponse
	require.NoError(t, db.Where("user_id = ?", 1).Find(&responses).Error)
	require.Len(t, responses, 1)
	assert.False(t, responses[0].IsCorrect)

	var enrollment model.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, course.ID).First(&enrollment).Error)
	assert.Equal(t, 0, enrollment.Progress)
}

func TestQuizPerQuizThresholdOverridesDefault(t *testing.T) {
	db := newTestDB(t)
	course := seedModule(t, db, 70)
	svc := newTestService(t, db)
	ctx := context.Background()

	// 65 clears the configured default of 60 but not this quiz's own bar.
	require.NoError(t, svc.RecordProgress(ctx, 1, quizUpdate(course.ID, 65)))

	var progress model.SectionProgress
	require.NoError(t, db.Where("user_id = ? AND section_id = ?", 1, "bitcoin-quiz").First(&progress).Error)
	assert.False(t, progress.Completed)
}

func TestQuizFailThenPassKeepsBothAuditRows(t *testing.T) {
	db := newTestDB(t)
	course := seedModule(t, db, 60)
	svc := newTestService(t, db)
	ctx := context.Background()

	require.NoError(t, svc.RecordProgress(ctx, 1, quizUpdate(course.ID, 40)))
	require.NoError(t, svc.RecordProgress(ctx, 1, quizUpdate(course.ID, 80)))

	var responses []model.QuizResponse
	require.NoError(t, db.Where("user_id = ?", 1).Order("id").Find(&responses).Error)
	require.Len(t, responses, 2)
	assert.False(t, responses[0].IsCorrect)
	assert.True(t, responses[1].IsCorrect)

	// The ledger row ends up completed with the passing score.
	var progress model.SectionProgress
	require.NoError(t, db.Where("user_id = ? AND section_id = ?", 1, "bitcoin-quiz").First(&progress).Error)
	assert.True(t, progress.Completed)
	require.NotNil(t, progress.Score)
	assert.Equal(t, 80.0, *progress.Score)
	assert.Equal(t, 600, progress.TimeSpent)
}

func TestQuizRetakeAfterPassDoesNotDowngrade(t *testing.T) {
	db := newTestDB(t)
	course := seedModule(t, db, 60)
	svc := newTestService(t, db)
	ctx := context.Background()

	require.NoError(t, svc.RecordProgress(ctx, 1, quizUpdate(course.ID, 90)))

	var before model.SectionProgress
	require.NoError(t, db.Where("user_id = ? AND section_id = ?", 1, "bitcoin-quiz").First(&before).Error)
	require.NotNil(t, before.CompletedAt)

	require.NoError(t, svc.RecordProgress(ctx, 1, quizUpdate(course.ID, 20)))

	var after model.SectionProgress
	require.NoError(t, db.Where("user_id = ? AND section_id = ?", 1, "bitcoin-quiz").First(&after).Error)
	assert.True(t, after.Completed, "a failing retake must not clear completion")
	require.NotNil(t, after.CompletedAt)
	assert.Equal(t, before.CompletedAt.Unix(), after.CompletedAt.Unix())
}

func TestEnrollmentProgressCappedAt100(t *testing.T) {
	db := newTestDB(t)
	course := seedModule(t, db, 60)
	svc := newTestService(t, db)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.Enrollment{
		UserID:   1,
		CourseID: course.ID,
		Status:   model.EnrollmentActive,
		Progress: 100,
	}).Error)

	require.NoError(t, svc.RecordProgress(ctx, 1, quizUpdate(course.ID, 95)))

	var enrollment model.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, course.ID).First(&enrollment).Error)
	assert.Equal(t, 100, enrollment.Progress)
}

func TestTopicEventAccumulates(t *testing.T) {
	db := newTestDB(t)
	course := seedModule(t, db, 60)
	svc := newTestService(t, db)
	ctx := context.Background()

	upd := ProgressUpdate{
		ModuleID:  1,
		CourseID:  course.ID,
		SectionID: "what-is-bitcoin",
		TimeSpent: 100,
		Completed: true,
	}
	require.NoError(t, svc.RecordProgress(ctx, 1, upd))

	upd.Completed = false
	upd.TimeSpent = 50
	require.NoError(t, svc.RecordProgress(ctx, 1, upd))

	var rows []model.SectionProgress
	require.NoError(t, db.Where("user_id = ?", 1).Find(&rows).Error)
	require.Len(t, rows, 1, "repeat events upsert a single row")
	assert.True(t, rows[0].Completed)
	assert.Equal(t, 150, rows[0].TimeSpent)

	// A topic event never creates an enrollment or an audit row.
	var enrollments int64
	db.Model(&model.Enrollment{}).Count(&enrollments)
	assert.Zero(t, enrollments)
	var responses int64
	db.Model(&model.QuizResponse{}).Count(&responses)
	assert.Zero(t, responses)
}

func TestGetModuleStateGating(t *testing.T) {
	db := newTestDB(t)
	course := seedModule(t, db, 60)
	svc := newTestService(t, db)
	ctx := context.Background()

	state, err := svc.GetModuleState(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, state.TotalTopics)
	assert.Equal(t, 0, state.CompletedTopics)
	assert.False(t, state.QuizUnlocked)

	require.NoError(t, svc.RecordProgress(ctx, 1, ProgressUpdate{
		ModuleID: 1, CourseID: course.ID, SectionID: "what-is-bitcoin", Completed: true,
	}))

	state, err = svc.GetModuleState(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, state.CompletedTopics)
	assert.InDelta(t, 50.0, state.PercentComplete, 0.01)
	assert.False(t, state.QuizUnlocked, "quiz stays locked until every topic is done")

	require.NoError(t, svc.RecordProgress(ctx, 1, ProgressUpdate{
		ModuleID: 1, CourseID: course.ID, SectionID: "how-transactions-work", Completed: true,
	}))

	state, err = svc.GetModuleState(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, state.CompletedTopics)
	assert.InDelta(t, 100.0, state.PercentComplete, 0.01)
	assert.True(t, state.QuizUnlocked)
}

// stubCache is a ProgressCache backed by a map, enough to observe the
// service's delete-on-write behavior end to end.
type stubCache struct {
	entries map[string][]byte
}

func (c *stubCache) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := c.entries[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return data, nil
}

func (c *stubCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.entries[key] = value
	return nil
}

func (c *stubCache) Del(_ context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func TestRecordProgressInvalidatesCachedList(t *testing.T) {
	db := newTestDB(t)
	course := seedModule(t, db, 60)
	svc := newTestService(t, db)
	svc.ProgressRepo = repository.NewProgressRepository(db, &stubCache{entries: make(map[string][]byte)})
	ctx := context.Background()

	// Warm the cache with the empty list.
	list, err := svc.GetProgress(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, list)

	require.NoError(t, svc.RecordProgress(ctx, 1, ProgressUpdate{
		ModuleID: 1, CourseID: course.ID, SectionID: "what-is-bitcoin", Completed: true,
	}))

	// The write must drop the cached copy so the next read sees the row.
	list, err = svc.GetProgress(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "what-is-bitcoin", list[0].SectionID)
}

func TestQuizFallsBackToDefaultThreshold(t *testing.T) {
	db := newTestDB(t)
	course := seedModule(t, db, 70)
	svc := newTestService(t, db)
	ctx := context.Background()

	// Without a quiz row the configured default of 60 decides the verdict.
	require.NoError(t, db.Where("module_id = ? AND slug = ?", 1, "bitcoin-quiz").Delete(&model.Quiz{}).Error)

	require.NoError(t, svc.RecordProgress(ctx, 1, quizUpdate(course.ID, 65)))

	var progress model.SectionProgress
	require.NoError(t, db.Where("user_id = ? AND section_id = ?", 1, "bitcoin-quiz").First(&progress).Error)
	assert.True(t, progress.Completed)
}

func TestQuizLookupFailureRejectsEvent(t *testing.T) {
	db := newTestDB(t)
	course := seedModule(t, db, 60)
	svc := newTestService(t, db)
	ctx := context.Background()

	// A broken lookup is not the same as a missing row; the event must not
	// be graded against the default.
	require.NoError(t, db.Migrator().DropTable(&model.Quiz{}))

	err := svc.RecordProgress(ctx, 1, quizUpdate(course.ID, 95))
	assert.ErrorIs(t, err, util.ErrProgressUpdateFailed)

	var progressRows int64
	db.Model(&model.SectionProgress{}).Count(&progressRows)
	assert.Zero(t, progressRows)
	var responses int64
	db.Model(&model.QuizResponse{}).Count(&responses)
	assert.Zero(t, responses)
}

func TestGetModuleStateUnknownModule(t *testing.T) {
	db := newTestDB(t)
	seedModule(t, db, 60)
	svc := newTestService(t, db)

	_, err := svc.GetModuleState(context.Background(), 1, 99)
	assert.Error(t, err)
}
