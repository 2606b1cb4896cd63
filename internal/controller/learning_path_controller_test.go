package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crypto_edu_backend/internal/config"
	"crypto_edu_backend/internal/middleware"
	"crypto_edu_backend/internal/model"
	"crypto_edu_backend/internal/repository"
	"crypto_edu_backend/internal/service"
	"crypto_edu_backend/internal/util"
	"crypto_edu_backend/pkg/database"
	"crypto_edu_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type progressTestEnv struct {
	router *gin.Engine
	db     *gorm.DB
	token  string
	course *model.Course
}

func newProgressTestEnv(t *testing.T) *progressTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if logger.Log == nil {
		logger.Log = zap.NewNop()
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	course := &model.Course{
		Slug:  "bitcoin-fundamentals",
		Title: "Bitcoin Fundamentals",
		Modules: []model.CourseModule{
			{
				Number: 1,
				Title:  "Understanding Bitcoin",
				Sections: []model.Section{
					{Slug: "what-is-bitcoin", Title: "What is Bitcoin?", Kind: model.SectionTopic, Order: 1},
					{Slug: "bitcoin-quiz", Title: "Bitcoin Quiz", Kind: model.SectionQuiz, Order: 2},
				},
			},
		},
	}
	require.NoError(t, db.Create(course).Error)

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.Quiz.DefaultPassThreshold = 60

	progressSvc := service.NewProgressService(
		repository.NewProgressRepository(db, nil),
		repository.NewEnrollmentRepository(db),
		repository.NewQuizRepository(db),
		repository.NewCourseRepository(db),
		cfg,
		db,
	)
	ctrl := NewLearningPathController(progressSvc)

	router := gin.New()
	authed := router.Group("/api")
	authed.Use(middleware.AuthMiddleware(cfg))
	{
		authed.POST("/learning-path/progress", ctrl.UpdateProgress)
		authed.GET("/learning-path/progress", ctrl.GetProgress)
		authed.GET("/learning-path/modules/:moduleId", ctrl.GetModuleState)
	}

	token, err := util.GenerateJWT(&model.User{
		BaseModel: model.BaseModel{ID: 1},
		Email:     "student@example.com",
		Role:      model.Student,
	}, cfg.JWT.Secret, time.Hour)
	require.NoError(t, err)

	return &progressTestEnv{router: router, db: db, token: token, course: course}
}

func (e *progressTestEnv) post(t *testing.T, body string, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/learning-path/progress", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestUpdateProgressUnauthorizedWritesNothing(t *testing.T) {
	env := newProgressTestEnv(t)

	body := `{"moduleId":1,"courseId":1,"sectionId":"what-is-bitcoin","completed":true}`
	w := env.post(t, body, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized - Please log in")

	var rows int64
	env.db.Model(&model.SectionProgress{}).Count(&rows)
	assert.Zero(t, rows, "a rejected request must leave no ledger rows")
}

func TestUpdateProgressAcceptsNumericString(t *testing.T) {
	env := newProgressTestEnv(t)

	// Some clients send the ids as strings.
	body := fmt.Sprintf(`{"moduleId":"1","courseId":"%d","sectionId":"what-is-bitcoin","completed":true,"timeSpent":60}`, env.course.ID)
	w := env.post(t, body, env.token)

	assert.Equal(t, http.StatusOK, w.Code)

	var progress model.SectionProgress
	require.NoError(t, env.db.Where("user_id = ? AND module_id = ?", 1, 1).First(&progress).Error)
	assert.True(t, progress.Completed)
}

func TestUpdateProgressRejectsNonNumericModuleID(t *testing.T) {
	env := newProgressTestEnv(t)

	body := `{"moduleId":"abc","courseId":1,"sectionId":"what-is-bitcoin"}`
	w := env.post(t, body, env.token)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProgressReturnsWrittenRows(t *testing.T) {
	env := newProgressTestEnv(t)

	body := fmt.Sprintf(`{"moduleId":1,"courseId":%d,"sectionId":"what-is-bitcoin","completed":true}`, env.course.ID)
	require.Equal(t, http.StatusOK, env.post(t, body, env.token).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/learning-path/progress", nil)
	req.Header.Set("Authorization", "Bearer "+env.token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "what-is-bitcoin")
}

func TestGetModuleStateUnknownModule(t *testing.T) {
	env := newProgressTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/learning-path/modules/42", nil)
	req.Header.Set("Authorization", "Bearer "+env.token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
