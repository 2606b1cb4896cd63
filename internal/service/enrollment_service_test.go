package service

import (
	"errors"
	"testing"

	"crypto_edu_backend/internal/model"
	"crypto_edu_backend/internal/repository"
	"crypto_edu_backend/internal/util"
	"crypto_edu_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEnrollmentService(t *testing.T) (*EnrollmentService, *model.Course) {
	t.Helper()

	if logger.Log == nil {
		logger.Log = zap.NewNop()
	}

	db := newTestDB(t)
	course := seedModule(t, db, 60)
	svc := NewEnrollmentService(
		repository.NewEnrollmentRepository(db),
		repository.NewCourseRepository(db),
	)
	return svc, course
}

func TestEnroll(t *testing.T) {
	svc, course := newEnrollmentService(t)

	enrollment, err := svc.Enroll(1, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentActive, enrollment.Status)
	assert.Equal(t, 0, enrollment.Progress)
	assert.False(t, enrollment.EnrolledAt.IsZero())
}

func TestEnrollTwiceRejected(t *testing.T) {
	svc, course := newEnrollmentService(t)

	_, err := svc.Enroll(1, course.ID)
	require.NoError(t, err)

	_, err = svc.Enroll(1, course.ID)
	assert.True(t, errors.Is(err, util.ErrAlreadyEnrolled))

	list, err := svc.List(1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestEnrollUnknownCourse(t *testing.T) {
	svc, _ := newEnrollmentService(t)

	_, err := svc.Enroll(1, 999)
	assert.True(t, errors.Is(err, util.ErrCourseNotFound))
}

func TestReconcileCompleted(t *testing.T) {
	svc, course := newEnrollmentService(t)

	enrollment, err := svc.Enroll(1, course.ID)
	require.NoError(t, err)

	db := svc.EnrollmentRepo.DB
	require.NoError(t, db.Model(enrollment).Update("progress", 100).Error)

	svc.ReconcileCompleted()

	var reloaded model.Enrollment
	require.NoError(t, db.First(&reloaded, enrollment.ID).Error)
	assert.Equal(t, model.EnrollmentCompleted, reloaded.Status)
}
