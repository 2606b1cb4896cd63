package controller

import (
	"crypto_edu_backend/internal/service"
	"crypto_edu_backend/internal/util"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

type LearningPathController struct {
	ProgressService *service.ProgressService
}

func NewLearningPathController(progressService *service.ProgressService) *LearningPathController {
	return &LearningPathController{ProgressService: progressService}
}

// ProgressRequest is one learner event. ModuleID and CourseID come in as
// json.Number because clients send them both as numbers and as numeric
// strings.
type ProgressRequest struct {
	ModuleID  json.Number `json:"moduleId" binding:"required"`
	CourseID  json.Number `json:"courseId" binding:"required"`
	SectionID string      `json:"sectionId" binding:"required"`
	TimeSpent int         `json:"timeSpent"`
	Completed bool        `json:"completed"`
	QuizScore *float64    `json:"quizScore"`
}

// UpdateProgress godoc
// @Summary Record learning progress
// @Description Upserts the section progress row; quiz submissions also record an attempt and bump course progress
// @Tags learning-path
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ProgressRequest true "progress event"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Failure 500 {object} util.Response "Failed to update progress"
// @Router /api/learning-path/progress [post]
func (c *LearningPathController) UpdateProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	moduleID, err := util.ParseUint(req.ModuleID.String())
	if err != nil {
		util.BadRequest(ctx, "moduleId must be numeric")
		return
	}
	courseID, err := util.ParseUint(req.CourseID.String())
	if err != nil {
		util.BadRequest(ctx, "courseId must be numeric")
		return
	}

	upd := service.ProgressUpdate{
		ModuleID:  moduleID,
		CourseID:  courseID,
		SectionID: req.SectionID,
		TimeSpent: req.TimeSpent,
		Completed: req.Completed,
		QuizScore: req.QuizScore,
	}

	if err := c.ProgressService.RecordProgress(ctx.Request.Context(), claims.UserID, upd); err != nil {
		util.Error(ctx, http.StatusInternalServerError, "Failed to update progress")
		return
	}

	util.Success(ctx, nil)
}

// GetProgress godoc
// @Summary List the caller's progress rows
// @Tags learning-path
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.SectionProgress}
// @Failure 401 {object} util.Response
// @Router /api/learning-path/progress [get]
func (c *LearningPathController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	list, err := c.ProgressService.GetProgress(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, list)
}

// GetModuleState godoc
// @Summary Module page state with quiz gating
// @Description Per-section completion plus whether the module quiz is unlocked
// @Tags learning-path
// @Produce  json
// @Security BearerAuth
// @Param   moduleId path int true "module number"
// @Success 200 {object} util.Response{data=service.ModuleState}
// @Failure 404 {object} util.Response
// @Router /api/learning-path/modules/{moduleId} [get]
func (c *LearningPathController) GetModuleState(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	moduleID, err := util.ParseUint(ctx.Param("moduleId"))
	if err != nil {
		util.BadRequest(ctx, "moduleId must be numeric")
		return
	}

	state, err := c.ProgressService.GetModuleState(ctx.Request.Context(), claims.UserID, moduleID)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, state)
}
