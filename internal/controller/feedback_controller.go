package controller

import (
	"crypto_edu_backend/internal/service"
	"crypto_edu_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type FeedbackController struct {
	FeedbackService *service.FeedbackService
}

func NewFeedbackController(feedbackService *service.FeedbackService) *FeedbackController {
	return &FeedbackController{FeedbackService: feedbackService}
}

type FeedbackRequest struct {
	CourseID uint   `json:"courseId" binding:"required"`
	Rating   int    `json:"rating" binding:"required"`
	Comment  string `json:"comment"`
}

// Submit godoc
// @Summary Submit course feedback
// @Tags feedback
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body FeedbackRequest true "feedback"
// @Success 201 {object} util.Response{data=model.Feedback}
// @Failure 400 {object} util.Response
// @Router /api/feedback [post]
func (c *FeedbackController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req FeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	feedback, err := c.FeedbackService.Submit(claims.UserID, req.CourseID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidRating):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, feedback)
}

// ListByCourse godoc
// @Summary List feedback for a course
// @Tags feedback
// @Produce  json
// @Param   courseId path int true "course id"
// @Param   page query int false "page, default 1"
// @Param   limit query int false "page size, default 20"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/feedback/{courseId} [get]
func (c *FeedbackController) ListByCourse(ctx *gin.Context) {
	courseID, err := util.ParseUint(ctx.Param("courseId"))
	if err != nil {
		util.BadRequest(ctx, "courseId must be numeric")
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	list, total, err := c.FeedbackService.ListByCourse(courseID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: list, Total: total, Page: page, Limit: limit})
}
