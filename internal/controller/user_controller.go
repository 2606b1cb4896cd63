package controller

import (
	"crypto_edu_backend/internal/service"
	"crypto_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	MetricsService *service.MetricsService
}

func NewUserController(metricsService *service.MetricsService) *UserController {
	return &UserController{MetricsService: metricsService}
}

// Metrics godoc
// @Summary Learning dashboard aggregates for the caller
// @Tags user
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.UserMetrics}
// @Failure 401 {object} util.Response
// @Router /api/user/metrics [get]
func (c *UserController) Metrics(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	metrics, err := c.MetricsService.ForUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, metrics)
}
