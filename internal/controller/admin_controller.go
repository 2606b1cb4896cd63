package controller

import (
	"crypto_edu_backend/internal/service"
	"crypto_edu_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAdminController(analyticsService *service.AnalyticsService) *AdminController {
	return &AdminController{AnalyticsService: analyticsService}
}

// ListUsers godoc
// @Summary List registered users
// @Tags admin
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "page, default 1"
// @Param   limit query int false "page size, default 20"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Failure 403 {object} util.Response
// @Router /api/admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, total, err := c.AnalyticsService.ListUsers(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: users, Total: total, Page: page, Limit: limit})
}

// Overview godoc
// @Summary Platform-wide analytics
// @Tags admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.PlatformOverview}
// @Failure 403 {object} util.Response
// @Router /api/admin/analytics [get]
func (c *AdminController) Overview(ctx *gin.Context) {
	overview, err := c.AnalyticsService.Overview()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, overview)
}
