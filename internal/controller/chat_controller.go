package controller

import (
	"crypto_edu_backend/internal/service"
	"crypto_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ChatController struct {
	ChatService *service.ChatService
}

func NewChatController(chatService *service.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message" binding:"required"`
}

// Stream godoc
// @Summary Ask the AI tutor
// @Description Streams the reply over SSE; omitting sessionId starts a new session
// @Tags chat
// @Accept  json
// @Produce  text/event-stream
// @Security BearerAuth
// @Param   body body ChatRequest true "question"
// @Router /api/chat [post]
func (c *ChatController) Stream(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	stream, errChan := c.ChatService.StreamReply(claims.UserID, req.SessionID, req.Message)

	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")
	ctx.Header("Transfer-Encoding", "chunked")

	ctx.SSEvent("session", req.SessionID)
	ctx.Writer.Flush()

	for content := range stream {
		ctx.SSEvent("message", content)
		ctx.Writer.Flush()
	}

	if err := <-errChan; err != nil {
		ctx.SSEvent("error", err.Error())
		ctx.Writer.Flush()
	}

	ctx.SSEvent("end", "done")
	ctx.Writer.Flush()
}

// History godoc
// @Summary Replay a chat session
// @Tags chat
// @Produce  json
// @Security BearerAuth
// @Param   sessionId path string true "session id"
// @Success 200 {object} util.Response{data=[]model.ChatMessage}
// @Router /api/chat/{sessionId} [get]
func (c *ChatController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	messages, err := c.ChatService.History(claims.UserID, ctx.Param("sessionId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, messages)
}
