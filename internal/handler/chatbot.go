package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careplus/pharmacy-api/internal/chatbot"
	"github.com/careplus/pharmacy-api/internal/dto"
	"github.com/careplus/pharmacy-api/internal/middleware"
)

type ChatbotHandler struct {
	chatbotService *chatbot.Service
}

func NewChatbotHandler(chatbotService *chatbot.Service) *ChatbotHandler {
	return &ChatbotHandler{chatbotService: chatbotService}
}

func (h *ChatbotHandler) Ask(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	messages := h.chatbotService.Ask(c.Request.Context(), middleware.GetUserID(c), req.Message)
	c.JSON(http.StatusOK, dto.ChatResponse{Messages: messages})
}

func (h *ChatbotHandler) Suggestions(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ChatResponse{
		Suggestions: h.chatbotService.Suggestions(c.Request.Context(), 4),
	})
}
