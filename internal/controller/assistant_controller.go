package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prepwise-backend/internal/service"
)

type AssistantController struct {
	AssistantService service.AssistantService
}

func NewAssistantController(assistantService service.AssistantService) *AssistantController {
	return &AssistantController{AssistantService: assistantService}
}

func (ac *AssistantController) Chat(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	var req struct {
		Question       string `json:"question"`
		PreviousAnswer string `json:"previousAnswer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	answer, err := ac.AssistantService.Chat(c.Request.Context(), req.Question, req.PreviousAnswer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
