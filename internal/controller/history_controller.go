package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prepwise-backend/internal/service"
)

type HistoryController struct {
	HistoryService service.HistoryService
}

func NewHistoryController(historyService service.HistoryService) *HistoryController {
	return &HistoryController{HistoryService: historyService}
}

func (hc *HistoryController) History(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	items, stats, err := hc.HistoryService.History(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": items, "stats": stats})
}

func (hc *HistoryController) AnswerDetail(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	sessionID, ok := paramUint(c, "session_id")
	if !ok {
		return
	}
	questionID, ok := paramUint(c, "question_id")
	if !ok {
		return
	}
	detail, err := hc.HistoryService.AnswerDetail(userID, sessionID, questionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (hc *HistoryController) UserStats(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	stats, err := hc.HistoryService.UserStats(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
