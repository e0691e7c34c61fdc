package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"prepwise-backend/internal/report"
	"prepwise-backend/internal/service"
)

type ReportController struct {
	InterviewService service.InterviewService
}

func NewReportController(interviewService service.InterviewService) *ReportController {
	return &ReportController{InterviewService: interviewService}
}

// Download renders the result of a completed session as a PDF attachment.
func (rc *ReportController) Download(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	sessionID, ok := paramUint(c, "session_id")
	if !ok {
		return
	}

	result, err := rc.InterviewService.SessionResult(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	pdf, err := report.Render(result)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="interview_report_%d.pdf"`, sessionID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
