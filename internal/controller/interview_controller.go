package controller

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"prepwise-backend/internal/service"
	"prepwise-backend/internal/storage"
)

type InterviewController struct {
	InterviewService service.InterviewService
}

func NewInterviewController(interviewService service.InterviewService) *InterviewController {
	return &InterviewController{InterviewService: interviewService}
}

func (ic *InterviewController) StartSession(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.StartSessionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	session, err := ic.InterviewService.StartSession(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"session_id":       session.ID,
		"field":            session.Field,
		"specialization":   session.Specialization,
		"experience_level": session.ExperienceLevel,
		"time_limit":       session.TimeLimit,
		"question_limit":   session.QuestionLimit,
		"mode":             session.Mode,
		"difficulty":       session.DifficultySetting,
		"status":           session.Status,
		"expires_at":       session.ExpiresAt,
	})
}

func (ic *InterviewController) NextQuestion(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	sessionID, ok := paramUint(c, "session_id")
	if !ok {
		return
	}
	issue, err := ic.InterviewService.NextQuestion(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, issue)
}

// SubmitAnswer accepts either a JSON body with a text answer or a multipart
// form carrying an audio recording.
func (ic *InterviewController) SubmitAnswer(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	sessionID, ok := paramUint(c, "session_id")
	if !ok {
		return
	}

	var in service.SubmitAnswerInput
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		questionID, ok := formUint(c, "question_id")
		if !ok {
			return
		}
		in.QuestionID = questionID

		fileHeader, err := c.FormFile("audio")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
			return
		}
		if fileHeader.Size > storage.MaxAudioBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "audio file exceeds the 50MB limit"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read audio file"})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, storage.MaxAudioBytes+1))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read audio file"})
			return
		}
		in.Audio = data
		in.AudioContentType = fileHeader.Header.Get("Content-Type")
	} else {
		var req struct {
			QuestionID uint   `json:"question_id" binding:"required"`
			Answer     string `json:"answer" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "question_id and answer are required"})
			return
		}
		in.QuestionID = req.QuestionID
		in.Text = req.Answer
	}

	submission, err := ic.InterviewService.SubmitAnswer(c.Request.Context(), userID, sessionID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

func (ic *InterviewController) FinishSession(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	sessionID, ok := paramUint(c, "session_id")
	if !ok {
		return
	}
	result, err := ic.InterviewService.FinishSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (ic *InterviewController) GetSession(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	sessionID, ok := paramUint(c, "session_id")
	if !ok {
		return
	}
	session, err := ic.InterviewService.GetOwnedSession(userID, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (ic *InterviewController) QuestionsAnswers(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	sessionID, ok := paramUint(c, "session_id")
	if !ok {
		return
	}
	pairs, err := ic.InterviewService.QuestionsAnswers(userID, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "questions": pairs})
}
