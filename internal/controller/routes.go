package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"prepwise-backend/internal/apperr"
	"prepwise-backend/utilities"
)

// RegisterRoutes wires every controller onto the router. Everything outside
// /auth sits behind the JWT middleware installed in main.
func RegisterRoutes(
	r *gin.Engine,
	auth *AuthController,
	user *UserController,
	interview *InterviewController,
	history *HistoryController,
	note *NoteController,
	report *ReportController,
	assistant *AssistantController,
) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", auth.Register)
		authGroup.POST("/login", auth.Login)
		authGroup.POST("/refresh", auth.Refresh)
	}

	r.GET("/user/profile", user.Profile)
	r.POST("/chat", assistant.Chat)

	interviews := r.Group("/interviews")
	{
		interviews.POST("/session", interview.StartSession)
		interviews.GET("/history", history.History)
		interviews.GET("/stats", history.UserStats)
		interviews.GET("/:session_id", interview.GetSession)
		interviews.GET("/:session_id/question", interview.NextQuestion)
		interviews.POST("/:session_id/answer", interview.SubmitAnswer)
		interviews.POST("/:session_id/finish", interview.FinishSession)
		interviews.GET("/:session_id/questions-answers", interview.QuestionsAnswers)
		interviews.GET("/:session_id/answers/:question_id", history.AnswerDetail)
		interviews.GET("/:session_id/report", report.Download)
	}

	questions := r.Group("/questions")
	{
		questions.GET("/notes", note.List)
		questions.GET("/:question_id/note", note.Status)
		questions.POST("/:question_id/note", note.Save)
		questions.DELETE("/:question_id/note", note.Remove)
	}
}

// respondError translates a service error into the JSON error envelope.
func respondError(c *gin.Context, err error) {
	c.JSON(apperr.Status(err), gin.H{
		"error": apperr.Message(err),
		"code":  apperr.Kind(err),
	})
}

func currentUser(c *gin.Context) (uint, bool) {
	userID, ok := utilities.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return 0, false
	}
	return userID, true
}

func paramUint(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(v), true
}

func formUint(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.PostForm(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " is required"})
		return 0, false
	}
	return uint(v), true
}
