package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prepwise-backend/internal/service"
)

type NoteController struct {
	NoteService service.NoteService
}

func NewNoteController(noteService service.NoteService) *NoteController {
	return &NoteController{NoteService: noteService}
}

func (nc *NoteController) Save(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	questionID, ok := paramUint(c, "question_id")
	if !ok {
		return
	}
	if err := nc.NoteService.Save(userID, questionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true, "question_id": questionID})
}

func (nc *NoteController) Remove(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	questionID, ok := paramUint(c, "question_id")
	if !ok {
		return
	}
	if err := nc.NoteService.Remove(userID, questionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": false, "question_id": questionID})
}

func (nc *NoteController) Status(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	questionID, ok := paramUint(c, "question_id")
	if !ok {
		return
	}
	saved, err := nc.NoteService.IsSaved(userID, questionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved, "question_id": questionID})
}

func (nc *NoteController) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	notes, err := nc.NoteService.List(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}
