package service

import (
	"errors"

	"gorm.io/gorm"

	"prepwise-backend/internal/apperr"
	"prepwise-backend/internal/repository"
)

// NoteService manages bookmarked questions.
type NoteService interface {
	Save(userID, questionID uint) error
	Remove(userID, questionID uint) error
	IsSaved(userID, questionID uint) (bool, error)
	List(userID uint) ([]repository.SavedNote, error)
}

type noteService struct {
	noteRepo      repository.NoteRepository
	interviewRepo repository.InterviewRepository
}

func NewNoteService(noteRepo repository.NoteRepository, interviewRepo repository.InterviewRepository) NoteService {
	return &noteService{noteRepo: noteRepo, interviewRepo: interviewRepo}
}

func (s *noteService) Save(userID, questionID uint) error {
	if _, err := s.interviewRepo.GetQuestionByID(questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.ErrNotFound, "question not found")
		}
		return err
	}
	return s.noteRepo.SaveNote(userID, questionID)
}

func (s *noteService) Remove(userID, questionID uint) error {
	return s.noteRepo.DeleteNote(userID, questionID)
}

func (s *noteService) IsSaved(userID, questionID uint) (bool, error) {
	return s.noteRepo.HasNote(userID, questionID)
}

func (s *noteService) List(userID uint) ([]repository.SavedNote, error) {
	return s.noteRepo.ListNotes(userID)
}
