package repository

import (
	"errors"

	"gorm.io/gorm"

	"prepwise-backend/internal/db"
	"prepwise-backend/internal/model"
)

// SavedNote is a bookmarked question joined with its session and first answer.
type SavedNote struct {
	QuestionID uint
	Question   string
	Field      string
	SavedAt    string
	Excerpt    string
	Score      *float64
}

type NoteRepository interface {
	SaveNote(userID, questionID uint) error
	DeleteNote(userID, questionID uint) error
	HasNote(userID, questionID uint) (bool, error)
	ListNotes(userID uint) ([]SavedNote, error)
}

type noteRepository struct{}

func NewNoteRepository() NoteRepository {
	return &noteRepository{}
}

func (r *noteRepository) SaveNote(userID, questionID uint) error {
	var existing model.QuestionNote
	err := db.GetDB().Where("user_id = ? AND question_id = ?", userID, questionID).First(&existing).Error
	if err == nil {
		return nil // already saved
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.GetDB().Create(&model.QuestionNote{UserID: userID, QuestionID: questionID}).Error
}

func (r *noteRepository) DeleteNote(userID, questionID uint) error {
	return db.GetDB().Where("user_id = ? AND question_id = ?", userID, questionID).
		Delete(&model.QuestionNote{}).Error
}

func (r *noteRepository) HasNote(userID, questionID uint) (bool, error) {
	var count int64
	err := db.GetDB().Model(&model.QuestionNote{}).
		Where("user_id = ? AND question_id = ?", userID, questionID).Count(&count).Error
	return count > 0, err
}

func (r *noteRepository) ListNotes(userID uint) ([]SavedNote, error) {
	var notes []model.QuestionNote
	err := db.GetDB().Where("user_id = ?", userID).Order("created_at desc").Find(&notes).Error
	if err != nil {
		return nil, err
	}

	results := make([]SavedNote, 0, len(notes))
	for _, note := range notes {
		var question model.InterviewQuestion
		if err := db.GetDB().Where("id = ?", note.QuestionID).First(&question).Error; err != nil {
			continue
		}
		var session model.InterviewSession
		if err := db.GetDB().Where("id = ?", question.SessionID).First(&session).Error; err != nil {
			continue
		}

		item := SavedNote{
			QuestionID: question.ID,
			Question:   question.Content,
			Field:      session.Field,
			SavedAt:    note.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}

		var answer model.InterviewAnswer
		if err := db.GetDB().Where("question_id = ?", note.QuestionID).
			Order("created_at asc").First(&answer).Error; err == nil {
			excerpt := answer.Transcript
			if len(excerpt) > 200 {
				excerpt = excerpt[:200]
			}
			item.Excerpt = excerpt
			score := answer.Score
			item.Score = &score
		}

		results = append(results, item)
	}
	return results, nil
}
