package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"prepwise-backend/internal/db"
	"prepwise-backend/internal/model"
)

// ErrBudgetRace is returned by IssueQuestion when the conditional counter
// increment matched no row: the session left in_progress, expired, or hit its
// question limit between the caller's check and the commit.
var ErrBudgetRace = errors.New("question budget or session state changed concurrently")

type InterviewRepository interface {
	CreateSession(session *model.InterviewSession) error
	GetSessionByID(id uint) (*model.InterviewSession, error)
	GetSessionsByUser(userID uint) ([]model.InterviewSession, error)
	CompleteSession(sessionID uint, summary string) error

	// IssueQuestion atomically increments the session's questions_asked
	// counter and persists the question in a single transaction. The
	// increment is conditional on status, budget and expiry, so two
	// concurrent calls can never both commit past the question limit.
	IssueQuestion(sessionID uint, question *model.InterviewQuestion, now time.Time) error
	GetQuestionByID(id uint) (*model.InterviewQuestion, error)
	GetQuestionsBySession(sessionID uint) ([]model.InterviewQuestion, error)
	GetRecentQuestions(sessionID uint, limit int) ([]model.InterviewQuestion, error)

	SaveAnswer(answer *model.InterviewAnswer) error
	GetAnswersBySession(sessionID uint) ([]model.InterviewAnswer, error)
	GetAnswer(sessionID, questionID uint) (*model.InterviewAnswer, error)
}

type interviewRepository struct{}

func NewInterviewRepository() InterviewRepository {
	return &interviewRepository{}
}

func (r *interviewRepository) CreateSession(session *model.InterviewSession) error {
	return db.GetDB().Create(session).Error
}

func (r *interviewRepository) GetSessionByID(id uint) (*model.InterviewSession, error) {
	var session model.InterviewSession
	err := db.GetDB().Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *interviewRepository) GetSessionsByUser(userID uint) ([]model.InterviewSession, error) {
	var sessions []model.InterviewSession
	err := db.GetDB().Where("user_id = ?", userID).Order("created_at desc").Find(&sessions).Error
	return sessions, err
}

func (r *interviewRepository) CompleteSession(sessionID uint, summary string) error {
	return db.GetDB().Model(&model.InterviewSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]interface{}{
			"status":  model.SessionCompleted,
			"summary": summary,
		}).Error
}

func (r *interviewRepository) IssueQuestion(sessionID uint, question *model.InterviewQuestion, now time.Time) error {
	return db.GetDB().Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.InterviewSession{}).
			Where("id = ? AND status = ? AND questions_asked < question_limit AND expires_at > ?",
				sessionID, model.SessionInProgress, now).
			Update("questions_asked", gorm.Expr("questions_asked + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBudgetRace
		}
		return tx.Create(question).Error
	})
}

func (r *interviewRepository) GetQuestionByID(id uint) (*model.InterviewQuestion, error) {
	var question model.InterviewQuestion
	err := db.GetDB().Where("id = ?", id).First(&question).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *interviewRepository) GetQuestionsBySession(sessionID uint) ([]model.InterviewQuestion, error) {
	var questions []model.InterviewQuestion
	err := db.GetDB().Where("session_id = ?", sessionID).Order("created_at asc").Find(&questions).Error
	return questions, err
}

func (r *interviewRepository) GetRecentQuestions(sessionID uint, limit int) ([]model.InterviewQuestion, error) {
	var questions []model.InterviewQuestion
	err := db.GetDB().Where("session_id = ?", sessionID).
		Order("created_at desc").Limit(limit).Find(&questions).Error
	return questions, err
}

func (r *interviewRepository) SaveAnswer(answer *model.InterviewAnswer) error {
	return db.GetDB().Create(answer).Error
}

func (r *interviewRepository) GetAnswersBySession(sessionID uint) ([]model.InterviewAnswer, error) {
	var answers []model.InterviewAnswer
	err := db.GetDB().Where("session_id = ?", sessionID).Order("created_at asc").Find(&answers).Error
	return answers, err
}

func (r *interviewRepository) GetAnswer(sessionID, questionID uint) (*model.InterviewAnswer, error) {
	var answer model.InterviewAnswer
	err := db.GetDB().Where("session_id = ? AND question_id = ?", sessionID, questionID).
		Order("created_at asc").First(&answer).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}
