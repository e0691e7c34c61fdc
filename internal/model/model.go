package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Session lifecycle states.
const (
	SessionInProgress = "in_progress"
	SessionCompleted  = "completed"
	SessionCancelled  = "cancelled"
)

// Session modes.
const (
	ModeVoice = "voice"
	ModeText  = "text"
)

type User struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	FullName        string    `json:"full_name" gorm:"not null"`
	Email           string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash    string    `json:"-" gorm:"not null"`
	Profession      string    `json:"profession"`
	ExperienceLevel string    `json:"experience_level"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// InterviewSession is one bounded interview-practice attempt. Configuration
// fields are immutable after creation; only Status and QuestionsAsked mutate.
type InterviewSession struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	UserID            uint      `json:"user_id" gorm:"not null;index"`
	Field             string    `json:"field" gorm:"not null"`
	Specialization    string    `json:"specialization" gorm:"not null"`
	ExperienceLevel   string    `json:"experience_level" gorm:"not null"`
	TimeLimit         int       `json:"time_limit" gorm:"not null"` // minutes
	QuestionLimit     int       `json:"question_limit" gorm:"not null"`
	Status            string    `json:"status" gorm:"not null;default:'in_progress'"`
	Mode              string    `json:"mode" gorm:"not null;default:'voice'"`
	DifficultySetting string    `json:"difficulty_setting" gorm:"not null;default:'medium'"`
	QuestionsAsked    int       `json:"questions_asked" gorm:"not null;default:0"`
	Summary           string    `json:"summary,omitempty" gorm:"type:text"`
	StartedAt         time.Time `json:"started_at"`
	ExpiresAt         time.Time `json:"expires_at"`
	CreatedAt         time.Time `json:"created_at"`
}

type InterviewQuestion struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SessionID uint      `json:"session_id" gorm:"not null;index"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// InterviewAnswer holds one evaluated response. A zero Score with empty
// Feedback indicates the evaluation capability was unavailable at submission
// time; the answer artifact itself is still preserved.
type InterviewAnswer struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	SessionID      uint       `json:"session_id" gorm:"not null;index"`
	QuestionID     uint       `json:"question_id" gorm:"not null;index"`
	Transcript     string     `json:"transcript" gorm:"type:text"`
	AudioURL       string     `json:"audio_url"`
	Score          float64    `json:"score"`
	SpeakingScore  float64    `json:"speaking_score"`
	ContentScore   float64    `json:"content_score"`
	RelevanceScore float64    `json:"relevance_score"`
	Feedback       string     `json:"feedback" gorm:"type:text"`
	Strengths      StringList `json:"strengths" gorm:"type:text"`
	Improvements   StringList `json:"improvements" gorm:"type:text"`
	CreatedAt      time.Time  `json:"created_at"`
}

// QuestionNote bookmarks a question for later review, unique per user+question.
type QuestionNote struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;uniqueIndex:uq_question_note"`
	QuestionID uint      `json:"question_id" gorm:"not null;uniqueIndex:uq_question_note"`
	CreatedAt  time.Time `json:"created_at"`
}

// StringList stores a []string as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("unsupported type for StringList")
}
