package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"prepwise-backend/internal/apperr"
	"prepwise-backend/internal/llm"
	"prepwise-backend/internal/model"
	"prepwise-backend/internal/repository"
	"prepwise-backend/internal/speech"
	"prepwise-backend/internal/storage"
	"prepwise-backend/utilities"
)

// Session configuration bounds.
const (
	MinTimeLimit     = 5
	MaxTimeLimit     = 120
	MinQuestionLimit = 1
	MaxQuestionLimit = 20

	recentQuestionWindow = 3
)

// replaceable in tests
var timeNow = time.Now

// questionGenerator, answerEvaluator and transcriptSummarizer are the
// language-capability seams the state machine depends on.
type questionGenerator interface {
	Generate(ctx context.Context, session *model.InterviewSession, recent []string) (string, error)
}

type answerEvaluator interface {
	EvaluateText(ctx context.Context, question, answer string) (*llm.Evaluation, error)
	EvaluateAudio(ctx context.Context, question, audioURL string) (*llm.Evaluation, error)
}

type transcriptSummarizer interface {
	Summarize(ctx context.Context, transcript []llm.TranscriptEntry, session *model.InterviewSession) (string, error)
}

type StartSessionInput struct {
	Field           string `json:"field"`
	Specialization  string `json:"specialization"`
	ExperienceLevel string `json:"experience_level"`
	TimeLimit       int    `json:"time_limit"`
	QuestionLimit   int    `json:"question_limit"`
	Mode            string `json:"mode"`
	Difficulty      string `json:"difficulty"`
}

type SubmitAnswerInput struct {
	QuestionID       uint
	Text             string
	Audio            []byte
	AudioContentType string
}

type QuestionIssue struct {
	QuestionID     uint   `json:"question_id"`
	Question       string `json:"question"`
	QuestionNumber int    `json:"question_number"`
	TotalQuestions int    `json:"total_questions"`
}

type AnswerSubmission struct {
	AudioURL              string          `json:"audio_url,omitempty"`
	Evaluation            *llm.Evaluation `json:"evaluation"`
	Degraded              bool            `json:"degraded"`
	NextQuestionAvailable bool            `json:"next_question_available"`
}

type SessionStats struct {
	TotalQuestions  int    `json:"total_questions"`
	QuestionsAsked  int    `json:"questions_asked"`
	TimeLimit       int    `json:"time_limit"`
	Field           string `json:"field"`
	Specialization  string `json:"specialization"`
	ExperienceLevel string `json:"experience_level"`
	Difficulty      string `json:"difficulty"`
}

// SessionResult is the full outcome of a finished session.
type SessionResult struct {
	SessionID        uint                  `json:"session_id"`
	Summary          string                `json:"summary"`
	TotalScore       float64               `json:"total_score"`
	MaxPossibleScore float64               `json:"max_possible_score"`
	AverageScore     float64               `json:"average_score"`
	ScorePercentage  float64               `json:"score_percentage"`
	PerformanceLevel string                `json:"performance_level"`
	Transcript       []llm.TranscriptEntry `json:"transcript"`
	Stats            SessionStats          `json:"session_stats"`
}

type QuestionAnswer struct {
	QuestionID uint     `json:"question_id"`
	Question   string   `json:"question"`
	Answer     *string  `json:"answer"`
	Feedback   *string  `json:"feedback"`
	Score      *float64 `json:"score"`
	AudioURL   *string  `json:"audio_url"`
	CreatedAt  string   `json:"created_at"`
}

// InterviewService owns the session lifecycle: creation, question issuance
// within the question/time budget, answer evaluation and session finish.
type InterviewService interface {
	StartSession(ctx context.Context, userID uint, in StartSessionInput) (*model.InterviewSession, error)
	NextQuestion(ctx context.Context, userID, sessionID uint) (*QuestionIssue, error)
	SubmitAnswer(ctx context.Context, userID, sessionID uint, in SubmitAnswerInput) (*AnswerSubmission, error)
	FinishSession(ctx context.Context, userID, sessionID uint) (*SessionResult, error)
	SessionResult(ctx context.Context, userID, sessionID uint) (*SessionResult, error)
	GetOwnedSession(userID, sessionID uint) (*model.InterviewSession, error)
	QuestionsAnswers(userID, sessionID uint) ([]QuestionAnswer, error)
}

type interviewService struct {
	repo        repository.InterviewRepository
	generator   questionGenerator
	evaluator   answerEvaluator
	summarizer  transcriptSummarizer
	transcriber speech.Transcriber // nil when direct audio evaluation is used
	store       storage.BlobStore
	language    string
	events      *utilities.EventBus
}

func NewInterviewService(
	repo repository.InterviewRepository,
	generator questionGenerator,
	evaluator answerEvaluator,
	summarizer transcriptSummarizer,
	transcriber speech.Transcriber,
	store storage.BlobStore,
	language string,
	events *utilities.EventBus,
) InterviewService {
	return &interviewService{
		repo:        repo,
		generator:   generator,
		evaluator:   evaluator,
		summarizer:  summarizer,
		transcriber: transcriber,
		store:       store,
		language:    language,
		events:      events,
	}
}

func (s *interviewService) StartSession(ctx context.Context, userID uint, in StartSessionInput) (*model.InterviewSession, error) {
	if in.Field == "" || in.Specialization == "" || in.ExperienceLevel == "" {
		return nil, apperr.New(apperr.ErrValidation, "field, specialization and experience_level are required")
	}
	if in.TimeLimit < MinTimeLimit || in.TimeLimit > MaxTimeLimit {
		return nil, apperr.Newf(apperr.ErrValidation, "time_limit must be between %d and %d minutes", MinTimeLimit, MaxTimeLimit)
	}
	if in.QuestionLimit < MinQuestionLimit || in.QuestionLimit > MaxQuestionLimit {
		return nil, apperr.Newf(apperr.ErrValidation, "question_limit must be between %d and %d", MinQuestionLimit, MaxQuestionLimit)
	}

	mode := in.Mode
	if mode == "" {
		mode = model.ModeVoice
	}
	if mode != model.ModeVoice && mode != model.ModeText {
		return nil, apperr.Newf(apperr.ErrValidation, "mode must be %q or %q", model.ModeVoice, model.ModeText)
	}
	difficulty := in.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}

	now := timeNow().UTC()
	session := &model.InterviewSession{
		UserID:            userID,
		Field:             in.Field,
		Specialization:    in.Specialization,
		ExperienceLevel:   in.ExperienceLevel,
		TimeLimit:         in.TimeLimit,
		QuestionLimit:     in.QuestionLimit,
		Status:            model.SessionInProgress,
		Mode:              mode,
		DifficultySetting: difficulty,
		QuestionsAsked:    0,
		StartedAt:         now,
		ExpiresAt:         now.Add(time.Duration(in.TimeLimit) * time.Minute),
		CreatedAt:         now,
	}

	if err := s.repo.CreateSession(session); err != nil {
		return nil, err
	}
	utilities.Info("session %d created for user %d (%s/%s, %d questions, %d min)",
		session.ID, userID, in.Field, in.Specialization, in.QuestionLimit, in.TimeLimit)
	return session, nil
}

func (s *interviewService) NextQuestion(ctx context.Context, userID, sessionID uint) (*QuestionIssue, error) {
	session, err := s.GetOwnedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionInProgress {
		return nil, apperr.New(apperr.ErrInvalidState, "interview session has ended")
	}
	if session.QuestionsAsked >= session.QuestionLimit {
		return nil, apperr.New(apperr.ErrBudgetExhausted, "question limit reached")
	}
	now := timeNow().UTC()
	if now.After(session.ExpiresAt) {
		return nil, apperr.New(apperr.ErrExpired, "interview session time is up")
	}

	recent, err := s.repo.GetRecentQuestions(sessionID, recentQuestionWindow)
	if err != nil {
		return nil, err
	}
	history := make([]string, 0, len(recent))
	for _, q := range recent {
		history = append(history, q.Content)
	}

	// The generator call happens outside any transaction so a slow upstream
	// cannot hold a database lock.
	text, err := s.generator.Generate(ctx, session, history)
	if err != nil {
		return nil, err
	}

	question := &model.InterviewQuestion{
		SessionID: sessionID,
		Content:   text,
		CreatedAt: now,
	}
	if err := s.repo.IssueQuestion(sessionID, question, now); err != nil {
		if errors.Is(err, repository.ErrBudgetRace) {
			return nil, s.classifyIssueRace(userID, sessionID)
		}
		return nil, err
	}

	return &QuestionIssue{
		QuestionID:     question.ID,
		Question:       text,
		QuestionNumber: session.QuestionsAsked + 1,
		TotalQuestions: session.QuestionLimit,
	}, nil
}

// classifyIssueRace re-reads the session after a lost conditional increment to
// report the precise failure kind.
func (s *interviewService) classifyIssueRace(userID, sessionID uint) error {
	session, err := s.GetOwnedSession(userID, sessionID)
	if err != nil {
		return err
	}
	switch {
	case session.Status != model.SessionInProgress:
		return apperr.New(apperr.ErrInvalidState, "interview session has ended")
	case timeNow().UTC().After(session.ExpiresAt):
		return apperr.New(apperr.ErrExpired, "interview session time is up")
	default:
		return apperr.New(apperr.ErrBudgetExhausted, "question limit reached")
	}
}

func (s *interviewService) SubmitAnswer(ctx context.Context, userID, sessionID uint, in SubmitAnswerInput) (*AnswerSubmission, error) {
	session, err := s.GetOwnedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionInProgress {
		return nil, apperr.New(apperr.ErrInvalidState, "interview session has ended")
	}

	question, err := s.repo.GetQuestionByID(in.QuestionID)
	if err != nil || question.SessionID != sessionID {
		return nil, apperr.New(apperr.ErrNotFound, "question not found in this session")
	}

	if len(in.Audio) == 0 && in.Text == "" {
		return nil, apperr.New(apperr.ErrValidation, "either an audio file or answer text is required")
	}

	var (
		audioURL string
		eval     *llm.Evaluation
		evalErr  error
	)

	if len(in.Audio) > 0 {
		// Durable storage first: the artifact must survive even when the
		// AI layer is down. Storage failures fail the submission.
		audioURL, err = s.store.StoreAudio(ctx, in.Audio, in.AudioContentType)
		if err != nil {
			return nil, err
		}

		if s.transcriber != nil {
			var transcript string
			transcript, evalErr = s.transcriber.Transcribe(ctx, audioURL, s.language)
			if evalErr == nil {
				eval, evalErr = s.evaluator.EvaluateText(ctx, question.Content, transcript)
			}
		} else {
			eval, evalErr = s.evaluator.EvaluateAudio(ctx, question.Content, audioURL)
		}
	} else {
		eval, evalErr = s.evaluator.EvaluateText(ctx, question.Content, in.Text)
	}

	degraded := false
	if evalErr != nil {
		// Deliberate fail-open: the submission artifact is kept with a
		// zero-filled score rather than rejected.
		utilities.Warn("evaluation unavailable for session %d question %d: %v", sessionID, in.QuestionID, evalErr)
		eval = llm.ZeroEvaluation()
		if len(in.Audio) == 0 {
			eval.Transcript = in.Text
		}
		degraded = true
		if s.events != nil {
			s.events.Publish(utilities.EventAnswerDegraded, sessionID)
		}
	}

	answer := &model.InterviewAnswer{
		SessionID:      sessionID,
		QuestionID:     in.QuestionID,
		Transcript:     eval.Transcript,
		AudioURL:       audioURL,
		Score:          eval.Score,
		SpeakingScore:  eval.Breakdown.Speaking,
		ContentScore:   eval.Breakdown.Content,
		RelevanceScore: eval.Breakdown.Relevance,
		Feedback:       eval.Feedback,
		Strengths:      model.StringList(eval.Strengths),
		Improvements:   model.StringList(eval.Improvements),
		CreatedAt:      timeNow().UTC(),
	}
	if err := s.repo.SaveAnswer(answer); err != nil {
		return nil, err
	}

	return &AnswerSubmission{
		AudioURL:              audioURL,
		Evaluation:            eval,
		Degraded:              degraded,
		NextQuestionAvailable: session.QuestionsAsked < session.QuestionLimit,
	}, nil
}

func (s *interviewService) FinishSession(ctx context.Context, userID, sessionID uint) (*SessionResult, error) {
	session, err := s.GetOwnedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}

	answers, err := s.repo.GetAnswersBySession(sessionID)
	if err != nil {
		return nil, err
	}
	if len(answers) == 0 {
		return nil, apperr.New(apperr.ErrNoAnswers, "no answers to evaluate")
	}

	agg := AggregateAnswers(answers)
	transcript, err := s.buildTranscript(sessionID, answers)
	if err != nil {
		return nil, err
	}

	// Summarization failure aborts the finish: no status transition occurs.
	summary, err := s.summarizer.Summarize(ctx, transcript, session)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CompleteSession(sessionID, summary); err != nil {
		return nil, err
	}

	result := s.assembleResult(session, answers, agg, transcript, summary)
	if s.events != nil {
		s.events.Publish(utilities.EventSessionCompleted, result)
	}
	return result, nil
}

// SessionResult rebuilds the outcome of an already completed session from
// stored answers and the persisted summary. No AI calls are made.
func (s *interviewService) SessionResult(ctx context.Context, userID, sessionID uint) (*SessionResult, error) {
	session, err := s.GetOwnedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionCompleted {
		return nil, apperr.New(apperr.ErrInvalidState, "session is not completed yet")
	}

	answers, err := s.repo.GetAnswersBySession(sessionID)
	if err != nil {
		return nil, err
	}
	if len(answers) == 0 {
		return nil, apperr.New(apperr.ErrNoAnswers, "session has no recorded answers")
	}

	agg := AggregateAnswers(answers)
	transcript, err := s.buildTranscript(sessionID, answers)
	if err != nil {
		return nil, err
	}
	return s.assembleResult(session, answers, agg, transcript, session.Summary), nil
}

func (s *interviewService) assembleResult(
	session *model.InterviewSession,
	answers []model.InterviewAnswer,
	agg Aggregate,
	transcript []llm.TranscriptEntry,
	summary string,
) *SessionResult {
	return &SessionResult{
		SessionID:        session.ID,
		Summary:          summary,
		TotalScore:       agg.TotalScore,
		MaxPossibleScore: agg.MaxPossibleScore,
		AverageScore:     agg.AverageScore,
		ScorePercentage:  agg.ScorePercentage,
		PerformanceLevel: agg.PerformanceLevel,
		Transcript:       transcript,
		Stats: SessionStats{
			TotalQuestions:  len(answers),
			QuestionsAsked:  session.QuestionsAsked,
			TimeLimit:       session.TimeLimit,
			Field:           session.Field,
			Specialization:  session.Specialization,
			ExperienceLevel: session.ExperienceLevel,
			Difficulty:      session.DifficultySetting,
		},
	}
}

func (s *interviewService) buildTranscript(sessionID uint, answers []model.InterviewAnswer) ([]llm.TranscriptEntry, error) {
	transcript := make([]llm.TranscriptEntry, 0, len(answers))
	for _, ans := range answers {
		q, err := s.repo.GetQuestionByID(ans.QuestionID)
		if err != nil {
			return nil, err
		}
		transcript = append(transcript, llm.TranscriptEntry{
			QuestionID: ans.QuestionID,
			Question:   q.Content,
			Answer:     ans.Transcript,
			Feedback:   ans.Feedback,
			Score:      ans.Score,
			AudioURL:   ans.AudioURL,
		})
	}
	return transcript, nil
}

// GetOwnedSession loads a session and enforces ownership.
func (s *interviewService) GetOwnedSession(userID, sessionID uint) (*model.InterviewSession, error) {
	session, err := s.repo.GetSessionByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.ErrNotFound, "interview session not found")
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, apperr.New(apperr.ErrForbidden, "no access to this interview session")
	}
	return session, nil
}

func (s *interviewService) QuestionsAnswers(userID, sessionID uint) ([]QuestionAnswer, error) {
	if _, err := s.GetOwnedSession(userID, sessionID); err != nil {
		return nil, err
	}

	questions, err := s.repo.GetQuestionsBySession(sessionID)
	if err != nil {
		return nil, err
	}
	answers, err := s.repo.GetAnswersBySession(sessionID)
	if err != nil {
		return nil, err
	}

	// First answer per question; later duplicates are parallel attempts.
	byQuestion := make(map[uint]*model.InterviewAnswer, len(answers))
	for i := range answers {
		if _, seen := byQuestion[answers[i].QuestionID]; !seen {
			byQuestion[answers[i].QuestionID] = &answers[i]
		}
	}

	result := make([]QuestionAnswer, 0, len(questions))
	for _, q := range questions {
		item := QuestionAnswer{
			QuestionID: q.ID,
			Question:   q.Content,
			CreatedAt:  q.CreatedAt.UTC().Format(time.RFC3339),
		}
		if a, ok := byQuestion[q.ID]; ok {
			item.Answer = &a.Transcript
			item.Feedback = &a.Feedback
			item.Score = &a.Score
			if a.AudioURL != "" {
				item.AudioURL = &a.AudioURL
			}
		}
		result = append(result, item)
	}
	return result, nil
}
