package interview

import (
	"errors"
	"sync"
	"time"
)

// SessionState представляет состояние сессии интервью
type SessionState string

const (
	StateAwaitingIntro   SessionState = "awaiting_intro"
	StateAskingFollowup  SessionState = "asking_followup"
	StateAskingQuestions SessionState = "asking_questions"
	StateFinished        SessionState = "finished"
)

// Фиксированные идентификаторы нетарифицируемых записей
const (
	IntroEntryID    = "intro"
	FollowupEntryID = "intro_followup"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrMergeInProgress   = errors.New("merge in progress")
	ErrInterviewFinished = errors.New("interview already finished")
)

// Candidate представляет кандидата
type Candidate struct {
	Name  string `json:"name"`
	Intro string `json:"intro"`
}

// Evidence фиксирует, какие ключевые слова обосновали оценку
type Evidence struct {
	Matched         bool     `json:"matched"`
	MatchedKeywords []string `json:"matched_keywords"`
}

// AnswerEntry представляет одну запись в журнале ответов.
// Запись неизменяема после добавления, порядок — порядок интервью.
type AnswerEntry struct {
	QuestionID   string    `json:"q_id"`
	QuestionText string    `json:"q_text"`
	Transcript   string    `json:"transcript"`
	Score        float64   `json:"score"`
	Evidence     Evidence  `json:"evidence"`
	AnsweredAt   time.Time `json:"answered_at"`
}

// Session представляет одну сессию интервью.
// Все мутации выполняются только через Registry под mu.
type Session struct {
	mu sync.Mutex

	ID             string        `json:"session_id"`
	State          SessionState  `json:"state"`
	QuestionCursor int           `json:"question_index"`
	Candidate      Candidate     `json:"candidate"`
	Answers        []AnswerEntry `json:"answers"`
	ChunkPaths     []string      `json:"video_chunks"`
	FinalMediaPath string        `json:"final_video,omitempty"`
	TranscriptPath string        `json:"transcript_path,omitempty"`
	FinalScore     *float64      `json:"final_score,omitempty"`
	StartedAt      time.Time     `json:"started_at"`
	EndedAt        *time.Time    `json:"ended_at,omitempty"`

	// merging блокирует загрузку чанков, пока работает ffmpeg
	merging bool
}

// SessionView представляет копию состояния сессии без блокировки.
// Используется транспортным слоем и финализатором.
type SessionView struct {
	ID             string        `json:"session_id"`
	State          SessionState  `json:"state"`
	QuestionCursor int           `json:"question_index"`
	Candidate      Candidate     `json:"candidate"`
	Answers        []AnswerEntry `json:"answers"`
	ChunkPaths     []string      `json:"video_chunks"`
	FinalMediaPath string        `json:"final_video,omitempty"`
	TranscriptPath string        `json:"transcript_path,omitempty"`
	FinalScore     *float64      `json:"final_score,omitempty"`
	StartedAt      time.Time     `json:"started_at"`
	EndedAt        *time.Time    `json:"ended_at,omitempty"`
}

// view создает копию состояния сессии. Вызывается только под s.mu.
func (s *Session) view() SessionView {
	answers := make([]AnswerEntry, len(s.Answers))
	copy(answers, s.Answers)
	chunks := make([]string, len(s.ChunkPaths))
	copy(chunks, s.ChunkPaths)

	return SessionView{
		ID:             s.ID,
		State:          s.State,
		QuestionCursor: s.QuestionCursor,
		Candidate:      s.Candidate,
		Answers:        answers,
		ChunkPaths:     chunks,
		FinalMediaPath: s.FinalMediaPath,
		TranscriptPath: s.TranscriptPath,
		FinalScore:     s.FinalScore,
		StartedAt:      s.StartedAt,
		EndedAt:        s.EndedAt,
	}
}
