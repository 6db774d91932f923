package interview

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"excel-interview-backend/internal/config"
	"excel-interview-backend/internal/media"

	"github.com/google/uuid"
)

// Registry представляет реестр сессий интервью.
// Все сессии живут только в памяти процесса: перезапуск процесса
// уничтожает их, это принятое ограничение.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	bank           *config.QuestionBank
	chunks         *media.ChunkStore
	merger         *media.Merger
	transcriptsDir string
}

// NewRegistry создает новый реестр сессий
func NewRegistry(bank *config.QuestionBank, chunks *media.ChunkStore, merger *media.Merger, transcriptsDir string) *Registry {
	return &Registry{
		sessions:       make(map[string]*Session),
		bank:           bank,
		chunks:         chunks,
		merger:         merger,
		transcriptsDir: transcriptsDir,
	}
}

// Questions возвращает банк вопросов (только для чтения)
func (r *Registry) Questions() []config.Question {
	return r.bank.Questions
}

// CreateSession создает новую сессию для кандидата с указанным именем
func (r *Registry) CreateSession(name string) (SessionView, error) {
	r.mu.Lock()

	// Коллизия uuid практически невозможна, но на всякий случай
	// генерируем заново, пока идентификатор не окажется свободным
	var sid string
	for {
		sid = uuid.New().String()
		if _, exists := r.sessions[sid]; !exists {
			break
		}
	}

	session := &Session{
		ID:             sid,
		State:          StateAwaitingIntro,
		QuestionCursor: -1,
		Candidate:      Candidate{Name: name},
		Answers:        []AnswerEntry{},
		ChunkPaths:     []string{},
		StartedAt:      time.Now().UTC(),
	}
	r.sessions[sid] = session
	r.mu.Unlock()

	// Создаем папку для чанков сессии
	if err := r.chunks.EnsureSessionDir(sid); err != nil {
		return SessionView{}, fmt.Errorf("ошибка создания папки сессии: %w", err)
	}

	return session.view(), nil
}

// get возвращает сессию по идентификатору
func (r *Registry) get(sessionID string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, exists := r.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Snapshot возвращает копию состояния сессии
func (r *Registry) Snapshot(sessionID string) (SessionView, error) {
	session, err := r.get(sessionID)
	if err != nil {
		return SessionView{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	return session.view(), nil
}

// RecordIntro сохраняет транскрипт самопредставления кандидата.
// Само представление попадает в журнал нетарифицируемой записью.
func (r *Registry) RecordIntro(sessionID, transcript string) error {
	session, err := r.get(sessionID)
	if err != nil {
		return err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.State == StateFinished {
		return ErrInterviewFinished
	}

	session.Candidate.Intro = transcript
	session.Answers = append(session.Answers, AnswerEntry{
		QuestionID:   IntroEntryID,
		QuestionText: "Self introduction",
		Transcript:   transcript,
		Score:        0.0,
		Evidence:     Evidence{MatchedKeywords: []string{}},
		AnsweredAt:   time.Now().UTC(),
	})
	session.State = StateAskingFollowup
	return nil
}

// RecordIntroFollowup сохраняет ответ на свободный уточняющий вопрос.
// Запись всегда с нулевой оценкой: этот ответ не оценивается.
func (r *Registry) RecordIntroFollowup(sessionID, transcript string) error {
	session, err := r.get(sessionID)
	if err != nil {
		return err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.State == StateFinished {
		return ErrInterviewFinished
	}

	session.Answers = append(session.Answers, AnswerEntry{
		QuestionID:   FollowupEntryID,
		QuestionText: "Intro followup",
		Transcript:   transcript,
		Score:        0.0,
		Evidence:     Evidence{MatchedKeywords: []string{}},
		AnsweredAt:   time.Now().UTC(),
	})
	session.State = StateAskingQuestions
	return nil
}

// AdvanceQuestion продвигает курсор и возвращает следующий вопрос.
// Возвращает nil, когда банк вопросов исчерпан, — сессия переходит
// в состояние finished.
func (r *Registry) AdvanceQuestion(sessionID string) (*config.Question, error) {
	session, err := r.get(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	idx := session.QuestionCursor + 1
	if idx >= r.bank.Len() {
		session.State = StateFinished
		session.QuestionCursor = r.bank.Len()
		return nil, nil
	}

	session.QuestionCursor = idx
	session.State = StateAskingQuestions
	q := r.bank.At(idx)
	return &q, nil
}

// RecordAnswer оценивает транскрипт ответа и добавляет запись в журнал.
// Курсор не продвигается: это отдельный явный шаг AdvanceQuestion.
func (r *Registry) RecordAnswer(sessionID, questionID, transcript string) (AnswerEntry, error) {
	session, err := r.get(sessionID)
	if err != nil {
		return AnswerEntry{}, err
	}

	q, found := r.bank.FindByID(questionID)
	if !found {
		return AnswerEntry{}, ErrQuestionNotFound
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.State == StateFinished {
		return AnswerEntry{}, ErrInterviewFinished
	}

	score, evidence := Score(q, transcript)
	entry := AnswerEntry{
		QuestionID:   q.ID,
		QuestionText: q.Text,
		Transcript:   transcript,
		Score:        score,
		Evidence:     evidence,
		AnsweredAt:   time.Now().UTC(),
	}
	session.Answers = append(session.Answers, entry)
	return entry, nil
}

// SaveChunk сохраняет один видео-чанк сессии и возвращает путь к нему
// вместе с количеством несмерженных чанков
func (r *Registry) SaveChunk(sessionID, filename string, data []byte) (string, int, error) {
	session, err := r.get(sessionID)
	if err != nil {
		return "", 0, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.merging {
		return "", 0, ErrMergeInProgress
	}

	// Порядковый номер гарантирует сортировку чанков в порядке загрузки
	seq := len(session.ChunkPaths)
	path, err := r.chunks.SaveChunk(sessionID, seq, filename, data)
	if err != nil {
		return "", 0, err
	}

	session.ChunkPaths = append(session.ChunkPaths, path)
	return path, len(session.ChunkPaths), nil
}

// Merge склеивает все чанки сессии в один финальный файл.
// Возвращает пустую строку, если склеивать нечего или ffmpeg упал:
// неудача восстановима, чанки остаются на месте и попытку можно
// повторить.
func (r *Registry) Merge(ctx context.Context, sessionID string) (string, error) {
	session, err := r.get(sessionID)
	if err != nil {
		return "", err
	}

	session.mu.Lock()
	if session.merging {
		session.mu.Unlock()
		return "", ErrMergeInProgress
	}
	if len(session.ChunkPaths) == 0 {
		session.mu.Unlock()
		return "", nil
	}

	chunkPaths := make([]string, len(session.ChunkPaths))
	copy(chunkPaths, session.ChunkPaths)
	session.merging = true
	session.mu.Unlock()

	// ffmpeg работает без блокировки сессии: новые чанки в это время
	// отклоняются флагом merging
	finalPath, mergeErr := r.merger.Merge(ctx, sessionID, chunkPaths)

	session.mu.Lock()
	defer session.mu.Unlock()
	session.merging = false

	if mergeErr != nil {
		log.Printf("⚠️ Склейка видео для сессии %s не удалась: %v", sessionID, mergeErr)
		return "", nil
	}

	session.ChunkPaths = []string{}
	session.FinalMediaPath = finalPath
	return finalPath, nil
}
