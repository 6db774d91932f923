package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"excel-interview-backend/internal/interview"
	"excel-interview-backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// unintelligible подставляется вместо пустого транскрипта,
// чтобы интервью не останавливалось на неразборчивом ответе
const unintelligible = "[Unintelligible / empty]"

// handleStartSession создает сессию и возвращает приветствие.
// Уточняющий вопрос появится только после записи самопредставления.
func (s *Server) handleStartSession(c *gin.Context) {
	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "name is required"})
		return
	}

	view, err := s.registry.CreateSession(req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: err.Error()})
		return
	}
	s.metrics.IncrementInterviewsStarted()

	greeting := s.llm.MakeGreeting(c.Request.Context(), req.Name)

	c.JSON(http.StatusOK, StartResponse{
		SessionID:    view.ID,
		GreetingText: greeting,
		FollowupText: "",
	})
}

// handleTTSStream возвращает аудио для реплики интервьюера
func (s *Server) handleTTSStream(c *gin.Context) {
	text := c.PostForm("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "text is required"})
		return
	}

	audio := s.llm.Synthesize(c.Request.Context(), text)
	c.Data(http.StatusOK, "audio/wav", audio)
}

// handleAnswerAudio обрабатывает аудио-ответ кандидата и возвращает
// следующий вопрос или признак завершения
func (s *Server) handleAnswerAudio(c *gin.Context) {
	sessionID := c.PostForm("session_id")
	qID := c.PostForm("q_id")

	view, err := s.registry.Snapshot(sessionID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	audio, filename, err := readUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: err.Error()})
		return
	}

	transcript := s.llm.Transcribe(c.Request.Context(), audio, filename)
	if transcript == "" {
		transcript = unintelligible
	}

	// Фаза 1: самопредставление кандидата
	if view.State == interview.StateAwaitingIntro {
		if err := s.registry.RecordIntro(sessionID, transcript); err != nil {
			abortWithError(c, err)
			return
		}
		followup := s.llm.MakeFollowup(c.Request.Context(), transcript)
		c.JSON(http.StatusOK, AnswerResponse{
			Done:             false,
			QID:              interview.FollowupEntryID,
			NextQuestionText: followup,
			Transcript:       transcript,
		})
		return
	}

	// Фаза 2: ответ на уточняющий вопрос
	if view.State == interview.StateAskingFollowup && qID == interview.FollowupEntryID {
		if err := s.registry.RecordIntroFollowup(sessionID, transcript); err != nil {
			abortWithError(c, err)
			return
		}
		s.sendNextQuestion(c, sessionID, transcript, nil)
		return
	}

	// Фаза 3: вопросы из банка
	entry, err := s.registry.RecordAnswer(sessionID, qID, transcript)
	if err != nil {
		abortWithError(c, err)
		return
	}
	s.metrics.IncrementAnswersScored()
	s.sendNextQuestion(c, sessionID, transcript, &entry)
}

// sendNextQuestion продвигает курсор и отвечает следующим вопросом
// либо признаком завершения интервью
func (s *Server) sendNextQuestion(c *gin.Context, sessionID, transcript string, entry *interview.AnswerEntry) {
	next, err := s.registry.AdvanceQuestion(sessionID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if next == nil {
		c.JSON(http.StatusOK, AnswerResponse{Done: true, Transcript: transcript, Entry: entry})
		return
	}

	natural := s.llm.RephraseQuestion(c.Request.Context(), next.Text)
	c.JSON(http.StatusOK, AnswerResponse{
		Done:             false,
		QID:              next.ID,
		NextQuestionText: natural,
		Transcript:       transcript,
		Entry:            entry,
	})
}

// handleUploadVideo принимает один видео-чанк и сохраняет его
func (s *Server) handleUploadVideo(c *gin.Context) {
	sessionID := c.PostForm("session_id")

	data, filename, err := readUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: err.Error()})
		return
	}

	path, count, err := s.registry.SaveChunk(sessionID, filename, data)
	if err != nil {
		abortWithError(c, err)
		return
	}
	s.metrics.IncrementChunksSaved()

	c.JSON(http.StatusOK, UploadResponse{
		Status:      "chunk_saved",
		Path:        path,
		ChunksCount: count,
	})
}

// handleEndSession склеивает видео, генерирует приватный отчет
// и сохраняет протокол с итоговым JSON-артефактом
func (s *Server) handleEndSession(c *gin.Context) {
	sessionID := c.PostForm("session_id")

	view, err := s.registry.Snapshot(sessionID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	videoPath, err := s.registry.Merge(c.Request.Context(), sessionID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	// Склейка без чанков — не склейка, счетчики не трогаем
	if len(view.ChunkPaths) > 0 {
		s.metrics.IncrementMerge(videoPath != "")
	}

	report := s.llm.MakePrivateReport(c.Request.Context(), view.Answers)

	transcriptPath, err := s.registry.Finalize(sessionID, report)
	if err != nil {
		abortWithError(c, err)
		return
	}
	s.metrics.IncrementInterviewsCompleted()

	// Итоговый JSON-артефакт: сбой записи не мешает завершению
	if saveErr := s.results.SaveResult(resultFromView(view, transcriptPath, videoPath)); saveErr != nil {
		c.JSON(http.StatusOK, EndResponse{
			Status:         "saved_without_result_artifact",
			TranscriptPath: transcriptPath,
			VideoPath:      videoPath,
		})
		return
	}

	c.JSON(http.StatusOK, EndResponse{
		Status:         "saved",
		TranscriptPath: transcriptPath,
		VideoPath:      videoPath,
	})
}

// handleQuestions возвращает банк вопросов для администратора
func (s *Server) handleQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"questions": s.registry.Questions()})
}

// handleMetrics возвращает счетчики процесса
func (s *Server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.metrics.GetSnapshot())
}

// readUpload читает multipart файл из запроса
func readUpload(c *gin.Context) ([]byte, string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, "", errors.New("file is required")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return data, fileHeader.Filename, nil
}

// resultFromView собирает итоговый JSON-артефакт из состояния сессии
func resultFromView(view interview.SessionView, transcriptPath, videoPath string) *storage.InterviewResult {
	total := 0.0
	records := make([]storage.AnswerRecord, 0, len(view.Answers))
	for _, a := range view.Answers {
		total += a.Score
		records = append(records, storage.AnswerRecord{
			QuestionID:   a.QuestionID,
			QuestionText: a.QuestionText,
			Transcript:   a.Transcript,
			Score:        a.Score,
		})
	}

	return &storage.InterviewResult{
		SessionID:      view.ID,
		CandidateName:  view.Candidate.Name,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		Answers:        records,
		FinalScore:     total,
		TranscriptPath: transcriptPath,
		FinalVideoPath: videoPath,
	}
}

// abortWithError транслирует ошибки ядра в HTTP статусы
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, interview.ErrSessionNotFound), errors.Is(err, interview.ErrQuestionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Detail: err.Error()})
	case errors.Is(err, interview.ErrMergeInProgress), errors.Is(err, interview.ErrInterviewFinished):
		c.JSON(http.StatusConflict, ErrorResponse{Detail: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: err.Error()})
	}
}
