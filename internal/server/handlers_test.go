package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"excel-interview-backend/internal/config"
	"excel-interview-backend/internal/interview"
	"excel-interview-backend/internal/llm"
	"excel-interview-backend/internal/media"
	"excel-interview-backend/internal/metrics"
	"excel-interview-backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *storage.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recordings := t.TempDir()
	transcripts := t.TempDir()
	results := t.TempDir()

	// Заглушка ffmpeg: пишет финальный файл и выходит успешно
	tool := filepath.Join(t.TempDir(), "ffmpeg-stub")
	require.NoError(t, os.WriteFile(tool,
		[]byte("#!/bin/sh\nfor last; do :; done\nprintf merged > \"$last\"\n"), 0755))

	cfg := &config.AppConfig{
		Server: config.ServerConfig{Port: 0, CORSOrigins: []string{"http://localhost:3000"}},
		Media:  config.MediaConfig{FFmpegBin: tool, MergeTimeout: time.Minute},
		Paths: config.PathsConfig{
			RecordingsDir:  recordings,
			TranscriptsDir: transcripts,
			ResultsDir:     results,
		},
	}

	bank := &config.QuestionBank{
		Questions: []config.Question{
			{ID: "q1", Text: "How do you look up values?", Keywords: []string{"vlookup"}},
			{ID: "q2", Text: "How do you summarize data?", Keywords: []string{"pivot table"}},
		},
	}

	m := metrics.NewMetrics()
	chunks := media.NewChunkStore(recordings)
	merger := media.NewMerger(recordings, tool, time.Minute)
	registry := interview.NewRegistry(bank, chunks, merger, transcripts)

	// Пустой API-ключ: коллабораторы работают на запасных значениях,
	// тесты не ходят в сеть
	llmService := llm.New(config.OpenAIConfig{}, m)
	resultsStore := storage.NewStore(results)

	return New(cfg, registry, llmService, resultsStore, m), resultsStore
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func doMultipart(t *testing.T, srv *Server, path string, fields map[string]string, fileField, filename string, fileData []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = fw.Write(fileData)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func startSession(t *testing.T, srv *Server) string {
	t.Helper()
	w := doJSON(t, srv, http.MethodPost, "/start_session", gin.H{"name": "Asha"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp StartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

func TestStartSession(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/start_session", gin.H{"name": "Asha"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp StartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.NotEmpty(t, resp.GreetingText)
	assert.Empty(t, resp.FollowupText)
}

func TestStartSessionWithoutName(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/start_session", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuestionsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/questions", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Questions []config.Question `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Questions, 2)
}

func TestUploadVideoUnknownSession(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doMultipart(t, srv, "/upload_video",
		map[string]string{"session_id": "missing"}, "file", "chunk.webm", []byte("data"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnswerAudioIntroPhase(t *testing.T) {
	srv, _ := newTestServer(t)
	sid := startSession(t, srv)

	w := doMultipart(t, srv, "/answer_audio",
		map[string]string{"session_id": sid, "q_id": ""}, "file", "intro.wav", []byte("audio"))
	require.Equal(t, http.StatusOK, w.Code)

	var resp AnswerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Done)
	assert.Equal(t, interview.FollowupEntryID, resp.QID)
	assert.NotEmpty(t, resp.NextQuestionText)
	// Распознавание недоступно: подставляется заглушка транскрипта
	assert.Equal(t, unintelligible, resp.Transcript)
}

func TestFullInterviewOverHTTP(t *testing.T) {
	srv, results := newTestServer(t)
	sid := startSession(t, srv)

	// Фаза 1: самопредставление
	w := doMultipart(t, srv, "/answer_audio",
		map[string]string{"session_id": sid, "q_id": ""}, "file", "intro.wav", []byte("audio"))
	require.Equal(t, http.StatusOK, w.Code)

	var resp AnswerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	qID := resp.QID

	// Фаза 2: ответ на уточняющий вопрос, приходит первый вопрос банка
	w = doMultipart(t, srv, "/answer_audio",
		map[string]string{"session_id": sid, "q_id": qID}, "file", "followup.wav", []byte("audio"))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Done)
	assert.Equal(t, "q1", resp.QID)

	// Фаза 3: вопросы банка до исчерпания
	for !resp.Done {
		w = doMultipart(t, srv, "/answer_audio",
			map[string]string{"session_id": sid, "q_id": resp.QID}, "file", "answer.wav", []byte("audio"))
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}

	// Чанки видео
	for _, name := range []string{"b.webm", "a.webm", "c.webm"} {
		w = doMultipart(t, srv, "/upload_video",
			map[string]string{"session_id": sid}, "file", name, []byte("video"))
		require.Equal(t, http.StatusOK, w.Code)
	}

	var upload UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &upload))
	assert.Equal(t, 3, upload.ChunksCount)

	// Завершение: склейка, протокол, итоговый артефакт
	w = doMultipart(t, srv, "/end_session",
		map[string]string{"session_id": sid}, "", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var end EndResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &end))
	assert.Equal(t, "saved", end.Status)
	assert.FileExists(t, end.TranscriptPath)
	assert.True(t, strings.HasSuffix(end.VideoPath, sid+"_final.webm"))
	assert.FileExists(t, end.VideoPath)

	result, err := results.LoadResult(sid)
	require.NoError(t, err)
	assert.Equal(t, "Asha", result.CandidateName)
	assert.Len(t, result.Answers, 4) // 2 нетарифицируемых + 2 вопроса банка

	ids, err := results.ListResults()
	require.NoError(t, err)
	assert.Contains(t, ids, sid)
}

func TestEndSessionUnknown(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doMultipart(t, srv, "/end_session",
		map[string]string{"session_id": "missing"}, "", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTTSStreamFallback(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doMultipart(t, srv, "/tts_stream",
		map[string]string{"text": "Hello candidate"}, "", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hello candidate")
}
