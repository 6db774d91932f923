package server

import "excel-interview-backend/internal/interview"

// StartRequest представляет запрос на создание сессии
type StartRequest struct {
	Name string `json:"name" binding:"required"`
}

// StartResponse представляет ответ на создание сессии
type StartResponse struct {
	SessionID    string `json:"session_id"`
	GreetingText string `json:"greeting_text"`
	FollowupText string `json:"followup_text"`
}

// AnswerResponse представляет ответ на обработку аудио-ответа
type AnswerResponse struct {
	Done             bool                   `json:"done"`
	QID              string                 `json:"q_id,omitempty"`
	NextQuestionText string                 `json:"next_question_text,omitempty"`
	Transcript       string                 `json:"transcript"`
	Entry            *interview.AnswerEntry `json:"entry,omitempty"`
}

// UploadResponse представляет ответ на загрузку видео-чанка
type UploadResponse struct {
	Status      string `json:"status"`
	Path        string `json:"path"`
	ChunksCount int    `json:"chunks_count"`
}

// EndResponse представляет ответ на завершение сессии
type EndResponse struct {
	Status         string `json:"status"`
	TranscriptPath string `json:"transcript_path"`
	VideoPath      string `json:"video_path,omitempty"`
}

// ErrorResponse представляет ошибку для клиента
type ErrorResponse struct {
	Detail string `json:"detail"`
}
