package storage

// InterviewResult представляет итог интервью для JSON-артефакта
type InterviewResult struct {
	SessionID      string         `json:"session_id"`
	CandidateName  string         `json:"candidate_name"`
	Timestamp      string         `json:"timestamp"`
	Answers        []AnswerRecord `json:"answers"`
	FinalScore     float64        `json:"final_score"`
	TranscriptPath string         `json:"transcript_path,omitempty"`
	FinalVideoPath string         `json:"final_video_path,omitempty"`
}

// AnswerRecord представляет один ответ в итоговом артефакте
type AnswerRecord struct {
	QuestionID   string  `json:"question_id"`
	QuestionText string  `json:"question_text"`
	Transcript   string  `json:"transcript"`
	Score        float64 `json:"score"`
}
