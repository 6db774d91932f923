package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"excel-interview-backend/internal/config"
	"excel-interview-backend/internal/interview"
	"excel-interview-backend/internal/metrics"

	openai "github.com/sashabaranov/go-openai"
)

// fallbackQuestion используется, когда генерация текста недоступна:
// интервью всегда должно продолжаться
const fallbackQuestion = "Can you tell me more about how you use Excel in your work?"

// Service представляет сервис внешних коллабораторов: генерация текста
// интервьюера, распознавание речи и синтез речи. Любой сбой не фатален,
// у каждого вызова есть фиксированное значение по умолчанию.
type Service struct {
	cli     *openai.Client
	cfg     config.OpenAIConfig
	metrics *metrics.Metrics
}

// New создает сервис коллабораторов. При пустом API-ключе все вызовы
// сразу возвращают значения по умолчанию.
func New(cfg config.OpenAIConfig, m *metrics.Metrics) *Service {
	s := &Service{cfg: cfg, metrics: m}
	if cfg.APIKey != "" {
		s.cli = openai.NewClient(cfg.APIKey)
	}
	return s
}

// GenerateInterviewerText генерирует реплику интервьюера по промпту.
// При любой ошибке возвращает запасную реплику.
func (s *Service) GenerateInterviewerText(ctx context.Context, prompt string) string {
	if s.cli == nil {
		return fallbackQuestion
	}

	resp, err := s.cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: float32(s.cfg.Temperature),
	})
	s.metrics.IncrementAPICall(err == nil)
	if err != nil {
		log.Printf("⚠️ Ошибка генерации текста, используется запасная реплика: %v", err)
		return fallbackQuestion
	}

	if len(resp.Choices) == 0 {
		return fallbackQuestion
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return fallbackQuestion
	}
	return text
}

// Transcribe распознает речь из аудио-байтов.
// Возвращает пустую строку при любом сбое.
func (s *Service) Transcribe(ctx context.Context, audio []byte, filenameHint string) string {
	if s.cli == nil {
		return ""
	}

	if filenameHint == "" {
		filenameHint = "answer.wav"
	}

	resp, err := s.cli.CreateTranscription(ctx, openai.AudioRequest{
		Model:    s.cfg.WhisperModel,
		Reader:   bytes.NewReader(audio),
		FilePath: filenameHint,
		Language: s.cfg.Language,
	})
	s.metrics.IncrementAPICall(err == nil)
	if err != nil {
		log.Printf("⚠️ Ошибка распознавания речи: %v", err)
		return ""
	}

	return strings.TrimSpace(resp.Text)
}

// Synthesize синтезирует речь интервьюера.
// При сбое возвращает байты-заглушку с текстом реплики.
func (s *Service) Synthesize(ctx context.Context, text string) []byte {
	placeholder := func() []byte {
		truncated := text
		if len(truncated) > 500 {
			truncated = truncated[:500]
		}
		return []byte("TTS not available. Text: " + truncated)
	}

	if s.cli == nil {
		return placeholder()
	}

	resp, err := s.cli.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.cfg.TTSModel),
		Input:          text,
		Voice:          openai.VoiceAlloy,
		ResponseFormat: openai.SpeechResponseFormatWav,
	})
	s.metrics.IncrementAPICall(err == nil)
	if err != nil {
		log.Printf("⚠️ Ошибка синтеза речи: %v", err)
		return placeholder()
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		log.Printf("⚠️ Ошибка чтения аудио ответа: %v", err)
		return placeholder()
	}
	return audio
}

// MakeGreeting генерирует приветствие кандидата
func (s *Service) MakeGreeting(ctx context.Context, candidateName string) string {
	prompt := "You are a professional interviewer. Greet the candidate naturally " +
		"and ask for their name and a brief description of their Excel experience. " +
		"Keep it short and neutral. Do not reveal process or number of questions."
	return s.GenerateInterviewerText(ctx, prompt)
}

// MakeFollowup генерирует уточняющий вопрос по самопредставлению
func (s *Service) MakeFollowup(ctx context.Context, intro string) string {
	prompt := fmt.Sprintf("Candidate intro: %q. Write one short neutral follow-up question "+
		"about their Excel experience. Only return the question.", intro)
	return s.GenerateInterviewerText(ctx, prompt)
}

// RephraseQuestion переформулирует вопрос банка в естественную реплику
func (s *Service) RephraseQuestion(ctx context.Context, questionText string) string {
	prompt := fmt.Sprintf("Ask the following Excel interview question naturally in one sentence: %q", questionText)
	return s.GenerateInterviewerText(ctx, prompt)
}

// MakePrivateReport генерирует приватный отчет оценщика по журналу
// ответов
func (s *Service) MakePrivateReport(ctx context.Context, answers []interview.AnswerEntry) string {
	var b strings.Builder
	b.WriteString("Create a concise private feedback report (2 strengths, 2 improvements) for the following answers:\n")
	for _, a := range answers {
		b.WriteString(fmt.Sprintf("Q: %s | A: %s | Score: %g\n", a.QuestionText, a.Transcript, a.Score))
	}
	return s.GenerateInterviewerText(ctx, b.String())
}
