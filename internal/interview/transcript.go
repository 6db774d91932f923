package interview

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Finalize формирует текстовый протокол интервью вместе с приватным
// отчетом и сохраняет его в файл. Повторный вызов перезаписывает тот же
// файл. Итоговая оценка — сумма оценок всех записей журнала, включая
// нетарифицируемые (знаменатель = длина журнала).
func (r *Registry) Finalize(sessionID, privateReport string) (string, error) {
	session, err := r.get(sessionID)
	if err != nil {
		return "", err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	view := session.view()
	text, total := renderTranscript(view, privateReport)

	if err := os.MkdirAll(r.transcriptsDir, 0755); err != nil {
		return "", fmt.Errorf("ошибка создания директории %s: %w", r.transcriptsDir, err)
	}

	outPath := filepath.Join(r.transcriptsDir, sessionID+".txt")
	if err := os.WriteFile(outPath, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("ошибка записи протокола %s: %w", outPath, err)
	}

	now := time.Now().UTC()
	session.TranscriptPath = outPath
	session.FinalScore = &total
	session.EndedAt = &now
	return outPath, nil
}

// renderTranscript рендерит протокол в фиксированном порядке:
// шапка, кандидат, все записи журнала, приватный отчет, итог
func renderTranscript(view SessionView, privateReport string) (string, float64) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("=== AI Excel Interview — Session %s ===\n", view.ID))
	b.WriteString(fmt.Sprintf("Start: %s\n", view.StartedAt.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("Candidate: %s\n", view.Candidate.Name))
	b.WriteString(fmt.Sprintf("Intro: %s\n", view.Candidate.Intro))
	b.WriteString("\n")

	total := 0.0
	for idx, a := range view.Answers {
		b.WriteString(fmt.Sprintf("Q%d: %s\n", idx+1, a.QuestionText))
		b.WriteString(fmt.Sprintf("A%d: %s\n", idx+1, a.Transcript))
		b.WriteString(fmt.Sprintf("Score: %g\n", a.Score))
		b.WriteString(fmt.Sprintf("Evidence: matched=%t matched_keywords=%v\n",
			a.Evidence.Matched, a.Evidence.MatchedKeywords))
		b.WriteString("\n")
		total += a.Score
	}

	b.WriteString("--- PRIVATE FEEDBACK (authorized personnel only) ---\n")
	b.WriteString(privateReport)
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Final Score: %g/%d\n", total, len(view.Answers)))
	b.WriteString(fmt.Sprintf("Final Video: %s\n", view.FinalMediaPath))
	b.WriteString(fmt.Sprintf("Saved at: %s\n", time.Now().UTC().Format(time.RFC3339)))

	return b.String(), total
}
