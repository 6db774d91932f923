package interview

import (
	"strings"

	"excel-interview-backend/internal/config"
)

// Score оценивает транскрипт ответа по ключевым словам вопроса.
// Чистая функция: одинаковый вход всегда дает одинаковый результат.
//
// Правила:
//   - 1.0 — хотя бы одно ключевое слово целиком входит в транскрипт
//   - 0.5 — совпал только отдельный токен ключевого слова
//   - 0.0 — совпадений нет
//
// Полное совпадение всегда важнее токенного. Сравнение без учета
// регистра, по подстроке, без границ слов.
func Score(q config.Question, transcript string) (float64, Evidence) {
	lower := strings.ToLower(strings.TrimSpace(transcript))

	var matched []string
	for _, kw := range q.Keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}

	if len(matched) > 0 {
		return 1.0, Evidence{Matched: true, MatchedKeywords: matched}
	}

	score := 0.0
	for _, kw := range q.Keywords {
		for _, token := range strings.Fields(strings.ToLower(kw)) {
			if strings.Contains(lower, token) {
				score = 0.5
			}
		}
	}

	return score, Evidence{Matched: false, MatchedKeywords: []string{}}
}
