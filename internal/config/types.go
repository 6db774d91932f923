package config

// QuestionBank представляет банк вопросов интервью
type QuestionBank struct {
	Interview InterviewConfig `yaml:"interview_config"`
	Questions []Question      `yaml:"questions"`
}

// InterviewConfig содержит общие настройки интервью
type InterviewConfig struct {
	Title    string `yaml:"title"`
	Language string `yaml:"language"`
}

// Question представляет один вопрос с ключевыми словами для оценки
type Question struct {
	ID       string   `yaml:"id" json:"id"`
	Text     string   `yaml:"text" json:"text"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Методы для удобного доступа к банку вопросов
func (b *QuestionBank) Len() int {
	return len(b.Questions)
}

// At возвращает вопрос по индексу
func (b *QuestionBank) At(idx int) Question {
	return b.Questions[idx]
}

// FindByID ищет вопрос по идентификатору
func (b *QuestionBank) FindByID(id string) (Question, bool) {
	for _, q := range b.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
