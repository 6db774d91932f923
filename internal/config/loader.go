package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load загружает банк вопросов из YAML файла
func Load(filename string) (*QuestionBank, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", filename, err)
	}

	var bank QuestionBank
	err = yaml.Unmarshal(data, &bank)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга YAML: %w", err)
	}

	// Валидация банка вопросов
	err = validateBank(&bank)
	if err != nil {
		return nil, fmt.Errorf("ошибка валидации банка вопросов: %w", err)
	}

	return &bank, nil
}

// validateBank проверяет корректность банка вопросов
func validateBank(bank *QuestionBank) error {
	if len(bank.Questions) == 0 {
		return fmt.Errorf("банк вопросов пуст")
	}

	seen := make(map[string]bool)
	for i, q := range bank.Questions {
		if q.ID == "" {
			return fmt.Errorf("вопрос %d должен иметь id", i)
		}

		if seen[q.ID] {
			return fmt.Errorf("вопрос %d имеет повторяющийся id %q", i, q.ID)
		}
		seen[q.ID] = true

		if q.Text == "" {
			return fmt.Errorf("вопрос %q должен иметь text", q.ID)
		}

		if len(q.Keywords) == 0 {
			return fmt.Errorf("вопрос %q должен иметь хотя бы одно ключевое слово", q.ID)
		}
	}

	return nil
}
