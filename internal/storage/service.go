package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store сохраняет итоговые JSON-артефакты интервью
type Store struct {
	dir string
}

// NewStore создает хранилище результатов в указанной директории
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// SaveResult сохраняет результат интервью в JSON файл
func (s *Store) SaveResult(result *InterviewResult) error {
	// Создаем директорию если её нет
	err := os.MkdirAll(s.dir, 0755)
	if err != nil {
		return fmt.Errorf("ошибка создания директории %s: %w", s.dir, err)
	}

	// Формируем имя файла
	filename := fmt.Sprintf("interview_%s.json", result.SessionID)
	path := filepath.Join(s.dir, filename)

	// Сериализуем результат в JSON с отступами
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации результата: %w", err)
	}

	// Записываем в файл
	err = os.WriteFile(path, jsonData, 0644)
	if err != nil {
		return fmt.Errorf("ошибка записи файла %s: %w", path, err)
	}

	return nil
}

// LoadResult загружает результат интервью из JSON файла
func (s *Store) LoadResult(sessionID string) (*InterviewResult, error) {
	filename := fmt.Sprintf("interview_%s.json", sessionID)
	path := filepath.Join(s.dir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", path, err)
	}

	var result InterviewResult
	err = json.Unmarshal(data, &result)
	if err != nil {
		return nil, fmt.Errorf("ошибка десериализации JSON: %w", err)
	}

	return &result, nil
}

// ListResults возвращает список всех сохраненных интервью
func (s *Store) ListResults() ([]string, error) {
	// Проверяем существование директории
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения директории %s: %w", s.dir, err)
	}

	var results []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "interview_") {
			// Извлекаем ID сессии из имени файла
			sessionID := strings.TrimSuffix(strings.TrimPrefix(name, "interview_"), ".json")
			results = append(results, sessionID)
		}
	}

	return results, nil
}
