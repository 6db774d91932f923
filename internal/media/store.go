package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ChunkStore хранит загруженные видео-чанки на диске,
// по папке на сессию
type ChunkStore struct {
	root string
}

// NewChunkStore создает хранилище чанков с указанным корнем
func NewChunkStore(root string) *ChunkStore {
	return &ChunkStore{root: root}
}

// Root возвращает корневую директорию записей
func (s *ChunkStore) Root() string {
	return s.root
}

// SessionDir возвращает папку чанков для сессии
func (s *ChunkStore) SessionDir(sessionID string) string {
	return filepath.Join(s.root, sessionID)
}

// EnsureSessionDir создает папку чанков для сессии
func (s *ChunkStore) EnsureSessionDir(sessionID string) error {
	dir := s.SessionDir(sessionID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("ошибка создания директории %s: %w", dir, err)
	}
	return nil
}

// SaveChunk записывает чанк на диск и возвращает путь к файлу.
// Имя файла: <4-значный номер>_<случайный hex>_<базовое имя>.
// Номер гарантирует порядок загрузки при сортировке имен, hex исключает
// коллизии, базовое имя сохраняется для диагностики.
func (s *ChunkStore) SaveChunk(sessionID string, seq int, filename string, data []byte) (string, error) {
	if err := s.EnsureSessionDir(sessionID); err != nil {
		return "", err
	}

	disambiguator := strings.ReplaceAll(uuid.New().String(), "-", "")
	safeName := fmt.Sprintf("%04d_%s_%s", seq, disambiguator, filepath.Base(filename))
	outPath := filepath.Join(s.SessionDir(sessionID), safeName)

	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return "", fmt.Errorf("ошибка записи чанка %s: %w", outPath, err)
	}

	return outPath, nil
}
