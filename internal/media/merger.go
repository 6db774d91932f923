package media

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const finalExt = ".webm"

// Merger склеивает чанки сессии в один файл через ffmpeg concat
// без перекодирования
type Merger struct {
	root      string
	ffmpegBin string
	timeout   time.Duration
}

// NewMerger создает Merger. ffmpegBin подменяется в тестах.
func NewMerger(root, ffmpegBin string, timeout time.Duration) *Merger {
	return &Merger{root: root, ffmpegBin: ffmpegBin, timeout: timeout}
}

// FinalPath возвращает путь финального файла сессии
func (m *Merger) FinalPath(sessionID string) string {
	return filepath.Join(m.root, sessionID+"_final"+finalExt)
}

// ManifestPath возвращает путь манифеста concat для сессии
func (m *Merger) ManifestPath(sessionID string) string {
	return filepath.Join(m.root, sessionID+"_concat_list.txt")
}

// Merge склеивает чанки в порядке списка и возвращает путь финального
// файла. При успехе чанки и манифест удаляются (ошибки удаления только
// логируются: наполовину прибранная склейка — все равно успешная).
// При ошибке или таймауте ffmpeg все файлы остаются на месте для
// диагностики и попытку можно повторить.
func (m *Merger) Merge(ctx context.Context, sessionID string, chunkPaths []string) (string, error) {
	if len(chunkPaths) == 0 {
		return "", fmt.Errorf("нет чанков для склейки")
	}

	manifestPath := m.ManifestPath(sessionID)
	if err := writeManifest(manifestPath, chunkPaths); err != nil {
		return "", err
	}

	finalPath := m.FinalPath(sessionID)

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, m.ffmpegBin,
		"-y", "-f", "concat", "-safe", "0", "-i", manifestPath,
		"-c", "copy", finalPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("ffmpeg завершился с ошибкой: %w (%s)", err, strings.TrimSpace(string(output)))
	}

	// Уборка: чанки и манифест больше не нужны
	for _, p := range chunkPaths {
		if err := os.Remove(p); err != nil {
			log.Printf("⚠️ Не удалось удалить чанк %s: %v", p, err)
		}
	}
	if err := os.Remove(manifestPath); err != nil {
		log.Printf("⚠️ Не удалось удалить манифест %s: %v", manifestPath, err)
	}

	return finalPath, nil
}

// writeManifest пишет список файлов в формате ffmpeg concat.
// Одинарные кавычки в путях экранируются, чтобы не ломать формат.
func writeManifest(path string, chunkPaths []string) error {
	var b strings.Builder
	for _, p := range chunkPaths {
		escaped := strings.ReplaceAll(p, "'", `'\''`)
		b.WriteString(fmt.Sprintf("file '%s'\n", escaped))
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("ошибка записи манифеста %s: %w", path, err)
	}
	return nil
}
