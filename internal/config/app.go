package config

import (
	"os"
	"strconv"
	"time"
)

type AppConfig struct {
	OpenAI OpenAIConfig
	Server ServerConfig
	Media  MediaConfig
	Paths  PathsConfig
}

type ServerConfig struct {
	Port         int
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MediaConfig struct {
	FFmpegBin    string
	MergeTimeout time.Duration
}

type PathsConfig struct {
	RecordingsDir  string
	TranscriptsDir string
	ResultsDir     string
	QuestionsFile  string
}

func LoadAppConfig() *AppConfig {
	return &AppConfig{
		OpenAI: OpenAIConfig{
			APIKey:       getEnv("OPENAI_API_KEY", ""),
			Model:        getEnv("OPENAI_MODEL", "gpt-4o"),
			WhisperModel: getEnv("OPENAI_WHISPER_MODEL", "whisper-1"),
			TTSModel:     getEnv("OPENAI_TTS_MODEL", "tts-1"),
			MaxTokens:    getEnvAsInt("OPENAI_MAX_TOKENS", 1000),
			Temperature:  getEnvAsFloat("OPENAI_TEMPERATURE", 0.3),
			Language:     getEnv("INTERVIEW_LANGUAGE", "en"),
		},
		Server: ServerConfig{
			Port: getEnvAsInt("SERVER_PORT", 8000),
			CORSOrigins: []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
				"http://localhost:5173",
				"http://127.0.0.1:5173",
			},
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Media: MediaConfig{
			FFmpegBin:    getEnv("FFMPEG_BIN", "ffmpeg"),
			MergeTimeout: getEnvAsDuration("FFMPEG_TIMEOUT", 2*time.Minute),
		},
		Paths: PathsConfig{
			RecordingsDir:  getEnv("RECORDINGS_DIR", "recordings"),
			TranscriptsDir: getEnv("TRANSCRIPTS_DIR", "transcripts"),
			ResultsDir:     getEnv("RESULTS_DIR", "results"),
			QuestionsFile:  getEnv("QUESTIONS_FILE", "config/questions.yaml"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
