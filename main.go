package main

import (
	"fmt"
	"log"

	"excel-interview-backend/internal/config"
	"excel-interview-backend/internal/interview"
	"excel-interview-backend/internal/llm"
	"excel-interview-backend/internal/media"
	"excel-interview-backend/internal/metrics"
	"excel-interview-backend/internal/server"
	"excel-interview-backend/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("🚀 Запуск AI Excel Interviewer (voice-only)...")

	// Загружаем переменные окружения; отсутствие .env не фатально
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env файл не найден, используются переменные окружения")
	}

	appCfg := config.LoadAppConfig()

	// Без ключа OpenAI сервис работает на запасных репликах
	if err := appCfg.OpenAI.ValidateConfig(); err != nil {
		log.Printf("⚠️ OpenAI недоступен (%v), интервью пойдет на запасных репликах", err)
	}

	// Загружаем банк вопросов
	bank, err := config.Load(appCfg.Paths.QuestionsFile)
	if err != nil {
		log.Fatalf("Ошибка загрузки банка вопросов: %v", err)
	}

	// Инициализируем сервисы
	fmt.Println("🔧 Инициализация сервисов...")

	m := metrics.NewMetrics()

	chunks := media.NewChunkStore(appCfg.Paths.RecordingsDir)
	merger := media.NewMerger(appCfg.Paths.RecordingsDir, appCfg.Media.FFmpegBin, appCfg.Media.MergeTimeout)
	registry := interview.NewRegistry(bank, chunks, merger, appCfg.Paths.TranscriptsDir)
	fmt.Println("✅ Реестр сессий инициализирован")

	llmService := llm.New(appCfg.OpenAI, m)
	fmt.Println("✅ Сервис коллабораторов инициализирован")

	results := storage.NewStore(appCfg.Paths.ResultsDir)
	srv := server.New(appCfg, registry, llmService, results, m)
	fmt.Println("✅ HTTP сервер инициализирован")

	// Выводим информацию о конфигурации
	fmt.Println("\n📋 Конфигурация:")
	fmt.Printf("• Вопросов в банке: %d\n", bank.Len())
	fmt.Printf("• Записи: %s\n", appCfg.Paths.RecordingsDir)
	fmt.Printf("• Протоколы: %s\n", appCfg.Paths.TranscriptsDir)
	fmt.Printf("• ffmpeg: %s (таймаут %s)\n", appCfg.Media.FFmpegBin, appCfg.Media.MergeTimeout)

	fmt.Printf("\n🎤 Сервер запущен на порту %d\n", appCfg.Server.Port)

	if err := srv.Run(); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
