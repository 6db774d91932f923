package server

import (
	"fmt"
	"net/http"
	"time"

	"excel-interview-backend/internal/config"
	"excel-interview-backend/internal/interview"
	"excel-interview-backend/internal/llm"
	"excel-interview-backend/internal/metrics"
	"excel-interview-backend/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server представляет HTTP транспорт поверх ядра интервью
type Server struct {
	engine   *gin.Engine
	cfg      *config.AppConfig
	registry *interview.Registry
	llm      *llm.Service
	results  *storage.Store
	metrics  *metrics.Metrics
}

// New создает HTTP сервер с роутами и CORS для локального фронтенда
func New(cfg *config.AppConfig, registry *interview.Registry, llmService *llm.Service, results *storage.Store, m *metrics.Metrics) *Server {
	s := &Server{
		cfg:      cfg,
		registry: registry,
		llm:      llmService,
		results:  results,
		metrics:  m,
	}

	engine := gin.Default()
	engine.SetTrustedProxies(nil)

	// CORS для локального фронтенда во время разработки
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"OPTIONS", "GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine.POST("/start_session", s.handleStartSession)
	engine.POST("/tts_stream", s.handleTTSStream)
	engine.POST("/answer_audio", s.handleAnswerAudio)
	engine.POST("/upload_video", s.handleUploadVideo)
	engine.POST("/end_session", s.handleEndSession)
	engine.GET("/questions", s.handleQuestions)
	engine.GET("/metrics", s.handleMetrics)

	s.engine = engine
	return s
}

// Run запускает HTTP сервер
func (s *Server) Run() error {
	return s.engine.Run(fmt.Sprintf(":%d", s.cfg.Server.Port))
}

// Handler возвращает корневой http.Handler (используется в тестах)
func (s *Server) Handler() http.Handler {
	return s.engine
}
