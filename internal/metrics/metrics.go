package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu                  sync.RWMutex
	InterviewsStarted   int64
	InterviewsCompleted int64
	AnswersScored       int64
	ChunksSaved         int64
	MergesCompleted     int64
	MergesFailed        int64
	APICallsTotal       int64
	APICallsSuccessful  int64
	LastUpdateTime      time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		LastUpdateTime: time.Now(),
	}
}

func (m *Metrics) IncrementInterviewsStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InterviewsStarted++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementInterviewsCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InterviewsCompleted++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementAnswersScored() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnswersScored++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementChunksSaved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChunksSaved++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementMerge(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if success {
		m.MergesCompleted++
	} else {
		m.MergesFailed++
	}
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementAPICall(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.APICallsTotal++
	if success {
		m.APICallsSuccessful++
	}
	m.LastUpdateTime = time.Now()
}

// Snapshot представляет копию счетчиков без блокировки
type Snapshot struct {
	InterviewsStarted   int64     `json:"interviews_started"`
	InterviewsCompleted int64     `json:"interviews_completed"`
	AnswersScored       int64     `json:"answers_scored"`
	ChunksSaved         int64     `json:"chunks_saved"`
	MergesCompleted     int64     `json:"merges_completed"`
	MergesFailed        int64     `json:"merges_failed"`
	APICallsTotal       int64     `json:"api_calls_total"`
	APICallsSuccessful  int64     `json:"api_calls_successful"`
	LastUpdateTime      time.Time `json:"last_update_time"`
}

func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		InterviewsStarted:   m.InterviewsStarted,
		InterviewsCompleted: m.InterviewsCompleted,
		AnswersScored:       m.AnswersScored,
		ChunksSaved:         m.ChunksSaved,
		MergesCompleted:     m.MergesCompleted,
		MergesFailed:        m.MergesFailed,
		APICallsTotal:       m.APICallsTotal,
		APICallsSuccessful:  m.APICallsSuccessful,
		LastUpdateTime:      m.LastUpdateTime,
	}
}
