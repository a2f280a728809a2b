package monitoring

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Monitor tracks engine health across concurrent requests.
type Monitor struct {
	mu             sync.RWMutex
	lastRunSuccess bool
	lastRunTime    time.Time
	requestCount   int
	failureCount   int
}

func NewMonitor() *Monitor {
	return &Monitor{}
}

func (m *Monitor) RecordSuccess(summary string, duration time.Duration) {
	m.mu.Lock()
	m.lastRunSuccess = true
	m.lastRunTime = time.Now()
	m.requestCount++
	m.mu.Unlock()

	log.Printf("✅ Request completed - %s (took %v)", summary, duration)
}

func (m *Monitor) RecordPartialFailure(err error, duration time.Duration) {
	// Don't change health status for partial failures
	log.Printf("⚠️  PARTIAL FAILURE: %s (Duration: %v)", err.Error(), duration)
}

func (m *Monitor) RecordCriticalFailure(err error, duration time.Duration) {
	m.mu.Lock()
	m.lastRunSuccess = false
	m.lastRunTime = time.Now()
	m.requestCount++
	m.failureCount++
	m.mu.Unlock()

	log.Printf("🚨 CRITICAL FAILURE: %s (Duration: %v)", err.Error(), duration)
}

func (m *Monitor) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastRunTime.IsZero() {
		return true // No requests yet, assume healthy
	}
	return m.lastRunSuccess
}

func (m *Monitor) GetStatusSummary() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastRunTime.IsZero() {
		return "No requests yet"
	}

	if m.lastRunSuccess {
		return fmt.Sprintf("✅ Last request: %s (%d served, %d failed)",
			m.lastRunTime.Format("Jan 2 15:04"), m.requestCount, m.failureCount)
	}
	return fmt.Sprintf("❌ Last request failed: %s (%d served, %d failed)",
		m.lastRunTime.Format("Jan 2 15:04"), m.requestCount, m.failureCount)
}
