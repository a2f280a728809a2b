package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AuditRecord is one append-only entry describing a generated email and
// the signals attributed to it.
type AuditRecord struct {
	ID          string    `json:"id"`
	ProspectID  string    `json:"prospect_id"`
	EmailType   string    `json:"email_type"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	SignalsUsed []string  `json:"signals_used"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuditStore is the append-only collaborator the composer writes to
// after generating an email.
type AuditStore interface {
	Append(record AuditRecord) error
}

// AuditLog persists audit records as JSON lines on local disk.
type AuditLog struct {
	filePath string
	mu       sync.Mutex
}

func NewAuditLog(dataDir string) (*AuditLog, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &AuditLog{
		filePath: filepath.Join(dataDir, "outreach_audit.jsonl"),
	}, nil
}

// Append writes one record. IDs and timestamps are filled in when the
// caller leaves them empty.
func (a *AuditLog) Append(record AuditRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	file, err := os.OpenFile(a.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit file: %w", err)
	}
	defer file.Close()

	if err := json.NewEncoder(file).Encode(record); err != nil {
		return fmt.Errorf("failed to encode audit record: %w", err)
	}
	return nil
}

// Count returns the number of persisted records. Used by health checks
// and tests.
func (a *AuditLog) Count() (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	file, err := os.Open(a.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to open audit file: %w", err)
	}
	defer file.Close()

	var count int
	decoder := json.NewDecoder(file)
	for decoder.More() {
		var rec AuditRecord
		if err := decoder.Decode(&rec); err != nil {
			return count, fmt.Errorf("failed to decode audit record: %w", err)
		}
		count++
	}
	return count, nil
}
