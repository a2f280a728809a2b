package storage

import (
	"testing"
)

func TestAuditLogAppendAndCount(t *testing.T) {
	log, err := NewAuditLog(t.TempDir())
	if err != nil {
		t.Fatalf("NewAuditLog() error = %v", err)
	}

	count, err := log.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d, want 0", count)
	}

	records := []AuditRecord{
		{ProspectID: "p-1", EmailType: "cold_outreach", Subject: "Hello", Body: "Body one", SignalsUsed: []string{"headline"}},
		{ProspectID: "p-2", EmailType: "follow_up", Subject: "Again", Body: "Body two"},
	}
	for _, rec := range records {
		if err := log.Append(rec); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	count, err = log.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}
}

func TestAuditLogFillsIDAndTimestamp(t *testing.T) {
	dir := t.TempDir()
	log, err := NewAuditLog(dir)
	if err != nil {
		t.Fatalf("NewAuditLog() error = %v", err)
	}

	if err := log.Append(AuditRecord{ProspectID: "p-1"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	// A filled ID and timestamp must survive the round trip.
	count, err := log.Count()
	if err != nil || count != 1 {
		t.Fatalf("Count() = %d, %v; want 1 record", count, err)
	}
}
