package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"outreach-engine/agents/outreach"
	"outreach-engine/internal/models"
	"outreach-engine/shared/ai"
	"outreach-engine/shared/config"
	"outreach-engine/shared/monitoring"
	"outreach-engine/shared/scheduler"
	"outreach-engine/shared/storage"
)

type scoreRequest struct {
	Signals *models.ProspectSignals `json:"signals"`
	Enhance bool                    `json:"enhance"`
}

type composeRequest struct {
	Signals         *models.ProspectSignals `json:"signals"`
	EmailType       string                  `json:"email_type"`
	Tone            string                  `json:"tone"`
	Length          string                  `json:"length"`
	Enhance         bool                    `json:"enhance"`
	IncludeIndustry bool                    `json:"include_industry"`
}

type sequenceRequest struct {
	Signals *models.ProspectSignals `json:"signals"`
	Length  int                     `json:"length"`
	Tone    string                  `json:"tone"`
}

type server struct {
	engine  *outreach.Engine
	monitor *monitoring.Monitor
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create context that responds to signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client, err := ai.NewClient(ctx, &cfg.AI)
	if err != nil {
		log.Fatalf("Failed to create AI client: %v", err)
	}

	knowledge, err := outreach.NewIndustryKnowledge(cfg.Knowledge.IndustryFile)
	if err != nil {
		log.Fatalf("Failed to load industry knowledge: %v", err)
	}

	audit, err := storage.NewAuditLog(cfg.Audit.DataDir)
	if err != nil {
		log.Fatalf("Failed to create audit log: %v", err)
	}

	s := &server{
		engine:  outreach.New(cfg, client, knowledge, audit),
		monitor: monitoring.NewMonitor(),
	}

	// Reload the industry table on the configured schedule
	sched := scheduler.New()
	if err := sched.Add(ctx, cfg.Knowledge.RefreshSchedule, knowledge); err != nil {
		log.Fatalf("Failed to schedule knowledge refresh: %v", err)
	}
	sched.Start(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/score", s.handleScore)
	mux.HandleFunc("/v1/compose", s.handleCompose)
	mux.HandleFunc("/v1/sequence", s.handleSequence)

	healthServer := monitoring.NewHealthServer(s.monitor, cfg.Monitoring.HealthPort)
	healthServer.Start(mux)

	fmt.Println("Outreach engine started")
	<-ctx.Done()
	fmt.Println("Shutting down")
}

func (s *server) handleScore(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	pctx, err := s.engine.BuildContext(req.Signals)
	if err != nil {
		s.fail(w, "score", err, start)
		return
	}
	if req.Enhance {
		s.engine.EnhanceContext(r.Context(), req.Signals, pctx)
	}

	s.respond(w, pctx, fmt.Sprintf("scored prospect %s at %d", req.Signals.ProspectID, pctx.PersonalizationScore), start)
}

func (s *server) handleCompose(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req composeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	pctx, err := s.engine.BuildContext(req.Signals)
	if err != nil {
		s.fail(w, "compose", err, start)
		return
	}
	if req.Enhance {
		s.engine.EnhanceContext(r.Context(), req.Signals, pctx)
	}

	var industry *models.IndustryMessaging
	if req.IncludeIndustry {
		industry = s.engine.IndustryMessaging(r.Context(), req.Signals)
	}

	result, err := s.engine.ComposeEmail(r.Context(), req.Signals, pctx, industry, models.EmailRequest{
		EmailType: req.EmailType,
		Tone:      req.Tone,
		Length:    req.Length,
	})
	if err != nil {
		s.fail(w, "compose", err, start)
		return
	}

	s.respond(w, result, fmt.Sprintf("composed %s email for prospect %s", req.EmailType, req.Signals.ProspectID), start)
}

func (s *server) handleSequence(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req sequenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	pctx, err := s.engine.BuildContext(req.Signals)
	if err != nil {
		s.fail(w, "sequence", err, start)
		return
	}

	sequence, err := s.engine.GenerateSequence(r.Context(), req.Signals, pctx, nil, req.Length, req.Tone)
	if err != nil {
		s.fail(w, "sequence", err, start)
		return
	}
	if len(sequence.Steps) < req.Length {
		s.monitor.RecordPartialFailure(
			fmt.Errorf("requested %d steps, template caps at %d", req.Length, len(sequence.Steps)),
			time.Since(start))
	}

	s.respond(w, sequence, fmt.Sprintf("generated %d-step sequence for prospect %s", len(sequence.Steps), req.Signals.ProspectID), start)
}

func (s *server) respond(w http.ResponseWriter, payload any, summary string, start time.Time) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
		return
	}
	s.monitor.RecordSuccess(summary, time.Since(start))
}

func (s *server) fail(w http.ResponseWriter, op string, err error, start time.Time) {
	s.monitor.RecordCriticalFailure(fmt.Errorf("%s request failed: %w", op, err), time.Since(start))

	status := http.StatusInternalServerError
	var missing *outreach.MissingDataError
	if errors.As(err, &missing) {
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}
