package service

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andrino-academy/andrino-api/internal/models"
	"github.com/andrino-academy/andrino-api/pkg/jobs"
)

const auditJobType = "audit_log"

type auditWriter interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// AuditService writes audit entries through a background queue so request
// latency does not include the insert. When the queue is not running or is
// full the entry is written inline.
type AuditService struct {
	writer  auditWriter
	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger
}

// NewAuditService constructs the service and its queue. Call Start before use.
func NewAuditService(writer auditWriter, metrics *MetricsService, logger *zap.Logger, cfg jobs.QueueConfig) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AuditService{writer: writer, metrics: metrics, logger: logger}
	cfg.Logger = logger
	s.queue = jobs.NewQueue("audit", s.handle, cfg)
	return s
}

// Start launches the queue workers.
func (s *AuditService) Start(ctx context.Context) {
	if s == nil {
		return
	}
	s.queue.Start(ctx)
}

// Stop flushes pending entries and stops the workers.
func (s *AuditService) Stop() {
	if s == nil {
		return
	}
	s.queue.Stop()
	s.metrics.SetAuditBacklog(0)
}

// Record stores entry. It never fails the caller; write errors are logged.
func (s *AuditService) Record(ctx context.Context, entry models.AuditLog) {
	if s == nil || s.writer == nil {
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	err := s.queue.TryEnqueue(jobs.Job{ID: entry.ID, Type: auditJobType, Payload: entry})
	if err == nil {
		s.metrics.SetAuditBacklog(s.queue.Len())
		return
	}
	s.logger.Debug("audit queue unavailable, writing inline", zap.String("action", entry.Action), zap.Error(err))
	if err := s.writer.Create(ctx, &entry); err != nil {
		s.logger.Warn("failed to record audit log", zap.String("action", entry.Action), zap.Error(err))
	}
}

func (s *AuditService) handle(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(models.AuditLog)
	if !ok {
		return fmt.Errorf("unexpected audit payload %T", job.Payload)
	}
	defer s.metrics.SetAuditBacklog(s.queue.Len())
	return s.writer.Create(ctx, &entry)
}

// auditValues encodes v for the old_values/new_values columns.
func auditValues(v interface{}) []byte {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
