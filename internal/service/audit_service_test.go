package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrino-academy/andrino-api/internal/models"
	"github.com/andrino-academy/andrino-api/pkg/jobs"
)

type auditWriterStub struct {
	mu      sync.Mutex
	entries []models.AuditLog
	err     error
}

func (s *auditWriterStub) Create(ctx context.Context, log *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, *log)
	return nil
}

func (s *auditWriterStub) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Action
	}
	return out
}

func TestAuditServiceWritesThroughQueue(t *testing.T) {
	writer := &auditWriterStub{}
	svc := NewAuditService(writer, nil, nil, jobs.QueueConfig{Workers: 1, RetryDelay: time.Millisecond})
	svc.Start(context.Background())

	svc.Record(context.Background(), models.AuditLog{Action: models.AuditActionAvailabilitySave, Resource: "availability"})
	svc.Record(context.Background(), models.AuditLog{Action: models.AuditActionAvailabilityConfirm, Resource: "availability"})
	svc.Stop()

	assert.ElementsMatch(t, []string{models.AuditActionAvailabilitySave, models.AuditActionAvailabilityConfirm}, writer.actions())
	for _, e := range writer.entries {
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.CreatedAt.IsZero())
	}
}

func TestAuditServiceWritesInlineWhenStopped(t *testing.T) {
	writer := &auditWriterStub{}
	svc := NewAuditService(writer, nil, nil, jobs.QueueConfig{})

	svc.Record(context.Background(), models.AuditLog{Action: models.AuditActionLogin})
	require.Len(t, writer.actions(), 1)
}

func TestAuditServiceSwallowsWriteErrors(t *testing.T) {
	writer := &auditWriterStub{err: errors.New("db down")}
	svc := NewAuditService(writer, nil, nil, jobs.QueueConfig{})

	assert.NotPanics(t, func() {
		svc.Record(context.Background(), models.AuditLog{Action: models.AuditActionLogin})
	})

	var nilSvc *AuditService
	assert.NotPanics(t, func() {
		nilSvc.Record(context.Background(), models.AuditLog{})
	})
}
