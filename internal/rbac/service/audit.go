package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"journal/internal/rbac/model"
	"journal/internal/rbac/repository"
)

const auditWriteTimeout = 5 * time.Second

// AuditLogger appends entries to the audit trail. Writes are best-effort:
// failures are logged and counted, never returned.
type AuditLogger struct {
	repo    repository.AuditRepository
	now     func() time.Time
	logger  *slog.Logger
	metrics *Metrics
	// inline writes synchronously instead of in a goroutine
	inline bool
	wg     sync.WaitGroup
}

func NewAuditLogger(repo repository.AuditRepository, now func() time.Time, logger *slog.Logger, metrics *Metrics, inline bool) *AuditLogger {
	return &AuditLogger{repo: repo, now: now, logger: logger, metrics: metrics, inline: inline}
}

func (a *AuditLogger) Record(ctx context.Context, e repository.AuditEntry) {
	if a == nil || a.repo == nil {
		return
	}
	entry := e.ToAuditLogEntry(a.now())

	if a.inline {
		a.write(ctx, entry)
		return
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.write(context.WithoutCancel(ctx), entry)
	}()
}

func (a *AuditLogger) write(ctx context.Context, entry *model.AuditLogEntry) {
	ctx, cancel := context.WithTimeout(ctx, auditWriteTimeout)
	defer cancel()

	if err := a.repo.CreateAuditLog(ctx, entry); err != nil {
		a.metrics.RecordAuditFailure()
		a.logger.Warn("audit log write failed",
			"action", entry.Action,
			"entity_type", entry.EntityType,
			"entity_id", entry.EntityID,
			"error", err,
		)
	}
}

// Wait blocks until pending asynchronous writes finish.
func (a *AuditLogger) Wait() {
	if a == nil {
		return
	}
	a.wg.Wait()
}
