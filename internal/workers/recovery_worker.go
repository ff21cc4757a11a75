package workers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ronittamrakar/Xordon-sub011/internal/engine"
	"github.com/ronittamrakar/Xordon-sub011/internal/models"
	"github.com/ronittamrakar/Xordon-sub011/pkg/logger"
)

// OverdueLister finds scheduled executions whose run time has passed
type OverdueLister interface {
	ListOverdueScheduled(ctx context.Context, olderThan time.Time, limit int) ([]models.AutomationExecution, error)
}

// AutomationGetter loads one automation by id
type AutomationGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Automation, error)
}

// RecoveryWorker sweeps for scheduled executions the queue never delivered —
// the window left open by the two-step create/complete write when a process
// dies between recording and enqueueing — and re-enqueues them. Terminal
// executions are never touched.
type RecoveryWorker struct {
	executions    OverdueLister
	automations   AutomationGetter
	producer      engine.QueueProducer
	logger        *logger.Logger
	checkInterval time.Duration
	gracePeriod   time.Duration
	batchSize     int
	stopCh        chan struct{}
	doneCh        chan struct{}
}

// NewRecoveryWorker creates a recovery sweeper. The grace period keeps the
// sweep from racing tasks the broker is about to deliver on time.
func NewRecoveryWorker(
	executions OverdueLister,
	automations AutomationGetter,
	producer engine.QueueProducer,
	log *logger.Logger,
	checkInterval, gracePeriod time.Duration,
	batchSize int,
) *RecoveryWorker {
	if checkInterval == 0 {
		checkInterval = 5 * time.Minute
	}
	if gracePeriod == 0 {
		gracePeriod = 10 * time.Minute
	}
	if batchSize <= 0 {
		batchSize = 100
	}

	return &RecoveryWorker{
		executions:    executions,
		automations:   automations,
		producer:      producer,
		logger:        log,
		checkInterval: checkInterval,
		gracePeriod:   gracePeriod,
		batchSize:     batchSize,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
}

// Start starts the worker in the background
func (w *RecoveryWorker) Start(ctx context.Context) {
	w.logger.Info("starting execution recovery worker",
		logger.String("interval", w.checkInterval.String()),
		logger.Int("batch_size", w.batchSize),
	)
	go w.run(ctx)
}

// Stop stops the worker gracefully
func (w *RecoveryWorker) Stop() {
	close(w.stopCh)
	<-w.doneCh
	w.logger.Info("execution recovery worker stopped")
}

func (w *RecoveryWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ticker.C:
			w.sweep(ctx)
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// sweep re-enqueues overdue scheduled executions
func (w *RecoveryWorker) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-w.gracePeriod)

	overdue, err := w.executions.ListOverdueScheduled(ctx, cutoff, w.batchSize)
	if err != nil {
		w.logger.Errorf("Failed to list overdue executions: %v", err)
		return
	}
	if len(overdue) == 0 {
		return
	}

	w.logger.Infof("Found %d overdue scheduled executions to recover", len(overdue))

	recovered := 0
	for i := range overdue {
		execution := &overdue[i]

		automation, err := w.automations.GetByID(ctx, execution.AutomationID)
		if err != nil {
			w.logger.Warn("automation gone, cannot recover execution",
				logger.String("execution_id", execution.ID.String()),
				logger.Err(err),
			)
			continue
		}

		_, err = w.producer.Enqueue(ctx, &engine.QueueTask{
			OwnerID:      automation.UserID,
			WorkspaceID:  automation.WorkspaceID,
			AutomationID: automation.ID,
			ExecutionID:  execution.ID,
			ContactID:    execution.ContactID,
			ActionType:   automation.ActionType,
			ActionConfig: automation.ActionConfig,
			TriggerData:  execution.TriggerData,
			ScheduledAt:  time.Now().UTC(),
			Priority:     automation.Priority,
		})
		if err != nil {
			w.logger.Errorf("Failed to re-enqueue execution %s: %v", execution.ID, err)
			continue
		}
		recovered++
	}

	w.logger.Infof("Recovered %d of %d overdue executions", recovered, len(overdue))
}
