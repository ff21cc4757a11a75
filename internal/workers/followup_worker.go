package workers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/ronittamrakar/Xordon-sub011/internal/engine"
	"github.com/ronittamrakar/Xordon-sub011/internal/models"
	"github.com/ronittamrakar/Xordon-sub011/internal/queue"
	"github.com/ronittamrakar/Xordon-sub011/pkg/logger"
	"github.com/ronittamrakar/Xordon-sub011/pkg/metrics"
)

// FollowupWorker drains the delayed-action queue. Each task carries the
// automation's action plus the execution id recorded at match time; the
// worker runs the action and moves the execution to its terminal status.
// Delivery is at-least-once, so executions already terminal are skipped.
type FollowupWorker struct {
	server     *asynq.Server
	executions engine.ExecutionStore
	recorder   *engine.ExecutionRecorder
	executor   *engine.ActionExecutor
	metrics    *metrics.Metrics
	logger     *logger.Logger
}

// NewFollowupWorker creates the queue consumer. Concurrency and queue weights
// follow the producer's priority mapping.
func NewFollowupWorker(
	redisAddr, redisPassword string,
	redisDB int,
	concurrency int,
	executions engine.ExecutionStore,
	executor *engine.ActionExecutor,
	m *metrics.Metrics,
	log *logger.Logger,
) *FollowupWorker {
	if concurrency <= 0 {
		concurrency = 10
	}

	server := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: redisPassword,
			DB:       redisDB,
		},
		asynq.Config{
			Concurrency: concurrency,
			Queues:      queue.QueueWeights,
		},
	)

	return &FollowupWorker{
		server:     server,
		executions: executions,
		recorder:   engine.NewExecutionRecorder(executions),
		executor:   executor,
		metrics:    m,
		logger:     log,
	}
}

// Start registers the task handlers and starts processing
func (w *FollowupWorker) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TypeFollowupAction, w.handleFollowupAction)

	w.logger.Info("followup worker starting")
	return w.server.Start(mux)
}

// Stop shuts the consumer down gracefully, waiting for in-flight tasks
func (w *FollowupWorker) Stop() {
	w.logger.Info("followup worker stopping")
	w.server.Shutdown()
}

// handleFollowupAction runs one delayed action. Returning an error lets the
// broker retry; terminal-state and malformed-task conditions are swallowed so
// the task is not retried pointlessly.
func (w *FollowupWorker) handleFollowupAction(ctx context.Context, t *asynq.Task) error {
	var task engine.QueueTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		w.logger.Error("malformed followup task", logger.Err(err))
		return nil
	}

	execution, err := w.executions.GetExecutionByID(ctx, task.ExecutionID)
	if err != nil {
		return fmt.Errorf("failed to load execution %s: %w", task.ExecutionID, err)
	}
	if execution.Status.IsTerminal() {
		w.logger.Debug("execution already terminal, skipping redelivery",
			logger.String("execution_id", execution.ID.String()),
			logger.String("status", string(execution.Status)),
		)
		return nil
	}

	// Rebuild the automation view the executor needs from the task snapshot
	automation := &models.Automation{
		ID:           task.AutomationID,
		UserID:       task.OwnerID,
		WorkspaceID:  task.WorkspaceID,
		Name:         "automation " + task.AutomationID.String(),
		TriggerType:  execution.TriggerEvent,
		ActionType:   task.ActionType,
		ActionConfig: task.ActionConfig,
	}

	result := w.executor.Execute(ctx, automation, task.ContactID, task.TriggerData)

	status := models.ExecutionStatusExecuted
	if !result.Success {
		status = models.ExecutionStatusFailed
	}
	if err := w.recorder.Complete(ctx, execution, status, result.AsMap(), result.Error); err != nil {
		return fmt.Errorf("failed to complete execution %s: %w", execution.ID, err)
	}

	if w.metrics != nil {
		w.metrics.WorkerJobsProcessed.WithLabelValues("followup", string(status)).Inc()
		w.metrics.ActionExecutionsTotal.WithLabelValues(task.ActionType, string(status)).Inc()
	}
	w.logger.Info("delayed action processed",
		logger.String("execution_id", execution.ID.String()),
		logger.String("action_type", task.ActionType),
		logger.Bool("success", result.Success),
	)
	return nil
}
