package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ronittamrakar/Xordon-sub011/internal/analysis"
	"github.com/ronittamrakar/Xordon-sub011/internal/models"
	"github.com/ronittamrakar/Xordon-sub011/pkg/logger"
	"github.com/ronittamrakar/Xordon-sub011/pkg/metrics"
)

// AutomationStore loads candidate automations for routing. Implementations
// must return rows ordered by priority descending, ties broken by most
// recently created first.
type AutomationStore interface {
	ListActiveAutomations(ctx context.Context, owner models.OwnerScope, channel models.Channel, triggerType string) ([]*models.Automation, error)
}

// QueueTask is the payload handed to the durable queue for delayed actions
type QueueTask struct {
	OwnerID      uuid.UUID    `json:"owner_id"`
	WorkspaceID  *uuid.UUID   `json:"workspace_id,omitempty"`
	AutomationID uuid.UUID    `json:"automation_id"`
	ExecutionID  uuid.UUID    `json:"execution_id"`
	ContactID    uuid.UUID    `json:"contact_id"`
	ActionType   string       `json:"action_type"`
	ActionConfig models.JSONB `json:"action_config"`
	TriggerData  models.JSONB `json:"trigger_data"`
	ScheduledAt  time.Time    `json:"scheduled_at"`
	Priority     int          `json:"priority"`
}

// QueueProducer hands delayed actions to a durable, at-least-once queue. The
// consumer respects ScheduledAt and Priority for dequeue order.
type QueueProducer interface {
	Enqueue(ctx context.Context, task *QueueTask) (string, error)
}

// MatchResult is what the caller receives per matched automation: either a
// synchronous action result or a scheduling confirmation.
type MatchResult struct {
	AutomationID   uuid.UUID     `json:"automation_id"`
	AutomationName string        `json:"automation_name"`
	ExecutionID    uuid.UUID     `json:"execution_id"`
	Executed       bool          `json:"executed"`
	ActionResult   *ActionResult `json:"action_result,omitempty"`
	QueueID        string        `json:"queue_id,omitempty"`
	ScheduledAt    time.Time     `json:"scheduled_at"`
}

// TriggerRouter composes the matching pipeline: load candidates, decide
// match/skip per automation, record the execution, then run or enqueue the
// action. It is invoked synchronously by whoever reports the event.
type TriggerRouter struct {
	automations AutomationStore
	classifier  *Classifier
	schedule    *ScheduleCalculator
	recorder    *ExecutionRecorder
	executor    *ActionExecutor
	queue       QueueProducer
	metrics     *metrics.Metrics
	logger      *logger.Logger
}

// NewTriggerRouter creates a router over the given collaborators. The metrics
// registry may be nil.
func NewTriggerRouter(
	automations AutomationStore,
	classifier *Classifier,
	schedule *ScheduleCalculator,
	recorder *ExecutionRecorder,
	executor *ActionExecutor,
	queue QueueProducer,
	m *metrics.Metrics,
	log *logger.Logger,
) *TriggerRouter {
	return &TriggerRouter{
		automations: automations,
		classifier:  classifier,
		schedule:    schedule,
		recorder:    recorder,
		executor:    executor,
		queue:       queue,
		metrics:     m,
		logger:      log,
	}
}

// Route evaluates every active automation eligible for the event, in priority
// order, and dispatches the matched actions. A non-matching event returns an
// empty slice; one automation's failure never prevents evaluating the next.
func (tr *TriggerRouter) Route(ctx context.Context, owner models.OwnerScope, event *models.TriggerEvent) ([]MatchResult, error) {
	candidates, err := tr.automations.ListActiveAutomations(ctx, owner, event.Channel, event.TriggerType)
	if err != nil {
		return nil, fmt.Errorf("failed to load automations: %w", err)
	}

	tr.logger.Info("routing trigger event",
		logger.String("channel", string(event.Channel)),
		logger.String("trigger_type", event.TriggerType),
		logger.Int("candidates", len(candidates)),
	)
	if tr.metrics != nil {
		tr.metrics.TriggerEventsTotal.WithLabelValues(string(event.Channel), event.TriggerType).Inc()
	}

	// Analysis runs at most once per event, on the first candidate that
	// needs it, and is shared across the rest of the pass.
	var actx *analysis.Context

	results := make([]MatchResult, 0)
	for _, automation := range candidates {
		if automation.CampaignID != nil {
			if event.CampaignID == nil || *event.CampaignID != *automation.CampaignID {
				continue
			}
		}

		if actx == nil && needsAnalysis(automation.TriggerType) {
			actx = tr.classifier.BuildContext(ctx, event)
		}

		decision, err := tr.classifier.Match(ctx, automation, event, actx)
		if err != nil {
			tr.logger.Warn("match evaluation failed",
				logger.String("automation_id", automation.ID.String()),
				logger.Err(err),
			)
			continue
		}
		if !decision.Matched {
			tr.logger.Debug("automation skipped",
				logger.String("automation_id", automation.ID.String()),
				logger.String("reason", decision.SkipReason),
			)
			continue
		}
		if tr.metrics != nil && decision.Reason != nil {
			tr.metrics.AutomationMatchesTotal.WithLabelValues(string(event.Channel), decision.Reason.MatchKind).Inc()
		}

		result := tr.dispatch(ctx, automation, event, actx, decision)
		if result != nil {
			results = append(results, *result)
		}
	}

	return results, nil
}

// dispatch records the execution and either runs the action synchronously or
// hands it to the queue, per the automation's configured delay
func (tr *TriggerRouter) dispatch(
	ctx context.Context,
	automation *models.Automation,
	event *models.TriggerEvent,
	actx *analysis.Context,
	decision *MatchDecision,
) *MatchResult {
	scheduledAt, immediate := tr.schedule.Compute(automation.DelayAmount, automation.DelayUnit)

	status := models.ExecutionStatusScheduled
	if immediate {
		status = models.ExecutionStatusPending
	}

	triggerData := buildTriggerData(event, actx)
	execution, err := tr.recorder.Create(ctx, automation, event.ContactID, automation.TriggerType,
		triggerData, decision.Reason, decision.Confidence, status, scheduledAt)
	if err != nil {
		tr.logger.Error("failed to record execution",
			logger.String("automation_id", automation.ID.String()),
			logger.Err(err),
		)
		return nil
	}

	result := &MatchResult{
		AutomationID:   automation.ID,
		AutomationName: automation.Name,
		ExecutionID:    execution.ID,
		ScheduledAt:    scheduledAt,
	}

	if immediate {
		actionResult := tr.executor.Execute(ctx, automation, event.ContactID, triggerData)

		finalStatus := models.ExecutionStatusExecuted
		if !actionResult.Success {
			finalStatus = models.ExecutionStatusFailed
		}
		if err := tr.recorder.Complete(ctx, execution, finalStatus, actionResult.AsMap(), actionResult.Error); err != nil {
			tr.logger.Error("failed to complete execution",
				logger.String("execution_id", execution.ID.String()),
				logger.Err(err),
			)
		}
		if tr.metrics != nil {
			tr.metrics.ActionExecutionsTotal.WithLabelValues(automation.ActionType, string(finalStatus)).Inc()
		}

		result.Executed = true
		result.ActionResult = actionResult
		return result
	}

	queueID, err := tr.queue.Enqueue(ctx, &QueueTask{
		OwnerID:      automation.UserID,
		WorkspaceID:  automation.WorkspaceID,
		AutomationID: automation.ID,
		ExecutionID:  execution.ID,
		ContactID:    event.ContactID,
		ActionType:   automation.ActionType,
		ActionConfig: automation.ActionConfig,
		TriggerData:  triggerData,
		ScheduledAt:  scheduledAt,
		Priority:     automation.Priority,
	})
	if err != nil {
		tr.logger.Error("failed to enqueue delayed action",
			logger.String("execution_id", execution.ID.String()),
			logger.Err(err),
		)
		if completeErr := tr.recorder.Complete(ctx, execution, models.ExecutionStatusFailed, nil, fmt.Sprintf("enqueue failed: %v", err)); completeErr != nil {
			tr.logger.Error("failed to mark execution failed", logger.Err(completeErr))
		}
		result.ActionResult = actionFailure("enqueue failed: %v", err)
		return result
	}
	if tr.metrics != nil {
		tr.metrics.QueueEnqueuesTotal.WithLabelValues(automation.ActionType).Inc()
	}

	result.QueueID = queueID
	return result
}

// needsAnalysis reports whether the trigger type requires the classification
// context. Standard and disposition_* triggers match on the raw payload only.
func needsAnalysis(triggerType string) bool {
	category, _ := models.ResolveTriggerCategory(triggerType)
	return category != models.TriggerStandard
}

// buildTriggerData snapshots the event payload plus the derived
// classification fields for the execution record
func buildTriggerData(event *models.TriggerEvent, actx *analysis.Context) models.JSONB {
	data := make(models.JSONB, len(event.Payload)+4)
	for k, v := range event.Payload {
		data[k] = v
	}
	if actx != nil {
		for k, v := range actx.Snapshot() {
			data[k] = v
		}
	}
	return data
}
