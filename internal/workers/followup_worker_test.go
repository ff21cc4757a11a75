package workers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronittamrakar/Xordon-sub011/internal/engine"
	"github.com/ronittamrakar/Xordon-sub011/internal/mocks"
	"github.com/ronittamrakar/Xordon-sub011/internal/models"
	"github.com/ronittamrakar/Xordon-sub011/pkg/logger"
)

func newTestWorker(t *testing.T, executions *mocks.ExecutionStore, contacts *mocks.ContactStore) *FollowupWorker {
	t.Helper()
	log := logger.NewForTesting()
	executor := engine.NewActionExecutor(contacts, mocks.NewTemplateStore(), &mocks.Mailer{}, &mocks.SMSSender{}, log)
	return NewFollowupWorker("localhost:6379", "", 0, 1, executions, executor, nil, log)
}

func scheduledExecution(t *testing.T, executions *mocks.ExecutionStore, automationID, contactID uuid.UUID) *models.AutomationExecution {
	t.Helper()
	execution := &models.AutomationExecution{
		ID:           uuid.New(),
		AutomationID: automationID,
		ContactID:    contactID,
		TriggerEvent: "call_answered",
		TriggerData:  models.JSONB{"call_status": "answered"},
		Status:       models.ExecutionStatusScheduled,
		ScheduledAt:  time.Now().UTC().Add(-time.Minute),
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, executions.CreateExecution(context.Background(), execution))
	return execution
}

func followupTask(t *testing.T, task *engine.QueueTask) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(task)
	require.NoError(t, err)
	return asynq.NewTask("followup:action", payload)
}

func TestHandleFollowupAction(t *testing.T) {
	ctx := context.Background()

	t.Run("runs action and marks execution executed", func(t *testing.T) {
		executions := mocks.NewExecutionStore()
		contacts := mocks.NewContactStore()
		contact := &models.Contact{FirstName: "Ada", Status: "new"}
		contacts.Add(contact)

		execution := scheduledExecution(t, executions, uuid.New(), contact.ID)
		worker := newTestWorker(t, executions, contacts)

		err := worker.handleFollowupAction(ctx, followupTask(t, &engine.QueueTask{
			AutomationID: execution.AutomationID,
			ExecutionID:  execution.ID,
			ContactID:    contact.ID,
			ActionType:   models.ActionUpdateStatus,
			ActionConfig: models.JSONB{"status": "contacted"},
			TriggerData:  execution.TriggerData,
		}))
		require.NoError(t, err)

		updated, err := executions.GetExecutionByID(ctx, execution.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ExecutionStatusExecuted, updated.Status)
		assert.NotNil(t, updated.ExecutedAt)

		refreshed, err := contacts.GetContactByID(ctx, contact.ID)
		require.NoError(t, err)
		assert.Equal(t, "contacted", refreshed.Status)
	})

	t.Run("failed action marks execution failed", func(t *testing.T) {
		executions := mocks.NewExecutionStore()
		contacts := mocks.NewContactStore()
		contact := &models.Contact{FirstName: "Ada"}
		contacts.Add(contact)

		execution := scheduledExecution(t, executions, uuid.New(), contact.ID)
		worker := newTestWorker(t, executions, contacts)

		err := worker.handleFollowupAction(ctx, followupTask(t, &engine.QueueTask{
			AutomationID: execution.AutomationID,
			ExecutionID:  execution.ID,
			ContactID:    contact.ID,
			ActionType:   models.ActionAddTag,
			ActionConfig: models.JSONB{}, // missing tag_id
		}))
		require.NoError(t, err)

		updated, err := executions.GetExecutionByID(ctx, execution.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ExecutionStatusFailed, updated.Status)
		require.NotNil(t, updated.ErrorMessage)
		assert.Equal(t, "Tag ID required", *updated.ErrorMessage)
	})

	t.Run("terminal execution is not re-run", func(t *testing.T) {
		executions := mocks.NewExecutionStore()
		contacts := mocks.NewContactStore()
		contact := &models.Contact{FirstName: "Ada", Status: "done"}
		contacts.Add(contact)

		execution := scheduledExecution(t, executions, uuid.New(), contact.ID)
		execution.Status = models.ExecutionStatusExecuted
		require.NoError(t, executions.UpdateExecution(ctx, execution))

		worker := newTestWorker(t, executions, contacts)
		err := worker.handleFollowupAction(ctx, followupTask(t, &engine.QueueTask{
			AutomationID: execution.AutomationID,
			ExecutionID:  execution.ID,
			ContactID:    contact.ID,
			ActionType:   models.ActionUpdateStatus,
			ActionConfig: models.JSONB{"status": "contacted"},
		}))
		require.NoError(t, err)

		refreshed, err := contacts.GetContactByID(ctx, contact.ID)
		require.NoError(t, err)
		assert.Equal(t, "done", refreshed.Status, "redelivered task must not mutate the contact again")
	})

	t.Run("unknown execution returns error for retry", func(t *testing.T) {
		executions := mocks.NewExecutionStore()
		contacts := mocks.NewContactStore()
		worker := newTestWorker(t, executions, contacts)

		err := worker.handleFollowupAction(ctx, followupTask(t, &engine.QueueTask{
			ExecutionID: uuid.New(),
			ContactID:   uuid.New(),
			ActionType:  models.ActionUpdateStatus,
		}))
		assert.Error(t, err)
	})

	t.Run("malformed payload is dropped without retry", func(t *testing.T) {
		worker := newTestWorker(t, mocks.NewExecutionStore(), mocks.NewContactStore())
		err := worker.handleFollowupAction(ctx, asynq.NewTask("followup:action", []byte("not json")))
		assert.NoError(t, err)
	})
}

func TestRecoveryWorkerSweep(t *testing.T) {
	ctx := context.Background()
	log := logger.NewForTesting()

	automations := mocks.NewAutomationStore()
	automation := &models.Automation{
		UserID:       uuid.New(),
		Name:         "overdue automation",
		Channel:      models.ChannelCall,
		TriggerType:  "call_answered",
		ActionType:   models.ActionUpdateStatus,
		ActionConfig: models.JSONB{"status": "contacted"},
		IsActive:     true,
		Priority:     5,
	}
	require.NoError(t, automations.Create(ctx, automation))

	executions := mocks.NewExecutionStore()
	overdue := &models.AutomationExecution{
		AutomationID: automation.ID,
		ContactID:    uuid.New(),
		TriggerEvent: "call_answered",
		Status:       models.ExecutionStatusScheduled,
		ScheduledAt:  time.Now().UTC().Add(-time.Hour),
	}
	require.NoError(t, executions.CreateExecution(ctx, overdue))

	fresh := &models.AutomationExecution{
		AutomationID: automation.ID,
		ContactID:    uuid.New(),
		TriggerEvent: "call_answered",
		Status:       models.ExecutionStatusScheduled,
		ScheduledAt:  time.Now().UTC().Add(time.Hour),
	}
	require.NoError(t, executions.CreateExecution(ctx, fresh))

	producer := mocks.NewQueueProducer()
	worker := NewRecoveryWorker(executions, automations, producer, log, time.Minute, 10*time.Minute, 50)
	worker.sweep(ctx)

	require.Len(t, producer.Tasks, 1, "only the overdue execution should be re-enqueued")
	task := producer.Tasks[0]
	assert.Equal(t, overdue.ID, task.ExecutionID)
	assert.Equal(t, automation.ID, task.AutomationID)
	assert.Equal(t, automation.Priority, task.Priority)
}
