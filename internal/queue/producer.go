package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ronittamrakar/Xordon-sub011/internal/engine"
	"github.com/ronittamrakar/Xordon-sub011/pkg/logger"
)

// TypeFollowupAction is the task type for delayed automation actions
const TypeFollowupAction = "followup:action"

// Queue names, weighted by the worker so high-priority automations drain first
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// QueueWeights is the worker-side drain ratio across queues
var QueueWeights = map[string]int{
	QueueCritical: 6,
	QueueDefault:  3,
	QueueLow:      1,
}

// QueueForPriority maps an automation priority to a queue name
func QueueForPriority(priority int) string {
	switch {
	case priority >= 10:
		return QueueCritical
	case priority <= 0:
		return QueueLow
	default:
		return QueueDefault
	}
}

// Producer hands delayed automation actions to the durable Redis-backed
// queue. Delivery is at-least-once; the worker respects the task's process
// time and the queue's priority weight.
type Producer struct {
	client *asynq.Client
	logger *logger.Logger
}

// NewProducer creates a producer over a Redis connection
func NewProducer(redisAddr, redisPassword string, redisDB int, log *logger.Logger) *Producer {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})
	return &Producer{client: client, logger: log}
}

// NewProducerWithClient wraps an existing asynq client
func NewProducerWithClient(client *asynq.Client, log *logger.Logger) *Producer {
	return &Producer{client: client, logger: log}
}

// Enqueue schedules the task for its ScheduledAt time and returns the broker
// task id
func (p *Producer) Enqueue(ctx context.Context, task *engine.QueueTask) (string, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return "", fmt.Errorf("failed to marshal queue task: %w", err)
	}

	info, err := p.client.EnqueueContext(ctx,
		asynq.NewTask(TypeFollowupAction, payload),
		asynq.Queue(QueueForPriority(task.Priority)),
		asynq.ProcessAt(task.ScheduledAt),
		asynq.MaxRetry(3),
		asynq.Timeout(2*time.Minute),
	)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue followup action: %w", err)
	}

	p.logger.Info("followup action enqueued",
		logger.String("task_id", info.ID),
		logger.String("queue", info.Queue),
		logger.String("execution_id", task.ExecutionID.String()),
		logger.String("action_type", task.ActionType),
	)
	return info.ID, nil
}

// Close releases the broker connection
func (p *Producer) Close() error {
	return p.client.Close()
}
