package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ronittamrakar/Xordon-sub011/internal/models"
)

// ExecutionStore is a simple in-memory execution store for testing. It keeps
// creation order so tests can assert evaluation ordering.
type ExecutionStore struct {
	mu         sync.RWMutex
	executions map[uuid.UUID]*models.AutomationExecution
	order      []uuid.UUID
}

// NewExecutionStore creates a new in-memory execution store
func NewExecutionStore() *ExecutionStore {
	return &ExecutionStore{executions: make(map[uuid.UUID]*models.AutomationExecution)}
}

// CreateExecution stores a new execution record
func (s *ExecutionStore) CreateExecution(ctx context.Context, execution *models.AutomationExecution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if execution.ID == uuid.Nil {
		execution.ID = uuid.New()
	}
	copied := *execution
	s.executions[execution.ID] = &copied
	s.order = append(s.order, execution.ID)
	return nil
}

// UpdateExecution overwrites an existing execution record
func (s *ExecutionStore) UpdateExecution(ctx context.Context, execution *models.AutomationExecution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.executions[execution.ID]; !exists {
		return fmt.Errorf("execution not found")
	}
	copied := *execution
	s.executions[execution.ID] = &copied
	return nil
}

// GetExecutionByID retrieves an execution by ID
func (s *ExecutionStore) GetExecutionByID(ctx context.Context, id uuid.UUID) (*models.AutomationExecution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	execution, exists := s.executions[id]
	if !exists {
		return nil, fmt.Errorf("execution not found")
	}
	return execution, nil
}

// ListExecutions returns stored executions in creation order
func (s *ExecutionStore) ListExecutions(ctx context.Context, automationID *uuid.UUID, limit, offset int) ([]models.AutomationExecution, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.AutomationExecution, 0, len(s.order))
	for _, id := range s.order {
		e := s.executions[id]
		if automationID != nil && e.AutomationID != *automationID {
			continue
		}
		all = append(all, *e)
	}

	total := int64(len(all))
	if offset > len(all) {
		return []models.AutomationExecution{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ListOverdueScheduled returns scheduled executions whose run time has passed
func (s *ExecutionStore) ListOverdueScheduled(ctx context.Context, olderThan time.Time, limit int) ([]models.AutomationExecution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	overdue := make([]models.AutomationExecution, 0)
	for _, id := range s.order {
		e := s.executions[id]
		if e.Status == models.ExecutionStatusScheduled && e.ScheduledAt.Before(olderThan) {
			overdue = append(overdue, *e)
		}
	}

	sort.SliceStable(overdue, func(i, j int) bool {
		return overdue[i].ScheduledAt.Before(overdue[j].ScheduledAt)
	})
	if limit > 0 && len(overdue) > limit {
		overdue = overdue[:limit]
	}
	return overdue, nil
}

// InOrder returns every execution in creation order
func (s *ExecutionStore) InOrder() []*models.AutomationExecution {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.AutomationExecution, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.executions[id])
	}
	return out
}

// Reset clears all executions
func (s *ExecutionStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executions = make(map[uuid.UUID]*models.AutomationExecution)
	s.order = nil
}
