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

// AutomationStore is a simple in-memory automation store for testing
type AutomationStore struct {
	mu          sync.RWMutex
	automations map[uuid.UUID]*models.Automation
}

// NewAutomationStore creates a new in-memory automation store
func NewAutomationStore() *AutomationStore {
	return &AutomationStore{automations: make(map[uuid.UUID]*models.Automation)}
}

// Create stores an automation
func (s *AutomationStore) Create(ctx context.Context, automation *models.Automation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if automation.ID == uuid.Nil {
		automation.ID = uuid.New()
	}
	if automation.CreatedAt.IsZero() {
		automation.CreatedAt = time.Now().UTC()
	}
	automation.UpdatedAt = time.Now().UTC()

	s.automations[automation.ID] = automation
	return nil
}

// GetByID retrieves an automation by ID
func (s *AutomationStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Automation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	automation, exists := s.automations[id]
	if !exists {
		return nil, fmt.Errorf("automation not found")
	}
	return automation, nil
}

// ListActiveAutomations returns active automations for the owner and channel,
// filtered by trigger type when one is given, ordered by priority descending
// with ties broken by most recently created first.
func (s *AutomationStore) ListActiveAutomations(ctx context.Context, owner models.OwnerScope, channel models.Channel, triggerType string) ([]*models.Automation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matching := make([]*models.Automation, 0)
	for _, a := range s.automations {
		if !a.IsActive || a.Channel != channel {
			continue
		}
		if !ownerMatches(a, owner) {
			continue
		}
		if triggerType != "" && a.TriggerType != triggerType {
			continue
		}
		matching = append(matching, a)
	}

	sort.SliceStable(matching, func(i, j int) bool {
		if matching[i].Priority != matching[j].Priority {
			return matching[i].Priority > matching[j].Priority
		}
		return matching[i].CreatedAt.After(matching[j].CreatedAt)
	})

	return matching, nil
}

// SetActive toggles an automation's active flag
func (s *AutomationStore) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	automation, exists := s.automations[id]
	if !exists {
		return fmt.Errorf("automation not found")
	}
	automation.IsActive = active
	automation.UpdatedAt = time.Now().UTC()
	return nil
}

// Reset clears all automations
func (s *AutomationStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.automations = make(map[uuid.UUID]*models.Automation)
}

func ownerMatches(a *models.Automation, owner models.OwnerScope) bool {
	if owner.WorkspaceID != nil && a.WorkspaceID != nil {
		return *owner.WorkspaceID == *a.WorkspaceID
	}
	return a.UserID == owner.UserID
}
