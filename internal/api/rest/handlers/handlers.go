package handlers

import (
	"github.com/ronittamrakar/Xordon-sub011/internal/engine"
	"github.com/ronittamrakar/Xordon-sub011/pkg/logger"
)

// Handlers aggregates all HTTP handlers
type Handlers struct {
	Health     *HealthHandler
	Trigger    *TriggerHandler
	Automation *AutomationHandler
	Execution  *ExecutionHandler
}

// HealthCheckers holds all health check dependencies
type HealthCheckers struct {
	DB    HealthChecker
	Redis HealthChecker
}

// NewHandlers creates a new handlers instance
func NewHandlers(
	log *logger.Logger,
	triggerRouter *engine.TriggerRouter,
	automationStore AutomationStore,
	executionStore ExecutionStore,
	healthCheckers *HealthCheckers,
	version string,
) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(log, healthCheckers.DB, healthCheckers.Redis, version),
		Trigger:    NewTriggerHandler(log, triggerRouter),
		Automation: NewAutomationHandler(log, automationStore),
		Execution:  NewExecutionHandler(log, executionStore),
	}
}
