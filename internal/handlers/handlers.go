package handlers

import (
	"github.com/sjperalta/fintera-schedule/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health   *HealthHandler
	Schedule *ScheduleHandler
	Job      *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(),
		Schedule: NewScheduleHandler(svcs.Schedule, svcs.Export, svcs.Statement),
		Job:      NewJobHandler(svcs.Job),
	}
}
