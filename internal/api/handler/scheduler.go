package handler

import (
	"net/http"

	"github.com/vfg2006/creative-performance-api/internal/scheduler"
)

// TriggerStatusProvider is satisfied by the scheduler's trigger service.
type TriggerStatusProvider interface {
	Status() []scheduler.TriggerStatus
}

func SchedulerStatus(provider TriggerStatusProvider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"triggers": provider.Status(),
		})
	})
}
