package handler

import (
	"net/http"

	"github.com/vfg2006/creative-performance-api/internal/api/handler/router"
	"github.com/vfg2006/creative-performance-api/internal/usecases/connecting"
	"github.com/vfg2006/creative-performance-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Connections(service connecting.ConnectionService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/connections",
			Method:      http.MethodGet,
			Handler:     ListConnections(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		// The handoff endpoints live under their own prefix because
		// httprouter cannot mix a static segment with :id at the same
		// position.
		{
			Path:        "/v1/pending-connections",
			Method:      http.MethodPost,
			Handler:     StagePendingConnection(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrOperator()},
		},
		{
			Path:        "/v1/pending-connections/:key",
			Method:      http.MethodGet,
			Handler:     GetPendingConnection(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrOperator()},
		},
		{
			Path:        "/v1/pending-connections/:key/complete",
			Method:      http.MethodPost,
			Handler:     CompleteConnection(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrOperator()},
		},
		{
			Path:        "/v1/connections/:id",
			Method:      http.MethodGet,
			Handler:     GetConnection(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/connections/:id/status",
			Method:      http.MethodGet,
			Handler:     GetConnectionStatus(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/connections/:id",
			Method:      http.MethodDelete,
			Handler:     DeactivateConnection(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/connections/:id/resync",
			Method:      http.MethodPost,
			Handler:     TriggerConnectionSync(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrOperator()},
		},
		{
			Path:        "/v1/connections/:id/jobs",
			Method:      http.MethodGet,
			Handler:     ListConnectionJobs(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Scheduler(provider TriggerStatusProvider) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/scheduler/status",
			Method:      http.MethodGet,
			Handler:     SchedulerStatus(provider),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrOperator()},
		},
	}
}
