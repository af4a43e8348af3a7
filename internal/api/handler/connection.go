package handler

import (
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	"github.com/vfg2006/creative-performance-api/internal/usecases/connecting"
	"github.com/vfg2006/creative-performance-api/pkg/apiErrors"
	"github.com/vfg2006/creative-performance-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultJobListLimit = 20

func organizationFromContext(r *http.Request) (string, bool) {
	claims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
	if !ok || claims.OrganizationID == "" {
		return "", false
	}
	return claims.OrganizationID, true
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to encode response", nil)
	}
}

func ListConnections(service connecting.ConnectionService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		organizationID, ok := organizationFromContext(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Missing organization in token", nil)
			return
		}

		connections, err := service.List(organizationID, r.URL.Query().Get("platform"))
		if err != nil {
			logrus.WithError(err).Error("listing connections")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Failed to list connections", nil)
			return
		}

		writeJSON(w, connections)
	})
}

func GetConnection(service connecting.ConnectionService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		organizationID, ok := organizationFromContext(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Missing organization in token", nil)
			return
		}

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		conn, err := service.Get(organizationID, id)
		if err != nil {
			if errors.Is(err, connecting.ErrConnectionNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrNotFound, "Connection not found", nil)
				return
			}
			logrus.WithError(err).Error("loading connection")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Failed to load connection", nil)
			return
		}

		writeJSON(w, conn)
	})
}

// GetConnectionStatus returns the sync-progress subset of a connection.
func GetConnectionStatus(service connecting.ConnectionService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		organizationID, ok := organizationFromContext(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Missing organization in token", nil)
			return
		}

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		conn, err := service.Get(organizationID, id)
		if err != nil {
			if errors.Is(err, connecting.ErrConnectionNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrNotFound, "Connection not found", nil)
				return
			}
			logrus.WithError(err).Error("loading connection status")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Failed to load connection", nil)
			return
		}

		writeJSON(w, map[string]any{
			"id":                        conn.ID,
			"sync_status":               conn.SyncStatus,
			"last_synced_at":            conn.LastSyncedAt,
			"initial_sync_completed":    conn.InitialSyncCompleted,
			"historical_sync_completed": conn.HistoricalSyncCompleted,
		})
	})
}

func DeactivateConnection(service connecting.ConnectionService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		organizationID, ok := organizationFromContext(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Missing organization in token", nil)
			return
		}

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		if err := service.Deactivate(organizationID, id); err != nil {
			if errors.Is(err, connecting.ErrConnectionNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrNotFound, "Connection not found", nil)
				return
			}
			logrus.WithError(err).Error("deactivating connection")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Failed to deactivate connection", nil)
			return
		}

		writeJSON(w, map[string]string{"detail": "Connection deactivated"})
	})
}

func TriggerConnectionSync(service connecting.ConnectionService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		organizationID, ok := organizationFromContext(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Missing organization in token", nil)
			return
		}

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		conn, err := service.TriggerSync(organizationID, id)
		if err != nil {
			if errors.Is(err, connecting.ErrConnectionNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrNotFound, "Connection not found", nil)
				return
			}
			logrus.WithError(err).Error("triggering manual sync")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to trigger sync", nil)
			return
		}

		writeJSON(w, map[string]string{
			"detail":        "Sync started",
			"connection_id": conn.ID,
		})
	})
}

func ListConnectionJobs(service connecting.ConnectionService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		organizationID, ok := organizationFromContext(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Missing organization in token", nil)
			return
		}

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		limit := uint64(defaultJobListLimit)
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "limit must be a positive integer", nil)
				return
			}
			limit = parsed
		}

		jobs, err := service.ListJobs(organizationID, id, limit)
		if err != nil {
			if errors.Is(err, connecting.ErrConnectionNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrNotFound, "Connection not found", nil)
				return
			}
			logrus.WithError(err).Error("listing sync jobs")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Failed to list sync jobs", nil)
			return
		}

		writeJSON(w, jobs)
	})
}

func StagePendingConnection(service connecting.ConnectionService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := organizationFromContext(r); !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Missing organization in token", nil)
			return
		}

		var pending connecting.PendingConnection
		if err := json.NewDecoder(r.Body).Decode(&pending); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Invalid request body: "+err.Error(), nil)
			return
		}

		key, err := service.StagePending(pending)
		if err != nil {
			if errors.Is(err, connecting.ErrUnknownPlatform) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Unknown platform", nil)
				return
			}
			logrus.WithError(err).Error("staging pending connection")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to stage pending connection", nil)
			return
		}

		writeJSON(w, map[string]string{"handoff_key": key})
	})
}

// GetPendingConnection exposes the discovered accounts for a staged handoff.
// Tokens never leave the server.
func GetPendingConnection(service connecting.ConnectionService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := organizationFromContext(r); !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Missing organization in token", nil)
			return
		}

		key := httprouter.ParamsFromContext(r.Context()).ByName("key")

		pending, err := service.GetPending(key)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrNotFound, "Handoff not found or expired", nil)
			return
		}

		writeJSON(w, map[string]any{
			"platform": pending.Platform,
			"accounts": pending.Accounts,
		})
	})
}

type completeConnectionRequest struct {
	AccountIDs []string `json:"account_ids"`
}

func CompleteConnection(service connecting.ConnectionService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		organizationID, ok := organizationFromContext(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Missing organization in token", nil)
			return
		}

		key := httprouter.ParamsFromContext(r.Context()).ByName("key")

		var req completeConnectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Invalid request body: "+err.Error(), nil)
			return
		}
		if len(req.AccountIDs) == 0 {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "account_ids is required", nil)
			return
		}

		connected, err := service.Complete(organizationID, key, req.AccountIDs)
		if err != nil {
			if errors.Is(err, connecting.ErrHandoffExpired) {
				apiErrors.WriteError(w, apiErrors.ErrNotFound, "Handoff not found or expired", nil)
				return
			}
			logrus.WithError(err).Error("completing pending connection")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to connect accounts", nil)
			return
		}

		writeJSON(w, map[string]any{
			"connected": connected,
			"detail":    "Initial sync started",
		})
	})
}
