package handlers

import (
	"context"
	"net/http"
	"time"

	"todo-api/utils"
)

const (
	MsgRouteNotFound    = "Route not found"
	MsgMethodNotAllowed = "Method not allowed"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the liveness body.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Health godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  handlers.HealthResponse
// @Router       /health [get]
func Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, HealthResponse{Status: "OK", Timestamp: utils.Timestamp()})
}

// Ready godoc
// @Summary      Readiness probe
// @Description  Pings the task store
// @Tags         health
// @Produce      json
// @Success      200  {object}  handlers.HealthResponse
// @Failure      503  {object}  handlers.HealthResponse
// @Router       /health/ready [get]
func Ready(store Pinger, errs *utils.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			errs.Logger.Warn("Store not ready", "err", err)
			utils.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "UNAVAILABLE", Timestamp: utils.Timestamp()})
			return
		}
		utils.WriteJSON(w, http.StatusOK, HealthResponse{Status: "OK", Timestamp: utils.Timestamp()})
	}
}

// NotFound answers requests that match no route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	utils.SendError(w, http.StatusNotFound, MsgRouteNotFound)
}

// MethodNotAllowed answers requests whose path matches but method does not.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	utils.SendError(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
}
