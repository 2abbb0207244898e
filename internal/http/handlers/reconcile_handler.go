// Reconcile HTTP handler.
//
// This file exposes the operator-facing trigger for the daily workflow:
//   - POST /internal/reconcile
//
// The endpoint shares the webhook secret header for authentication. It runs
// the reconciliation synchronously so a caller (cron, operator shell) can
// observe the outcome in the response status: 202 when the run completed,
// 500 with an error envelope when the workflow failed at the top level.
// Per-user and per-chat failures inside the run are isolated and logged by
// the service; they do not fail the request.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-streak-bot/internal/http/middleware"
)

// Reconcile handles POST /internal/reconcile.
func (h *Handlers) Reconcile(c *gin.Context) {
	if !h.authorized(c) {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid webhook secret")
		return
	}

	now := h.now()
	if err := h.reconciler.Run(c.Request.Context(), now); err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Msg("reconcile run failed")
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "reconcile failed")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}
