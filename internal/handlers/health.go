package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// ConnectionCounter reports live realtime connections.
type ConnectionCounter interface {
	Connections() int
}

// SweepStatus reports the state of the background maintenance jobs.
type SweepStatus interface {
	GetStatus() map[string]interface{}
}

type HealthHandler struct {
	db     Pinger
	conns  ConnectionCounter
	sweeps SweepStatus
}

func NewHealthHandler(db Pinger, conns ConnectionCounter, sweeps SweepStatus) *HealthHandler {
	return &HealthHandler{db: db, conns: conns, sweeps: sweeps}
}

func (h *HealthHandler) Check(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	status, code, database := "ok", http.StatusOK, "up"
	if err := h.db.Ping(reqCtx); err != nil {
		log.Printf("Health check database ping failed: %v", err)
		status, code, database = "degraded", http.StatusServiceUnavailable, "down"
	}

	ctx.JSON(code, gin.H{
		"success":     code == http.StatusOK,
		"status":      status,
		"message":     "Job portal API is running",
		"database":    database,
		"connections": h.conns.Connections(),
		"scheduler":   h.sweeps.GetStatus(),
		"timestamp":   time.Now().Format(time.RFC3339),
	})
}
