package models

import "time"

type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
}

type ServiceStatus string

const (
	StatusHealthy   ServiceStatus = "healthy"
	StatusUnhealthy ServiceStatus = "unhealthy"
)

const (
	DatabaseModeMongo    = "mongodb"
	DatabaseModeFallback = "memory-fallback"
	DatabaseModeDown     = "disconnected"
)

func NewHealthResponse(uptime time.Duration, databaseMode string) HealthResponse {
	status := StatusHealthy
	if databaseMode == DatabaseModeDown {
		status = StatusUnhealthy
	}
	return HealthResponse{
		Status:    string(status),
		Database:  databaseMode,
		Uptime:    uptime.String(),
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
