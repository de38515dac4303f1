package models

import (
	"time"
)

// WorkerStatus represents the status of a kitchen worker
type WorkerStatus string

const (
	WorkerOnline  WorkerStatus = "online"
	WorkerOffline WorkerStatus = "offline"
)

// Worker is a kitchen station that accepts tickets from the queue.
type Worker struct {
	Name            string       `json:"worker_name"`
	Status          WorkerStatus `json:"status"`
	LastSeen        time.Time    `json:"last_seen"`
	TicketsAccepted int          `json:"tickets_accepted"`
	CreatedAt       time.Time    `json:"created_at"`
}

// IsOnline reports whether the worker has sent a heartbeat within two intervals.
func (w *Worker) IsOnline(heartbeatInterval time.Duration, now time.Time) bool {
	if w.Status == WorkerOffline {
		return false
	}
	return now.Sub(w.LastSeen) <= 2*heartbeatInterval
}

// EffectiveStatus folds a stale heartbeat into offline.
func (w *Worker) EffectiveStatus(heartbeatInterval time.Duration, now time.Time) WorkerStatus {
	if w.IsOnline(heartbeatInterval, now) {
		return WorkerOnline
	}
	return WorkerOffline
}
