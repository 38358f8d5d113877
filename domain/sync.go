package domain

import "time"

type SyncStatus string

const (
	SyncSuccess SyncStatus = "success"
	SyncWarning SyncStatus = "warning"
	SyncError   SyncStatus = "error"
)

// SyncResult is the envelope returned by every synchronization attempt.
type SyncResult struct {
	Message   string     `json:"message"`
	Timestamp string     `json:"timestamp"`
	Status    SyncStatus `json:"status"`
}

func NewSyncResult(status SyncStatus, message string, at time.Time) SyncResult {
	return SyncResult{
		Message:   message,
		Timestamp: at.UTC().Format(time.RFC3339Nano),
		Status:    status,
	}
}
