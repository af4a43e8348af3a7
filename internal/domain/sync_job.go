package domain

import "time"

// SyncJobType is the stage a sync run belongs to.
type SyncJobType string

const (
	SyncJobInitial    SyncJobType = "INITIAL_30D"
	SyncJobHistorical SyncJobType = "HISTORICAL"
	SyncJobDaily      SyncJobType = "DAILY"
	SyncJobManual     SyncJobType = "MANUAL"
)

// SyncJobStatus follows PENDING -> RUNNING -> {COMPLETED, FAILED}.
type SyncJobStatus string

const (
	SyncJobPending   SyncJobStatus = "PENDING"
	SyncJobRunning   SyncJobStatus = "RUNNING"
	SyncJobCompleted SyncJobStatus = "COMPLETED"
	SyncJobFailed    SyncJobStatus = "FAILED"
)

// SyncJob is one execution attempt of the ingestion pipeline. Rows are an
// append-only audit trail and are never mutated after reaching a terminal
// status.
type SyncJob struct {
	ID           string         `json:"id"`
	ConnectionID *string        `json:"connection_id,omitempty"`
	JobType      SyncJobType    `json:"job_type"`
	Status       SyncJobStatus  `json:"status"`
	StartedAt    *time.Time     `json:"started_at,omitempty"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
	DateFrom     time.Time      `json:"date_from"`
	DateTo       time.Time      `json:"date_to"`

	RecordsFetched   int `json:"records_fetched"`
	RecordsProcessed int `json:"records_processed"`

	ErrorMessage *string        `json:"error_message,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}
