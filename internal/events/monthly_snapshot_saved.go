package events

import "time"

const (
	MonthlySnapshotSavedTopic = "commute.monthly.snapshot.saved.v1"
	MonthlySnapshotSavedType  = "monthly_snapshot_saved"
	MonthlySnapshotAggregate  = "monthly_snapshot"
)

type MonthlySnapshotSavedEvent struct {
	EventType         string    `json:"event_type"`
	Month             string    `json:"month"`
	TotalRecords      int       `json:"total_records"`
	RegisteredCount   int       `json:"registered_count"`
	UnregisteredCount int       `json:"unregistered_count"`
	TotalCost         float64   `json:"total_cost"`
	Replaced          bool      `json:"replaced"`
	OccurredAt        time.Time `json:"occurred_at"`
}
