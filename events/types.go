package events

import "time"

type Event struct {
	Type      string    `json:"type"`      // "dataset_uploaded", "layout_uploaded", "classification_started", "classification_finished", "export_generated"
	Source    string    `json:"source"`    // originating module
	Details   string    `json:"details"`   // free-form context, e.g. dataset name
	Timestamp time.Time `json:"timestamp"` // when the event occurred
}
