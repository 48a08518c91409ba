package live

import "time"

// Progress is one classification progress update pushed to connected clients.
type Progress struct {
	DatasetID string    `json:"dataset_id"`
	Done      int       `json:"done"`
	Total     int       `json:"total"`
	Percent   float64   `json:"percent"`
	Finished  bool      `json:"finished"`
	Timestamp time.Time `json:"timestamp"`
}
