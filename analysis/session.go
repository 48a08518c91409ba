package analysis

import (
	"fmt"
	"sync"
	"time"

	"github.com/jhelmig/windfarm-analysis-station/classification"
	"github.com/jhelmig/windfarm-analysis-station/scada"
)

// Session is one uploaded dataset held in memory, plus its classification
// once a run has completed. Results are aligned index-for-index with
// Dataset.Observations.
type Session struct {
	ID           string
	Name         string
	UploadedAt   time.Time
	Dataset      *scada.Dataset
	Results      []classification.Result
	ClassifiedAt time.Time
}

// Classified reports whether a classification run has completed.
func (s *Session) Classified() bool {
	return s.Results != nil
}

var (
	sessions    = make(map[string]*Session)
	sessionsMux = &sync.Mutex{}
)

func registerSession(session *Session) {
	sessionsMux.Lock()
	defer sessionsMux.Unlock()
	sessions[session.ID] = session
}

func getSession(id string) (*Session, error) {
	sessionsMux.Lock()
	defer sessionsMux.Unlock()
	session, ok := sessions[id]
	if !ok {
		return nil, fmt.Errorf("unknown dataset %q", id)
	}
	return session, nil
}

func setSessionResults(id string, results []classification.Result, at time.Time) error {
	sessionsMux.Lock()
	defer sessionsMux.Unlock()
	session, ok := sessions[id]
	if !ok {
		return fmt.Errorf("unknown dataset %q", id)
	}
	session.Results = results
	session.ClassifiedAt = at
	return nil
}
