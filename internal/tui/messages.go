package tui

import (
	"time"

	"github.com/verte-zerg/cutline/internal/ingest"
	"github.com/verte-zerg/cutline/internal/model"
)

// autosaveTickMsg fires after the autosave delay. Only the tick matching the
// latest edit triggers a save.
type autosaveTickMsg struct {
	seq int
}

// savedMsg carries the outcome of a project save.
type savedMsg struct {
	token     ingest.Token
	projectID string
	at        time.Time
	err       error
}

// reloadedMsg carries a project re-read from the store.
type reloadedMsg struct {
	token   ingest.Token
	project model.Project
	err     error
}

// regenLoggedMsg reports whether a regeneration entry was persisted.
type regenLoggedMsg struct {
	segmentID string
	err       error
}

// exportedMsg reports the files written by an export.
type exportedMsg struct {
	paths []string
	err   error
}
