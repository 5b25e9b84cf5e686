package admin

import (
	"errors"
	"time"

	"github.com/mamadbah2/dairy/internal/dashboard"
	"github.com/mamadbah2/dairy/internal/domain/models"
)

// Status is the lifecycle of the dashboard data.
type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// State is what the rendering layer receives. Dashboard is set only when
// Status is StatusReady; Err only when it is StatusFailed.
type State struct {
	Status    Status
	Dashboard *dashboard.Dashboard
	Err       error
	UpdatedAt time.Time
}

// FailedResource names the collection that could not be fetched, if any.
func (s State) FailedResource() string {
	var fetchErr *models.FetchError
	if errors.As(s.Err, &fetchErr) {
		return fetchErr.Resource
	}
	return ""
}
