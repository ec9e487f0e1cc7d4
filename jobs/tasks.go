package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/shipdeck/shipdeck/internal/authz"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskGrantResync pushes a staff account's current grants into its
	// other live session slots after a permission change.
	TaskGrantResync = "grants:resync"
	// TaskSessionSweep deletes expired session records.
	TaskSessionSweep = "sessions:sweep"
)

// GrantResyncPayload identifies the staff account whose session slots
// need their cached grants replaced.
type GrantResyncPayload struct {
	Panel     authz.Panel `json:"panel"`
	AccountID int64       `json:"account_id"`
}

// NewGrantResyncTask constructs an Asynq task.
func NewGrantResyncTask(payload GrantResyncPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskGrantResync, data), nil
}

// NewSessionSweepTask constructs the periodic sweep task. It carries
// no payload.
func NewSessionSweepTask() *asynq.Task {
	return asynq.NewTask(TaskSessionSweep, nil)
}
