package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskflow/taskboard/internal/core/domain"
	"github.com/taskflow/taskboard/internal/core/ports"
)

// activityLimit caps the entries returned for a task's activity feed.
const activityLimit = 50

// now is the service clock.
var now = func() time.Time { return time.Now().UTC() }

// recordActivity appends to the audit trail. Failures are logged and never
// fail the mutation that triggered them.
func recordActivity(ctx context.Context, repo ports.ActivityRepository, logger zerolog.Logger, taskID int64, entity string, entityID int64, action, actorID string) {
	if repo == nil {
		return
	}
	a := &domain.Activity{
		TaskID:   taskID,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		ActorID:  actorID,
		At:       now(),
	}
	if err := repo.Record(ctx, a); err != nil {
		logger.Warn().Err(err).
			Int64("task_id", taskID).
			Str("entity", entity).
			Str("action", action).
			Msg("failed to record activity")
	}
}
