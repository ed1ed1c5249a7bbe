package activities

import (
	"context"

	"go.temporal.io/sdk/activity"

	"github.com/praxis-intel/argus/internal/session"
)

// UpdateSession appends the completed exchange to the session's history.
// The session manager caps history length, so this never grows unbounded.
func (a *Activities) UpdateSession(ctx context.Context, in SessionUpdateInput) error {
	if a.sessions == nil {
		activity.GetLogger(ctx).Warn("Session store not configured, skipping history update")
		return nil
	}
	if err := a.sessions.AddTurn(ctx, in.SessionID, session.Turn{Role: "user", Content: in.Query}); err != nil {
		return err
	}
	return a.sessions.AddTurn(ctx, in.SessionID, session.Turn{Role: "assistant", Content: in.Response})
}
