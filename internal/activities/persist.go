package activities

import (
	"context"
	"encoding/json"
	"fmt"

	"go.temporal.io/sdk/activity"

	"github.com/praxis-intel/argus/internal/store"
)

// PersistRunRecord archives one completed run's answer and logs.
func (a *Activities) PersistRunRecord(ctx context.Context, in PersistRunInput) error {
	if a.runs == nil {
		activity.GetLogger(ctx).Warn("Run store not configured, skipping archive")
		return nil
	}

	execLog, err := json.Marshal(in.ExecutionLog)
	if err != nil {
		return fmt.Errorf("marshal execution log: %w", err)
	}
	errLog, err := json.Marshal(in.ErrorLog)
	if err != nil {
		return fmt.Errorf("marshal error log: %w", err)
	}

	return a.runs.SaveRunRecord(ctx, store.RunRecord{
		RunID:         in.RunID,
		SessionID:     in.SessionID,
		Query:         in.Query,
		FinalResponse: in.FinalResponse,
		Confidence:    in.Confidence,
		Iterations:    in.Iterations,
		ExecutionLog:  execLog,
		ErrorLog:      errLog,
	})
}
