package registry

import (
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/praxis-intel/argus/internal/activities"
	"github.com/praxis-intel/argus/internal/constants"
	"github.com/praxis-intel/argus/internal/workflows"
)

// RegisterWorkflows registers all workflow definitions on the worker with
// the configured loop defaults bound in.
func RegisterWorkflows(w worker.Worker, d workflows.Defaults) {
	w.RegisterWorkflowWithOptions(workflows.NewResearchWorkflow(d), workflow.RegisterOptions{
		Name: "ResearchWorkflow",
	})
}

// RegisterActivities registers the activity set under the names the
// workflows reference them by.
func RegisterActivities(w worker.Worker, a *activities.Activities) {
	w.RegisterActivityWithOptions(a.PlanCapabilities, activity.RegisterOptions{
		Name: constants.PlanCapabilitiesActivity,
	})
	w.RegisterActivityWithOptions(a.ExecuteCapability, activity.RegisterOptions{
		Name: constants.ExecuteCapabilityActivity,
	})
	w.RegisterActivityWithOptions(a.Synthesize, activity.RegisterOptions{
		Name: constants.SynthesizeActivity,
	})
	w.RegisterActivityWithOptions(a.UpdateSession, activity.RegisterOptions{
		Name: constants.UpdateSessionActivity,
	})
	w.RegisterActivityWithOptions(a.PersistRunRecord, activity.RegisterOptions{
		Name: constants.PersistRunRecordActivity,
	})
}
