package constants

// Activity registration names. Workflows reference activities by these names
// so receiver-method activities and test mocks stay in sync.
const (
	PlanCapabilitiesActivity  = "PlanCapabilities"
	ExecuteCapabilityActivity = "ExecuteCapability"
	SynthesizeActivity        = "Synthesize"
	UpdateSessionActivity     = "UpdateSession"
	PersistRunRecordActivity  = "PersistRunRecord"
)

// DefaultTaskQueue is the Temporal task queue the worker polls.
const DefaultTaskQueue = "argus-research"
