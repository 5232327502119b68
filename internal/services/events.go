package services

// EventType identifies a pipeline domain event. The interceptor and queue
// return events instead of performing side effects; the notification
// dispatcher consumes them.
type EventType string

const (
	EventPendingCreated     EventType = "pending_created"
	EventDecisionMade       EventType = "decision_made"
	EventCompromiseDetected EventType = "compromise_detected"
	EventApprovalExpired    EventType = "approval_expired"
	EventRuleChanged        EventType = "rule_changed"
)

// Event is a structured domain event emitted by the pipeline core.
type Event struct {
	Type    EventType
	Title   string
	Message string
	Data    map[string]interface{}
}
