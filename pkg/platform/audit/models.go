package audit

import "time"

// EventCategory classifies audit events by their primary purpose so stores
// and readers can filter them.
type EventCategory string

const (
	// CategoryCompliance covers decisions that change who may do what or who
	// won what: role changes, contest reviews, winner declarations.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers rejected access and abuse signals.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity useful for support.
	CategoryOperations EventCategory = "operations"
)

// Event records one auditable action. Keep it transport-agnostic so stores
// and sinks can fan out.
type Event struct {
	ID        string        `json:"id"`
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	Action    string        `json:"action"`
	// Actor is the email of the caller that performed the action.
	Actor string `json:"actor,omitempty"`
	// Subject is what the action was about: an account email, or the route
	// for access events.
	Subject   string `json:"subject,omitempty"`
	ContestID string `json:"contestId,omitempty"`
	Decision  string `json:"decision,omitempty"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"requestId,omitempty"`
	ClientIP  string `json:"clientIp,omitempty"`
}

type AuditEvent string

const (
	// Account events
	EventAccountCreated AuditEvent = "account_created"
	EventRoleChanged    AuditEvent = "role_changed"

	// Contest events
	EventContestReviewed AuditEvent = "contest_reviewed"
	EventContestDeleted  AuditEvent = "contest_deleted"
	EventWinnerDeclared  AuditEvent = "winner_declared"

	// Registration events
	EventRegistrationConfirmed AuditEvent = "registration_confirmed"

	// Access events
	EventAccessDenied      AuditEvent = "access_denied"
	EventRateLimitExceeded AuditEvent = "rate_limit_exceeded"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventRoleChanged:           CategoryCompliance,
	EventContestReviewed:       CategoryCompliance,
	EventContestDeleted:        CategoryCompliance,
	EventWinnerDeclared:        CategoryCompliance,
	EventRegistrationConfirmed: CategoryCompliance,

	EventAccessDenied:      CategorySecurity,
	EventRateLimitExceeded: CategorySecurity,

	EventAccountCreated: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

const (
	DefaultQueryLimit = 50
	MaxQueryLimit     = 500
)

// Query selects recent events. Empty fields match everything.
type Query struct {
	Action   string
	Actor    string
	Category EventCategory
	Limit    int
}

// Normalize clamps Limit to [1, MaxQueryLimit].
func (q *Query) Normalize() {
	if q.Limit <= 0 {
		q.Limit = DefaultQueryLimit
	}
	if q.Limit > MaxQueryLimit {
		q.Limit = MaxQueryLimit
	}
}

// Matches reports whether e satisfies the query filters.
func (q Query) Matches(e Event) bool {
	if q.Action != "" && e.Action != q.Action {
		return false
	}
	if q.Actor != "" && e.Actor != q.Actor {
		return false
	}
	if q.Category != "" && e.Category != q.Category {
		return false
	}
	return true
}
