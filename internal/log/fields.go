package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldGoalID      = "goal_id"
	FieldCheckInID   = "check_in_id"
	FieldAmountCents = "amount_cents"
)

// Components stamped by each binary's root logger.
const (
	ComponentApp    = "app"
	ComponentWorker = "worker"
)
