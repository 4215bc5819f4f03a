package alertstore

// Phase is the store's externally visible state.
type Phase int

const (
	// Idle means no city has been selected yet.
	Idle Phase = iota
	// Loading means a list request for the current city is outstanding.
	Loading
	// Ready means the current city has at least one rule.
	Ready
	// ReadyEmpty means the current city has no rules.
	ReadyEmpty
	// Submitting means a create request is outstanding.
	Submitting
	// SubmitSucceeded is the short confirmation window after a create.
	SubmitSucceeded
	// Error means the last fetch or create failed; Message explains why.
	Error
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case ReadyEmpty:
		return "ready_empty"
	case Submitting:
		return "submitting"
	case SubmitSucceeded:
		return "submit_succeeded"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// User-facing messages.
const (
	FetchFailedMessage  = "Failed to fetch alerts. Please try again."
	CreateFailedMessage = "Failed to create alert. Please try again."
	CreatedMessage      = "Alert Created!"
)

// EmptyMessage is shown when city has no rules.
func EmptyMessage(city string) string {
	return "No alerts found for " + city + "."
}

// settled remembers the phase a fetch produced so the success flash can
// revert to it.
type settled struct {
	phase   Phase
	message string
}
