package auth

// FailureKind classifies why an operation failed.
type FailureKind int

const (
	// FailureNone marks a successful result.
	FailureNone FailureKind = iota
	// FailureTransport means no HTTP response was received.
	FailureTransport
	// FailureRejected means the service answered with a non-success status.
	FailureRejected
	// FailureMalformed means a success status carried an unusable body.
	FailureMalformed
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureTransport:
		return "transport"
	case FailureRejected:
		return "rejected"
	case FailureMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Result is the outcome of Register or Login. Message is meant to be shown
// to the user verbatim and is empty on success.
type Result struct {
	Success bool
	Message string
	Kind    FailureKind
}

func ok() Result {
	return Result{Success: true}
}

func failed(kind FailureKind, message string) Result {
	return Result{Kind: kind, Message: message}
}
