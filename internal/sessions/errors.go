package sessions

// Kind classifies a session lifecycle failure. Every failure the controller
// reports carries exactly one kind, and the API boundary matches on the kind
// exhaustively, so a new failure cause has to be classified consciously
// rather than falling through to a catch-all.
type Kind int

const (
	// KindUnknownSessionType: the requested session type is not in the
	// catalog.
	KindUnknownSessionType Kind = iota + 1
	// KindWorkflowNotFound: no workflow matches the reference for the owner.
	KindWorkflowNotFound
	// KindWorkflowDeleted: the workflow's workspace has been reclaimed.
	KindWorkflowDeleted
	// KindSessionAlreadyOpen: the workflow already has an active session.
	KindSessionAlreadyOpen
	// KindNoOpenSession: close was requested but no session is open.
	KindNoOpenSession
	// KindBadRequest: malformed input with a resolvable workflow context.
	KindBadRequest
	// KindBackend: the orchestrator or the record store failed.
	KindBackend
)

// Error is the structured outcome of a failed session lifecycle operation.
// The message is human-readable and safe to return to clients verbatim.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func backendError(message string, err error) *Error {
	return &Error{Kind: KindBackend, Message: message, Err: err}
}
