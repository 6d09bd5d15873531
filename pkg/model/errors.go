package model

import "fmt"

// ErrorKind classifies a devpulse error into one of the five kinds from the
// error-handling design: each kind determines whether the error is fatal to
// the run or isolated to a single repository/commit/field.
type ErrorKind int

const (
	// KindConfiguration covers missing credentials, unknown provider
	// variants, malformed thresholds. Fatal before any network activity.
	KindConfiguration ErrorKind = iota
	// KindTransport covers network failures, non-2xx responses, and
	// libgit2 clone, open, or walk failures in a local clone. The affected
	// repository is skipped.
	KindTransport
	// KindData covers unparseable upstream payloads. The offending
	// commit/field is skipped with a warning.
	KindData
	// KindFilesystem covers an unwritable output directory. Fatal.
	KindFilesystem
	// KindDeadline covers wall-clock cancellation. A partial report is
	// emitted with an incompleteness banner.
	KindDeadline
)

// String returns the lowercase kind name, used in log fields and the exit
// banner.
func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindTransport:
		return "transport"
	case KindData:
		return "data"
	case KindFilesystem:
		return "filesystem"
	case KindDeadline:
		return "deadline"
	default:
		return "unknown"
	}
}

// Error is a devpulse error carrying a Kind plus enough context (repository,
// operation) to log and to decide the run's exit code.
type Error struct {
	Kind ErrorKind
	Repo string
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Repo != "" {
		return fmt.Sprintf("%s: %s (repo=%s): %v", e.Kind, e.Op, e.Repo, e.Err)
	}

	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

// Unwrap exposes the wrapped error for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Fatal reports whether this error must abort the run rather than being
// isolated to one repository or field.
func (e *Error) Fatal() bool {
	return e.Kind == KindConfiguration || e.Kind == KindFilesystem
}

// Transient reports whether a retry of the same operation might succeed.
// Only transport errors are considered transient; the caller decides
// whether to actually retry.
func (e *Error) Transient() bool {
	return e.Kind == KindTransport
}

// NewError constructs an *Error, wrapping err with the given kind and op.
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// NewRepoError constructs an *Error scoped to a specific repository.
func NewRepoError(kind ErrorKind, repo, op string, err error) *Error {
	return &Error{Kind: kind, Repo: repo, Op: op, Err: err}
}
