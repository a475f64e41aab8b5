package domain

import "fmt"

// FetchErrorKind classifies transport and origin failures.
type FetchErrorKind int

const (
	// FetchOther covers transport failures with no more specific class.
	FetchOther FetchErrorKind = iota
	// FetchNotFound means the origin answered 404.
	FetchNotFound
	// FetchDomainNotFound means DNS resolution failed.
	FetchDomainNotFound
	// FetchTimeout means the request exceeded its deadline.
	FetchTimeout
)

// FetchError is a classified fetch failure, surfaced after the retry
// budget is exhausted.
type FetchError struct {
	Kind   FetchErrorKind
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchNotFound:
		return "Website not found (404)"
	case FetchDomainNotFound:
		return "Domain does not exist"
	case FetchTimeout:
		return "Website took too long to respond"
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return fmt.Sprintf("fetch failed with status %d", e.Status)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError reports a page whose digest carries too little signal.
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string { return e.Reason }

// AnalysisError reports malformed or structurally incomplete model output.
type AnalysisError struct {
	Reason string
	Err    error
}

func (e *AnalysisError) Error() string { return e.Reason }

func (e *AnalysisError) Unwrap() error { return e.Err }

// InputError reports missing or malformed caller input. It is never
// retried; the caller must correct the request.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string { return e.Reason }
