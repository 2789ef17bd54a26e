package domain

// ErrorKind classifies a failed provider call. The taxonomy stays
// distinguishable even though callers usually degrade it to a no-op.
type ErrorKind string

const (
	// ErrorValidation means the request was rejected locally before any
	// network I/O (missing identity fields).
	ErrorValidation ErrorKind = "validation"
	// ErrorAuth means the provider rejected the configured API key.
	ErrorAuth ErrorKind = "auth"
	// ErrorTransport covers connection failures, unexpected statuses, and
	// provider-side rejections that are not separately reported.
	ErrorTransport ErrorKind = "transport"
)

// CallResult is the outcome of a single outbound provider call.
type CallResult struct {
	OK     bool
	Kind   ErrorKind
	Detail string
}

// MailingList is a static list grouping on the provider side, as opposed to
// a dynamic segment.
type MailingList struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"list_type"`
}

// ListsResult is the outcome of a mailing-list lookup. On failure Reason
// carries a human-readable explanation suitable for the admin surface.
type ListsResult struct {
	Success bool          `json:"success"`
	Reason  string        `json:"reason,omitempty"`
	Lists   []MailingList `json:"lists,omitempty"`
}
