package enums

import "fmt"

// RequestStatus tracks the supplier price-request workflow.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusSubmitted RequestStatus = "submitted"
	RequestStatusWon       RequestStatus = "won"
	RequestStatusLost      RequestStatus = "lost"
)

var validRequestStatuses = []RequestStatus{
	RequestStatusPending,
	RequestStatusSubmitted,
	RequestStatusWon,
	RequestStatusLost,
}

// String implements fmt.Stringer.
func (r RequestStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RequestStatus.
func (r RequestStatus) IsValid() bool {
	for _, candidate := range validRequestStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the request can no longer change state.
func (r RequestStatus) IsTerminal() bool {
	return r == RequestStatusWon || r == RequestStatusLost
}

// ParseRequestStatus converts raw input into a RequestStatus.
func ParseRequestStatus(value string) (RequestStatus, error) {
	for _, candidate := range validRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request status %q", value)
}
