package enums

import "fmt"

// ConnectionStatus tracks how far a customer has progressed with its supplier.
type ConnectionStatus string

const (
	ConnectionStatusActive            ConnectionStatus = "active"
	ConnectionStatusPendingConnection ConnectionStatus = "pending_connection"
	ConnectionStatusPricingPending    ConnectionStatus = "pricing_pending"
)

var validConnectionStatuses = []ConnectionStatus{
	ConnectionStatusActive,
	ConnectionStatusPendingConnection,
	ConnectionStatusPricingPending,
}

// String implements fmt.Stringer.
func (c ConnectionStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ConnectionStatus.
func (c ConnectionStatus) IsValid() bool {
	for _, candidate := range validConnectionStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseConnectionStatus converts raw input into a ConnectionStatus.
func ParseConnectionStatus(value string) (ConnectionStatus, error) {
	for _, candidate := range validConnectionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid connection status %q", value)
}
