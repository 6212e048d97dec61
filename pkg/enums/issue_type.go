package enums

import "fmt"

// IssueType classifies a problem reported against a delivered order.
type IssueType string

const (
	IssueTypeQuality  IssueType = "quality"
	IssueTypeQuantity IssueType = "quantity"
	IssueTypeDelivery IssueType = "delivery"
	IssueTypeOther    IssueType = "other"
)

var validIssueTypes = []IssueType{
	IssueTypeQuality,
	IssueTypeQuantity,
	IssueTypeDelivery,
	IssueTypeOther,
}

// String implements fmt.Stringer.
func (i IssueType) String() string {
	return string(i)
}

// IsValid reports whether the value is a known IssueType.
func (i IssueType) IsValid() bool {
	for _, candidate := range validIssueTypes {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseIssueType converts raw input into an IssueType.
func ParseIssueType(value string) (IssueType, error) {
	for _, candidate := range validIssueTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid issue type %q", value)
}
