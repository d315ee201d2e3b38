package enums

import "fmt"

// FeedbackType identifies which side of a transaction left the feedback.
type FeedbackType string

const (
	FeedbackTypeBuyerToSeller FeedbackType = "BUYER_TO_SELLER"
	FeedbackTypeSellerToBuyer FeedbackType = "SELLER_TO_BUYER"
)

var validFeedbackTypes = []FeedbackType{
	FeedbackTypeBuyerToSeller,
	FeedbackTypeSellerToBuyer,
}

// String implements fmt.Stringer.
func (f FeedbackType) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FeedbackType.
func (f FeedbackType) IsValid() bool {
	for _, candidate := range validFeedbackTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFeedbackType converts raw input into a FeedbackType.
func ParseFeedbackType(value string) (FeedbackType, error) {
	for _, candidate := range validFeedbackTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid feedback type %q", value)
}
