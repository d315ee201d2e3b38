package enums

import "testing"

func TestParseFeedbackType(t *testing.T) {
	parsed, err := ParseFeedbackType("BUYER_TO_SELLER")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != FeedbackTypeBuyerToSeller {
		t.Fatalf("expected buyer to seller got %s", parsed)
	}

	if _, err := ParseFeedbackType("buyer_to_seller"); err == nil {
		t.Fatal("expected error for lowercase input")
	}
	if _, err := ParseFeedbackType(""); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestFeedbackTypeIsValid(t *testing.T) {
	if !FeedbackTypeSellerToBuyer.IsValid() {
		t.Fatal("expected seller to buyer to be valid")
	}
	if FeedbackType("OTHER").IsValid() {
		t.Fatal("expected unknown type to be invalid")
	}
}
