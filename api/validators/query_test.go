package validators

import (
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/biddergod/users-service/pkg/errors"
)

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/?page=3", nil)
	got, err := ParseQueryInt(r, "page", 0, 0, 100)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != 3 {
		t.Fatalf("expected 3 got %d", got)
	}

	r = httptest.NewRequest("GET", "/", nil)
	got, err = ParseQueryInt(r, "page", 7, 0, 100)
	if err != nil {
		t.Fatalf("parse default: %v", err)
	}
	if got != 7 {
		t.Fatalf("expected default 7 got %d", got)
	}

	r = httptest.NewRequest("GET", "/?page=abc", nil)
	if _, err := ParseQueryInt(r, "page", 0, 0, 100); err == nil {
		t.Fatal("expected error for non-numeric input")
	}

	r = httptest.NewRequest("GET", "/?page=101", nil)
	if _, err := ParseQueryInt(r, "page", 0, 0, 100); err == nil {
		t.Fatal("expected error for out of range input")
	}
}

func TestParseIDList(t *testing.T) {
	r := httptest.NewRequest("GET", "/?id=1,2,3", nil)
	ids, err := ParseIDList(r, "id")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 3 {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestParseIDListSkipsBlanks(t *testing.T) {
	r := httptest.NewRequest("GET", "/?id=1,,2,", nil)
	ids, err := ParseIDList(r, "id")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids got %v", ids)
	}
}

func TestParseIDListRejectsInvalid(t *testing.T) {
	for _, query := range []string{"", "id=", "id=abc", "id=0", "id=-1", "id=,,,"} {
		r := httptest.NewRequest("GET", "/?"+query, nil)
		_, err := ParseIDList(r, "id")
		if err == nil {
			t.Fatalf("expected error for query %q", query)
		}
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation code for %q, got %v", query, err)
		}
	}
}

func TestParsePathID(t *testing.T) {
	id, err := ParsePathID("42", "userID")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected 42 got %d", id)
	}

	for _, raw := range []string{"", "abc", "0", "-5"} {
		if _, err := ParsePathID(raw, "userID"); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
