package documents_test

import (
	"errors"
	"testing"

	"github.com/JaimeStill/dossier/internal/documents"
	"github.com/JaimeStill/dossier/internal/faults"
)

func TestParseState(t *testing.T) {
	for _, s := range documents.States {
		got, err := documents.ParseState(string(s))
		if err != nil || got != s {
			t.Errorf("ParseState(%q) = %q, %v", s, got, err)
		}
	}

	if _, err := documents.ParseState("archived"); !errors.Is(err, faults.ErrInvalidRequest) {
		t.Errorf("ParseState(archived) error = %v, want ErrInvalidRequest", err)
	}
}

func TestStateSets(t *testing.T) {
	tests := []struct {
		state    documents.State
		awaiting bool
		target   bool
	}{
		{documents.Empty, false, false},
		{documents.Uploaded, true, false},
		{documents.Submitted, true, false},
		{documents.Corrected, true, false},
		{documents.Observed, false, true},
		{documents.Rejected, false, true},
		{documents.Accepted, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.AwaitingReview(); got != tt.awaiting {
				t.Errorf("AwaitingReview() = %v, want %v", got, tt.awaiting)
			}
			if got := tt.state.ObservationTarget(); got != tt.target {
				t.Errorf("ObservationTarget() = %v, want %v", got, tt.target)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to documents.State
		want     bool
	}{
		{documents.Empty, documents.Uploaded, true},
		{documents.Empty, documents.Accepted, false},
		{documents.Uploaded, documents.Observed, true},
		{documents.Observed, documents.Uploaded, true},
		{documents.Rejected, documents.Uploaded, true},
		{documents.Accepted, documents.Uploaded, false},
		{documents.Accepted, documents.Rejected, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("CanTransition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStateScan(t *testing.T) {
	var s documents.State

	if err := s.Scan(nil); err != nil || s != documents.Empty {
		t.Errorf("Scan(nil) = %q, %v", s, err)
	}
	if err := s.Scan([]byte("observed")); err != nil || s != documents.Observed {
		t.Errorf("Scan(observed) = %q, %v", s, err)
	}
	if err := s.Scan("bogus"); err == nil {
		t.Error("Scan(bogus) expected error")
	}
	if err := s.Scan(3); err == nil {
		t.Error("Scan(int) expected error")
	}
}
