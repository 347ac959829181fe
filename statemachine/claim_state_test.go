package statemachine

import (
	"strings"
	"testing"

	"contract-claims-api/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    models.ClaimStatus
		to      models.ClaimStatus
		actor   Actor
		wantErr bool
	}{
		{"reviewer queues submitted claim", models.StatusSubmitted, models.StatusPending, ActorReviewer, false},
		{"system queues submitted claim", models.StatusSubmitted, models.StatusPending, ActorSystem, false},
		{"reviewer approves pending", models.StatusPending, models.StatusApproved, ActorReviewer, false},
		{"reviewer rejects pending", models.StatusPending, models.StatusRejected, ActorReviewer, false},
		{"system cannot approve", models.StatusPending, models.StatusApproved, ActorSystem, true},
		{"submitted cannot skip review", models.StatusSubmitted, models.StatusApproved, ActorReviewer, true},
		{"approved is terminal", models.StatusApproved, models.StatusPending, ActorReviewer, true},
		{"rejected is terminal", models.StatusRejected, models.StatusApproved, ActorReviewer, true},
		{"no self transition", models.StatusPending, models.StatusPending, ActorReviewer, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransition(tt.from, tt.to, tt.actor)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CanTransition(%s, %s, %s) error = %v, wantErr %v", tt.from, tt.to, tt.actor, err, tt.wantErr)
			}
		})
	}
}

func TestCanTransition_TerminalMessage(t *testing.T) {
	err := CanTransition(models.StatusApproved, models.StatusRejected, ActorReviewer)
	if err == nil {
		t.Fatal("expected error for terminal state")
	}
	if !strings.Contains(err.Error(), "terminal state") {
		t.Errorf("unexpected message: %s", err)
	}
}

func TestValidTransitionsFrom(t *testing.T) {
	got := ValidTransitionsFrom(models.StatusPending)
	if len(got) != 2 || got[0] != models.StatusApproved || got[1] != models.StatusRejected {
		t.Errorf("unexpected transitions from Pending: %v", got)
	}

	got = ValidTransitionsFrom(models.StatusSubmitted)
	if len(got) != 1 || got[0] != models.StatusPending {
		t.Errorf("duplicate actors should collapse to one next state, got %v", got)
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range models.AllStatuses {
		want := s == models.StatusApproved || s == models.StatusRejected
		if got := IsTerminal(s); got != want {
			t.Errorf("IsTerminal(%s) = %v, want %v", s, got, want)
		}
	}
}
