package statemachine

import (
	"fmt"
	"strings"

	"contract-claims-api/models"
)

// Actor identifies who drives a transition
type Actor string

const (
	ActorReviewer Actor = "reviewer"
	ActorSystem   Actor = "system"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.ClaimStatus `json:"from"`
	To    models.ClaimStatus `json:"to"`
	Actor Actor              `json:"actor"`
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	// Claim enters the review queue
	{From: models.StatusSubmitted, To: models.StatusPending, Actor: ActorReviewer},
	{From: models.StatusSubmitted, To: models.StatusPending, Actor: ActorSystem},
	// Review decision
	{From: models.StatusPending, To: models.StatusApproved, Actor: ActorReviewer},
	{From: models.StatusPending, To: models.StatusRejected, Actor: ActorReviewer},
}

type transitionKey struct {
	From  models.ClaimStatus
	To    models.ClaimStatus
	Actor Actor
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.ClaimStatus) []models.ClaimStatus {
	var nexts []models.ClaimStatus
	seen := map[models.ClaimStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// IsTerminal reports whether no transition leaves the status.
func IsTerminal(status models.ClaimStatus) bool {
	switch status {
	case models.StatusApproved, models.StatusRejected:
		return true
	case models.StatusSubmitted, models.StatusPending:
		return false
	default:
		return len(ValidTransitionsFrom(status)) == 0
	}
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.ClaimStatus, actor Actor) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return fmt.Errorf("%s → %s is not allowed for actor '%s'. Valid transitions from %s are: %s",
		from, to, actor, from, describeValidFrom(from))
}

func describeValidFrom(status models.ClaimStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
