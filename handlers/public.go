package handlers

import (
	"net/http"

	"contract-claims-api/models"
	"contract-claims-api/statemachine"

	"github.com/gin-gonic/gin"
)

func validNext(status models.ClaimStatus) []models.ClaimStatus {
	next := statemachine.ValidTransitionsFrom(status)
	if next == nil {
		return []models.ClaimStatus{}
	}
	return next
}

// GetStateMachineInfo returns the full state machine for informational purposes
func GetStateMachineInfo(c *gin.Context) {
	var terminal []models.ClaimStatus
	for _, s := range models.AllStatuses {
		if statemachine.IsTerminal(s) {
			terminal = append(terminal, s)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   statemachine.GetAllTransitions(),
		"statuses":        models.AllStatuses,
		"terminal_states": terminal,
		"max_hours":       models.MaxHoursPerMonth,
		"description":     "Contract Lecturer Monthly Claim Lifecycle",
	})
}
