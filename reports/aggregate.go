// Package reports groups claims per lecturer for the HR dashboard and exports.
package reports

import (
	"math"
	"sort"
	"time"

	"contract-claims-api/models"
)

// Filter restricts claims to a submission month and/or year. Zero means any.
type Filter struct {
	Month int `form:"month" json:"month,omitempty" binding:"omitempty,min=1,max=12"`
	Year  int `form:"year" json:"year,omitempty" binding:"omitempty,min=1"`
}

// Match applies both restrictions with AND semantics.
func (f Filter) Match(c models.Claim) bool {
	if f.Month != 0 && int(c.SubmissionDate.Month()) != f.Month {
		return false
	}
	if f.Year != 0 && c.SubmissionDate.Year() != f.Year {
		return false
	}
	return true
}

// FilterClaims returns the matching claims in input order without touching the input.
func FilterClaims(claims []models.Claim, f Filter) []models.Claim {
	out := make([]models.Claim, 0, len(claims))
	for _, c := range claims {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

// LecturerReport summarises one lecturer's claims
type LecturerReport struct {
	Lecturer    string         `json:"lecturer"`
	TotalHours  float64        `json:"total_hours"`
	TotalAmount float64        `json:"total_amount"`
	Claims      []models.Claim `json:"claims"`
}

// Aggregate groups filtered claims by lecturer full name. Groups appear in the
// order their first claim was received and keep member claims in input order.
//
// Two lecturers sharing a full name end up in one group.
func Aggregate(claims []models.Claim, f Filter) []LecturerReport {
	groups := []LecturerReport{}
	index := map[string]int{}
	for _, c := range claims {
		if !f.Match(c) {
			continue
		}
		i, ok := index[c.FullName]
		if !ok {
			i = len(groups)
			index[c.FullName] = i
			groups = append(groups, LecturerReport{Lecturer: c.FullName})
		}
		g := &groups[i]
		g.TotalHours += c.HoursWorked
		g.TotalAmount += c.Total
		g.Claims = append(g.Claims, c)
	}
	for i := range groups {
		groups[i].TotalHours = roundCents(groups[i].TotalHours)
		groups[i].TotalAmount = roundCents(groups[i].TotalAmount)
	}
	return groups
}

// Totals sums every group for a report footer.
func Totals(groups []LecturerReport) (hours, amount float64) {
	for _, g := range groups {
		hours += g.TotalHours
		amount += g.TotalAmount
	}
	return roundCents(hours), roundCents(amount)
}

// Years returns the distinct submission years, newest first.
func Years(claims []models.Claim) []int {
	seen := map[int]bool{}
	years := []int{}
	for _, c := range claims {
		y := c.SubmissionDate.Year()
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// Months returns the twelve calendar months in order.
func Months() []time.Month {
	months := make([]time.Month, 12)
	for i := range months {
		months[i] = time.Month(i + 1)
	}
	return months
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
