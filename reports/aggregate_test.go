package reports

import (
	"reflect"
	"testing"
	"time"

	"contract-claims-api/models"
)

func claimAt(id uint, lecturer string, hours, total float64, when time.Time) models.Claim {
	return models.Claim{ID: id, FullName: lecturer, HoursWorked: hours, Total: total, SubmissionDate: when}
}

func TestAggregate_GroupsByLecturer(t *testing.T) {
	now := time.Date(2025, time.November, 20, 10, 0, 0, 0, time.UTC)
	claims := []models.Claim{
		claimAt(1, "A", 10, 3000, now),
		claimAt(2, "A", 5, 1500, now),
		claimAt(3, "B", 8, 2800, now),
	}

	got := Aggregate(claims, Filter{})
	if len(got) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(got))
	}
	if got[0].Lecturer != "A" || got[0].TotalHours != 15 || got[0].TotalAmount != 4500 {
		t.Errorf("unexpected group A: %+v", got[0])
	}
	if got[1].Lecturer != "B" || got[1].TotalHours != 8 || got[1].TotalAmount != 2800 {
		t.Errorf("unexpected group B: %+v", got[1])
	}
	if len(got[0].Claims) != 2 || got[0].Claims[0].ID != 1 || got[0].Claims[1].ID != 2 {
		t.Errorf("member claims should keep input order: %+v", got[0].Claims)
	}
}

func TestAggregate_MonthFilterIgnoresYear(t *testing.T) {
	claims := []models.Claim{
		claimAt(1, "A", 10, 3000, time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC)),
		claimAt(2, "A", 4, 1200, time.Date(2025, time.March, 28, 0, 0, 0, 0, time.UTC)),
		claimAt(3, "A", 7, 2100, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)),
		claimAt(4, "B", 2, 700, time.Date(2025, time.February, 14, 0, 0, 0, 0, time.UTC)),
	}

	got := Aggregate(claims, Filter{Month: 3})
	if len(got) != 1 {
		t.Fatalf("expected only lecturer A, got %+v", got)
	}
	if got[0].TotalHours != 14 || got[0].TotalAmount != 4200 || len(got[0].Claims) != 2 {
		t.Errorf("unexpected March totals: %+v", got[0])
	}

	got = Aggregate(claims, Filter{Month: 3, Year: 2025})
	if len(got) != 1 || len(got[0].Claims) != 1 || got[0].Claims[0].ID != 2 {
		t.Errorf("month and year should combine with AND: %+v", got)
	}

	got = Aggregate(claims, Filter{Year: 2025})
	if len(got) != 2 {
		t.Errorf("expected both lecturers in 2025, got %+v", got)
	}
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	when := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	claims := []models.Claim{claimAt(1, "A", 1.5, 495, when), claimAt(2, "A", 2.25, 742.5, when)}
	before := make([]models.Claim, len(claims))
	copy(before, claims)

	first := Aggregate(claims, Filter{})
	second := Aggregate(claims, Filter{})

	if !reflect.DeepEqual(claims, before) {
		t.Error("input claims were modified")
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("aggregation is not deterministic")
	}
	if first[0].TotalHours != 3.75 || first[0].TotalAmount != 1237.5 {
		t.Errorf("unexpected totals: %+v", first[0])
	}
}

func TestAggregate_Empty(t *testing.T) {
	got := Aggregate(nil, Filter{Month: 1})
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestYears(t *testing.T) {
	claims := []models.Claim{
		claimAt(1, "A", 1, 1, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)),
		claimAt(2, "A", 1, 1, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		claimAt(3, "B", 1, 1, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)),
		claimAt(4, "B", 1, 1, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
	}
	if got := Years(claims); !reflect.DeepEqual(got, []int{2025, 2024, 2023}) {
		t.Errorf("unexpected years %v", got)
	}
}

func TestMonths(t *testing.T) {
	m := Months()
	if len(m) != 12 || m[0] != time.January || m[11] != time.December {
		t.Errorf("unexpected months %v", m)
	}
}

func TestTotals(t *testing.T) {
	hours, amount := Totals([]LecturerReport{{TotalHours: 15, TotalAmount: 4500}, {TotalHours: 8, TotalAmount: 2800}})
	if hours != 23 || amount != 7300 {
		t.Errorf("got %v hours, %v amount", hours, amount)
	}
}
