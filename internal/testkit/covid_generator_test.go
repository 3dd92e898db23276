package testkit

import (
	"testing"
	"time"
)

func TestCovidGenerator_Deterministic(t *testing.T) {
	a := NewCovidGenerator(DefaultCovidConfig()).Generate()
	b := NewCovidGenerator(DefaultCovidConfig()).Generate()

	if a.Len() != b.Len() {
		t.Fatalf("row counts differ: %d vs %d", a.Len(), b.Len())
	}
	for i := 0; i < a.Len(); i++ {
		for _, c := range CovidColumns {
			if !a.Value(i, c).Equal(b.Value(i, c)) {
				t.Fatalf("row %d column %s differs: %v vs %v", i, c, a.Value(i, c), b.Value(i, c))
			}
		}
	}
}

func TestCovidGenerator_Shape(t *testing.T) {
	config := DefaultCovidConfig()
	config.Days = 30
	config.CorrectionRate = 0.2
	config.BadDateRate = 0.1

	table := NewCovidGenerator(config).Generate()

	if want := len(config.Locations) * 30; table.Len() != want {
		t.Fatalf("expected %d rows, got %d", want, table.Len())
	}

	negatives, badDates := 0, 0
	for i := 0; i < table.Len(); i++ {
		if n, _ := table.Value(i, "new_deaths").AsNumber(); n < 0 {
			negatives++
		}
		if s, _ := table.Value(i, "date").AsString(); s == "not-a-date" {
			badDates++
		} else if _, err := time.Parse("2006-01-02", s); err != nil {
			t.Errorf("row %d has malformed date %q", i, s)
		}
	}

	if negatives == 0 {
		t.Error("expected some negative corrections")
	}
	if badDates == 0 {
		t.Error("expected some unparseable dates")
	}
}

func TestThreeRowFixture(t *testing.T) {
	table := ThreeRowFixture()
	if table.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", table.Len())
	}
	if got := table.Value(2, "location").Key(); got != "Germany" {
		t.Errorf("expected Germany in row 3, got %q", got)
	}
}
