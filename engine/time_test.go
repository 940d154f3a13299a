package engine_test

import (
	"testing"
	"time"

	"github.com/akhileshishumaps-prog/mlm-realty-sub000/engine"
)

// =============================================================================
// WORKDAY ARITHMETIC
// =============================================================================

func TestAddWorkdays_SkipsWeekends(t *testing.T) {
	// GIVEN: Friday 2024-03-01
	// WHEN: Adding one workday
	// THEN: The result is Monday 2024-03-04
	friday := engine.NewTimePoint(2024, time.March, 1)

	got := friday.AddWorkdays(1)
	want := engine.NewTimePoint(2024, time.March, 4)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestAddWorkdays_FifteenFromMonday(t *testing.T) {
	// GIVEN: Monday 2024-03-04
	// WHEN: Adding 15 workdays (the payment deadline span)
	// THEN: Three full weeks later, Monday 2024-03-25
	monday := engine.NewTimePoint(2024, time.March, 4)

	got := monday.AddWorkdays(15)
	want := engine.NewTimePoint(2024, time.March, 25)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestAddWorkdays_ZeroIsIdentity(t *testing.T) {
	tp := engine.NewTimePoint(2024, time.March, 6)
	if !tp.AddWorkdays(0).Equal(tp) {
		t.Errorf("adding zero workdays moved the date")
	}
}

func TestAddWorkdays_ResultIsNeverWeekend(t *testing.T) {
	start := engine.NewTimePoint(2024, time.January, 1)
	for n := 1; n <= 40; n++ {
		if got := start.AddWorkdays(n); got.IsWeekend() {
			t.Errorf("AddWorkdays(%d) landed on %v (%v)", n, got, got.Weekday())
		}
	}
}

// =============================================================================
// DAY GRANULARITY
// =============================================================================

func TestAfterDay_IgnoresTimeOfDay(t *testing.T) {
	morning := engine.At(time.Date(2024, time.March, 5, 8, 0, 0, 0, time.UTC))
	evening := engine.At(time.Date(2024, time.March, 5, 22, 0, 0, 0, time.UTC))
	nextDay := engine.At(time.Date(2024, time.March, 6, 0, 30, 0, 0, time.UTC))

	if evening.AfterDay(morning) {
		t.Errorf("same calendar day must not count as after")
	}
	if !nextDay.AfterDay(evening) {
		t.Errorf("next calendar day must count as after")
	}
}

// =============================================================================
// DATE PARSING
// =============================================================================

func TestParseDate_AcceptedLayouts(t *testing.T) {
	inputs := []string{
		"2024-03-05T10:30:00Z",
		"2024-03-05T10:30:00",
		"2024-03-05 10:30:00",
		"2024-03-05",
		"2024/03/05",
	}
	for _, in := range inputs {
		tp, err := engine.ParseDate(in)
		if err != nil {
			t.Errorf("ParseDate(%q) failed: %v", in, err)
			continue
		}
		if tp.Time.Year() != 2024 || tp.Time.Month() != time.March || tp.Time.Day() != 5 {
			t.Errorf("ParseDate(%q) = %v, wrong date", in, tp)
		}
	}
}

func TestParseDate_Unparseable(t *testing.T) {
	for _, in := range []string{"", "not-a-date", "05-03-2024"} {
		if _, err := engine.ParseDate(in); err == nil {
			t.Errorf("ParseDate(%q) should fail", in)
		}
	}
}
