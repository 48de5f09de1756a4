package domain

import (
	"errors"
	"testing"
)

func TestTimeWindowContainsIsHalfOpen(t *testing.T) {
	w := TimeWindow{Open: 720, Close: 900}

	if !w.Contains(720) {
		t.Errorf("window should contain its opening minute")
	}
	if !w.Contains(899) {
		t.Errorf("window should contain the minute before close")
	}
	if w.Contains(900) {
		t.Errorf("window must not contain its closing minute")
	}
	if w.Contains(719) {
		t.Errorf("window must not contain minutes before open")
	}
}

func TestTimeWindowAlwaysOpen(t *testing.T) {
	if !FullDay().AlwaysOpen() {
		t.Fatalf("[0, 1440) should report always-open")
	}
	if (TimeWindow{Open: 0, Close: 1439}).AlwaysOpen() {
		t.Fatalf("[0, 1439) should not report always-open")
	}
}

func TestTimeWindowValidate(t *testing.T) {
	bad := []TimeWindow{
		{Open: -1, Close: 600},
		{Open: 0, Close: 1441},
		{Open: 600, Close: 600},
		{Open: 700, Close: 600},
	}
	for _, w := range bad {
		err := w.Validate()
		if err == nil {
			t.Errorf("window [%d, %d) should be rejected", w.Open, w.Close)
			continue
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("window [%d, %d): error should wrap ErrInvalidInput, got %v", w.Open, w.Close, err)
		}
	}

	if err := (TimeWindow{Open: 540, Close: 1080}).Validate(); err != nil {
		t.Fatalf("valid window rejected: %v", err)
	}
}

func TestLocationValidate(t *testing.T) {
	loc := Location{Name: "Museum", Window: TimeWindow{Open: 540, Close: 1080}, Duration: -5}
	if err := loc.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative duration should wrap ErrInvalidInput, got %v", err)
	}

	loc.Duration = 0
	if err := loc.Validate(); err != nil {
		t.Fatalf("zero-duration waypoint rejected: %v", err)
	}
}
