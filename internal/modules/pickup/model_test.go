// README: State machine and disclaimer gate tests (pure logic, no database).
package pickup

import "testing"

// TestCanTransition verifies the transition table without a database.
func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		// happy-path forward transitions
		{StatusPending, StatusAccepted, true},
		{StatusAccepted, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},
		// cancels
		{StatusPending, StatusCancelled, true},
		{StatusAccepted, StatusCancelled, true},
		// invalid: cancel is terminal-only and unavailable once work started
		{StatusInProgress, StatusCancelled, false},
		// invalid: skipping states
		{StatusPending, StatusInProgress, false},
		{StatusPending, StatusCompleted, false},
		{StatusAccepted, StatusCompleted, false},
		// invalid: terminal states have no outgoing transitions
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusAccepted, false},
		// invalid: cancelled pickups are never re-opened
		{StatusCancelled, StatusCancelled, false},
	}
	for _, tc := range cases {
		got := CanTransition(tc.from, tc.to)
		if got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCancelled} {
		if !IsTerminal(s) {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusAccepted, StatusInProgress} {
		if IsTerminal(s) {
			t.Errorf("expected %s to be non-terminal", s)
		}
	}
}

func TestIsRegulated(t *testing.T) {
	regulated := []MaterialType{MaterialGlass, MaterialCardboard, MaterialAppliance, MaterialAluminum, MaterialCopper}
	for _, m := range regulated {
		if !IsRegulated(m) {
			t.Errorf("expected %s to be regulated", m)
		}
	}
	unregulated := []MaterialType{MaterialPlastic, MaterialPaper, MaterialEWaste}
	for _, m := range unregulated {
		if IsRegulated(m) {
			t.Errorf("expected %s to be unregulated", m)
		}
	}
}

func TestCheckDisclaimer(t *testing.T) {
	glass := []Material{{Type: MaterialGlass, WeightKg: 0}}
	if err := CheckDisclaimer(glass, false); err != ErrDisclaimerRequired {
		t.Fatalf("expected ErrDisclaimerRequired, got %v", err)
	}
	if err := CheckDisclaimer(glass, true); err != nil {
		t.Fatalf("expected nil with accepted disclaimer, got %v", err)
	}

	plastic := []Material{{Type: MaterialPlastic, WeightKg: 2}}
	if err := CheckDisclaimer(plastic, false); err != nil {
		t.Fatalf("expected nil for unregulated materials, got %v", err)
	}

	mixed := []Material{
		{Type: MaterialPlastic, WeightKg: 1},
		{Type: MaterialAppliance, WeightKg: 0},
	}
	if err := CheckDisclaimer(mixed, false); err != ErrDisclaimerRequired {
		t.Fatalf("expected ErrDisclaimerRequired for mixed set, got %v", err)
	}
}
