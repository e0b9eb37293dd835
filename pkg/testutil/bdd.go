package testutil

import "testing"

// Given, When and Then name subtests after the step they describe so a
// workflow test reads top to bottom in the -v output.
func Given(t *testing.T, step string, fn func(t *testing.T)) {
	t.Helper()
	runStep(t, "Given "+step, fn)
}

func When(t *testing.T, step string, fn func(t *testing.T)) {
	t.Helper()
	runStep(t, "When "+step, fn)
}

func Then(t *testing.T, step string, fn func(t *testing.T)) {
	t.Helper()
	runStep(t, "Then "+step, fn)
}

// Later steps build on state the earlier ones created, so a failed step
// stops the scenario.
func runStep(t *testing.T, name string, fn func(t *testing.T)) {
	t.Helper()
	if !t.Run(name, fn) {
		t.FailNow()
	}
}
