package app

import "testing"

func TestRefreshTestModePicksUpEnvChanges(t *testing.T) {
	t.Cleanup(RefreshTestMode)

	t.Setenv(testModeEnv, "0")
	RefreshTestMode()
	if InTestMode() {
		t.Fatal("test mode must be off after refresh with flag unset")
	}

	t.Setenv(testModeEnv, "1")
	RefreshTestMode()
	if !InTestMode() {
		t.Fatal("test mode must be on after refresh with flag set")
	}
}
