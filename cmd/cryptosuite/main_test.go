package main

import (
	"errors"
	"testing"

	"github.com/remiblancher/cryptosuite/internal/config"
)

func TestF_Root_Version(t *testing.T) {
	newTestContext(t)

	out, err := executeCommand(rootCmd, "--version")
	assertNoError(t, err)
	assertContains(t, out, version, commit)
}

func TestF_Root_InvalidConfig(t *testing.T) {
	tc := newTestContext(t)
	cfgPath := tc.writeFile("config.yaml", "levels:\n  level: LOUD\n")

	_, err := executeCommand(rootCmd, "inspect", "--config", cfgPath, tc.writeSuite())
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestF_Root_InvalidLogLevel(t *testing.T) {
	tc := newTestContext(t)

	_, err := executeCommand(rootCmd, "inspect", "--log-level", "chatty", tc.writeSuite())
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestF_Root_ConfigSuitePath(t *testing.T) {
	tc := newTestContext(t)
	cfgPath := tc.writeFile("config.yaml", "suite:\n  path: "+tc.writeSuite()+"\n  format: yaml\nlog:\n  level: debug\n")

	out, err := executeCommand(rootCmd, "inspect", "--config", cfgPath)
	assertNoError(t, err)
	assertContains(t, out, "CLI test suite")
}

// =============================================================================
// Serve Tests
// =============================================================================

func TestF_Serve_InvalidPort(t *testing.T) {
	tc := newTestContext(t)

	_, err := executeCommand(rootCmd, "serve", "--suite", tc.writeSuite(), "--port", "70000")
	assertError(t, err)
}

func TestF_Serve_NoSuite(t *testing.T) {
	newTestContext(t)

	_, err := executeCommand(rootCmd, "serve", "--port", "8081")
	if !errors.Is(err, errNoSuite) {
		t.Fatalf("error = %v, want errNoSuite", err)
	}
}
