//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	APIURL     string
	APIKey     string
	APISecret  string
	PulsePath  string
	Verbose    bool
	AllowWrite bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		APIURL:     os.Getenv("PULSE_API_URL"),
		APIKey:     os.Getenv("PULSE_API_KEY"),
		APISecret:  os.Getenv("PULSE_API_SECRET"),
		PulsePath:  getPulsePath(),
		Verbose:    os.Getenv("PULSE_VERBOSE") == "true",
		AllowWrite: os.Getenv("PULSE_INTEGRATION_WRITE") == "true",
	}
}

// getPulsePath determines the path to the pulse binary
func getPulsePath() string {
	if path := os.Getenv("PULSE_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../pulse",
		"./pulse",
		"../pulse",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "pulse" // Fallback to PATH
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.APIURL == "" || config.APIKey == "" {
		t.Skip("PULSE_API_URL or PULSE_API_KEY not set, skipping integration test")
	}

	if _, err := exec.LookPath(config.PulsePath); err != nil {
		t.Skipf("pulse binary not found at %s, skipping integration test", config.PulsePath)
	}
}

// SkipIfReadOnly skips tests that create data on the tenant
func (config *TestConfig) SkipIfReadOnly(t *testing.T) {
	t.Helper()

	if !config.AllowWrite {
		t.Skip("PULSE_INTEGRATION_WRITE not set, skipping write test")
	}
}

// CommandRunner provides utilities for running pulse commands
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config: config,
		t:      t,
	}
}

// Run executes a pulse command and returns output. Credentials are passed
// through the environment so they never show up in process listings.
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	cmd := exec.Command(runner.config.PulsePath, args...) // #nosec G204

	cmd.Env = append(os.Environ(),
		"PULSE_API_URL="+runner.config.APIURL,
		"PULSE_API_KEY="+runner.config.APIKey,
		"PULSE_API_SECRET="+runner.config.APISecret,
	)

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.PulsePath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// RunJSON executes a pulse command with JSON output and decodes it into out
func (runner *CommandRunner) RunJSON(out interface{}, args ...string) error {
	stdout, stderr, err := runner.Run(append(args, "--output", "json")...)
	if err != nil {
		return fmt.Errorf("%w: %s", err, stderr)
	}

	return json.Unmarshal([]byte(stdout), out)
}

// WriteParamsFile writes a params file for 'pulse run --params-file'
func WriteParamsFile(t *testing.T, defaults map[string]interface{}, items ...map[string]interface{}) string {
	t.Helper()

	data, err := yaml.Marshal(map[string]interface{}{"defaults": defaults, "items": items})
	require.NoError(t, err)

	path := t.TempDir() + "/params.yml"
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().Unix())
}

// AssertJSONOutput verifies command output is valid JSON
func AssertJSONOutput(t *testing.T, output string) {
	t.Helper()

	require.True(t, json.Valid([]byte(strings.TrimSpace(output))), "Output is not JSON: %s", output)
}
