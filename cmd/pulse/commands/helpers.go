package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/viper"
	"github.com/xhit/go-str2duration/v2"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/pulse/internal/constants"
	"github.com/fivetwenty-io/pulse/pkg/pulse"
	"github.com/fivetwenty-io/pulse/pkg/pulseclient"
)

// Common string constants used throughout the commands package.
const (
	// EnvPrefix prefixes every environment variable read by the CLI.
	EnvPrefix = "PULSE"

	configDirName  = ".pulse"
	configFileName = "config.yml"

	// JSON formatting.
	defaultJSONIndent = 2

	statusOK     = "ok"
	statusFailed = "failed"
)

// Common static errors used throughout the commands package.
var (
	ErrNotATerminal       = errors.New("standard input is not a terminal")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrUnsupportedFormat  = errors.New("unsupported output format")
	ErrInvalidOutputPath  = errors.New("file name escapes the output directory")
	ErrParamsFileNotFound = errors.New("params file not found")
	ErrInvalidRetries     = errors.New("retries must be a non-negative integer")
)

// ConfigDir returns ~/.pulse.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, configDirName), nil
}

// outputFormat returns the --output value.
func outputFormat() string {
	format := strings.ToLower(viper.GetString("output"))
	if format == "" {
		return constants.FormatTable
	}

	return format
}

// newLogger builds the CLI logger. Warnings and errors always reach stderr;
// --verbose adds debug output including HTTP traffic.
func newLogger(w io.Writer) *pulse.HCLogger {
	level := hclog.Warn
	if viper.GetBool("verbose") {
		level = hclog.Debug
	}

	return pulse.NewHCLogger(hclog.New(&hclog.LoggerOptions{
		Name:   "pulse",
		Level:  level,
		Output: w,
	}))
}

// parseTimeout accepts human durations such as "30s", "2m" or "1d".
func parseTimeout(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}

	timeout, err := str2duration.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidTimeout, value, err)
	}

	if timeout < 0 {
		return 0, fmt.Errorf("%w %q: must not be negative", ErrInvalidTimeout, value)
	}

	return timeout, nil
}

// buildClientConfig assembles the client configuration from flags, the
// environment and the config file, in that order of precedence.
func buildClientConfig(logger pulse.Logger) (*pulse.Config, error) {
	apiURL := pulseclient.NormalizeAPIURL(viper.GetString("api_url"))
	if apiURL == "" {
		return nil, constants.ErrNoAPIURL
	}

	apiKey := strings.TrimSpace(viper.GetString("api_key"))
	if apiKey == "" {
		return nil, constants.ErrNoAPIKey
	}

	timeout, err := parseTimeout(viper.GetString("timeout"))
	if err != nil {
		return nil, err
	}

	config := &pulse.Config{
		APIURL:      apiURL,
		APIKey:      apiKey,
		APISecret:   viper.GetString("api_secret"),
		HTTPTimeout: timeout,
		RetryMax:    viper.GetInt("retries"),
		Debug:       viper.GetBool("verbose"),
		Logger:      logger,
	}

	err = config.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// readSecret prompts for a secret without echoing it.
func readSecret(prompt string) (string, error) {
	fd := int(os.Stdin.Fd()) // #nosec G115

	if !term.IsTerminal(fd) {
		return "", ErrNotATerminal
	}

	_, _ = fmt.Fprint(os.Stderr, prompt)

	secret, err := term.ReadPassword(fd)

	_, _ = fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	return strings.TrimSpace(string(secret)), nil
}

// renderJSON writes data as indented JSON.
func renderJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", strings.Repeat(" ", defaultJSONIndent))

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// renderYAML writes data as YAML.
func renderYAML(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(defaultJSONIndent)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return encoder.Close()
}

// truncate shortens s to StringTruncationLimit runes.
func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= constants.StringTruncationLimit {
		return s
	}

	return string(runes[:constants.StringTruncationLimit-3]) + "..."
}
