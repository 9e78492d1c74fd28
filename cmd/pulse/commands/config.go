package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/pulse/internal/constants"
	"github.com/fivetwenty-io/pulse/pkg/pulseclient"
)

// Config represents the CLI configuration file.
type Config struct {
	APIURL      string `json:"api_url,omitempty"      yaml:"api_url,omitempty"`
	APIKey      string `json:"api_key,omitempty"      yaml:"api_key,omitempty"`
	APISecret   string `json:"api_secret,omitempty"   yaml:"api_secret,omitempty"`
	Output      string `json:"output,omitempty"       yaml:"output,omitempty"`
	Timeout     string `json:"timeout,omitempty"      yaml:"timeout,omitempty"`
	Retries     int    `json:"retries,omitempty"      yaml:"retries,omitempty"`
	NATSURL     string `json:"nats_url,omitempty"     yaml:"nats_url,omitempty"`
	NATSSubject string `json:"nats_subject,omitempty" yaml:"nats_subject,omitempty"`
}

// masked returns a copy safe to print.
func (c Config) masked() Config {
	if c.APISecret != "" {
		c.APISecret = constants.MaskedSecret
	}

	return c
}

// configSetters validate and apply 'pulse config set' values.
var configSetters = map[string]func(*Config, string) error{
	"api_url": func(c *Config, v string) error {
		c.APIURL = pulseclient.NormalizeAPIURL(v)

		return nil
	},
	"api_key": func(c *Config, v string) error {
		c.APIKey = v

		return nil
	},
	"api_secret": func(c *Config, v string) error {
		c.APISecret = v

		return nil
	},
	"output": func(c *Config, v string) error {
		if !slices.Contains([]string{constants.FormatTable, constants.FormatJSON, constants.FormatYAML}, v) {
			return fmt.Errorf("%w: %s", ErrUnsupportedFormat, v)
		}

		c.Output = v

		return nil
	},
	"timeout": func(c *Config, v string) error {
		_, err := parseTimeout(v)
		if err != nil {
			return err
		}

		c.Timeout = v

		return nil
	},
	"retries": func(c *Config, v string) error {
		retries, err := strconv.Atoi(v)
		if err != nil || retries < 0 {
			return fmt.Errorf("%w: %q", ErrInvalidRetries, v)
		}

		c.Retries = retries

		return nil
	},
	"nats_url": func(c *Config, v string) error {
		c.NATSURL = v

		return nil
	},
	"nats_subject": func(c *Config, v string) error {
		c.NATSSubject = v

		return nil
	},
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage the Pulse CLI configuration file",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration with the API secret masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig().masked()

			switch outputFormat() {
			case constants.FormatJSON:
				return renderJSON(cmd.OutOrStdout(), config)
			case constants.FormatYAML:
				return renderYAML(cmd.OutOrStdout(), config)
			default:
				return displayConfigTable(cmd.OutOrStdout(), config)
			}
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: " + configKeys(),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := setConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value. Keys: " + configKeys(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := unsetConfigValue(config, args[0])
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return nil
		},
	}
}

func configKeys() string {
	keys := make([]string, 0, len(configSetters))
	for key := range configSetters {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return strings.Join(keys, ", ")
}

func setConfigValue(config *Config, key, value string) error {
	setter, ok := configSetters[key]
	if !ok {
		return fmt.Errorf("%w: %s", constants.ErrUnknownKey, key)
	}

	return setter(config, value)
}

func unsetConfigValue(config *Config, key string) error {
	if _, ok := configSetters[key]; !ok {
		return fmt.Errorf("%w: %s", constants.ErrUnknownKey, key)
	}

	switch key {
	case "retries":
		config.Retries = 0
	case "output":
		config.Output = ""
	default:
		_ = configSetters[key](config, "")
	}

	return nil
}

// loadConfig reads the effective configuration from viper.
func loadConfig() *Config {
	return &Config{
		APIURL:      viper.GetString("api_url"),
		APIKey:      viper.GetString("api_key"),
		APISecret:   viper.GetString("api_secret"),
		Output:      viper.GetString("output"),
		Timeout:     viper.GetString("timeout"),
		Retries:     viper.GetInt("retries"),
		NATSURL:     viper.GetString("nats_url"),
		NATSSubject: viper.GetString("nats_subject"),
	}
}

func configFilePath() (string, error) {
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		return configFile, nil
	}

	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}

	err = os.MkdirAll(configDir, constants.ConfigDirPerm)
	if err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(configDir, configFileName), nil
}

func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func displayConfigTable(w io.Writer, config Config) error {
	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")

	_ = table.Append([]string{"API URL", formatConfigValue(config.APIURL)})
	_ = table.Append([]string{"API Key", formatConfigValue(config.APIKey)})
	_ = table.Append([]string{"API Secret", formatConfigValue(config.APISecret)})
	_ = table.Append([]string{"Output", formatConfigValue(config.Output)})
	_ = table.Append([]string{"Timeout", formatConfigValue(config.Timeout)})
	_ = table.Append([]string{"Retries", strconv.Itoa(config.Retries)})
	_ = table.Append([]string{"NATS URL", formatConfigValue(config.NATSURL)})
	_ = table.Append([]string{"NATS Subject", formatConfigValue(config.NATSSubject)})

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func formatConfigValue(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}
