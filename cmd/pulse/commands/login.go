package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/pulse/internal/auth"
	"github.com/fivetwenty-io/pulse/internal/constants"
	"github.com/fivetwenty-io/pulse/pkg/pulseclient"
)

// LoginResult is printed after a successful login.
type LoginResult struct {
	APIURL    string `json:"api_url"              yaml:"api_url"`
	APIKey    string `json:"api_key"              yaml:"api_key"`
	ExpiresAt string `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Token     string `json:"token,omitempty"      yaml:"token,omitempty"`
}

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		showToken    bool
		promptSecret bool
		save         bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Verify credentials against the Pulse API",
		Long:  "Log in with the configured API key and secret and report whether the credentials are accepted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if promptSecret && viper.GetString("api_secret") == "" {
				secret, err := readSecret("API secret: ")
				if err != nil {
					return err
				}

				viper.Set("api_secret", secret)
			}

			config, err := buildClientConfig(newLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}

			client, err := pulseclient.New(config)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			token, err := client.Authenticate(cmd.Context())
			if err != nil {
				return err
			}

			result := LoginResult{
				APIURL: config.APIURL,
				APIKey: config.APIKey,
			}

			if expiresAt := auth.NewToken(token).ExpiresAt; !expiresAt.IsZero() {
				result.ExpiresAt = expiresAt.Format(time.RFC3339)
			}

			if showToken {
				result.Token = token
			}

			if save {
				err = saveCredentials(config.APIURL, config.APIKey)
				if err != nil {
					return err
				}
			}

			return renderLoginResult(cmd, result)
		},
	}

	cmd.Flags().BoolVar(&showToken, "show-token", false, "print the access token")
	cmd.Flags().BoolVar(&promptSecret, "prompt-secret", false, "prompt for the API secret when none is configured")
	cmd.Flags().BoolVar(&save, "save", false, "store the API URL and key in the config file")

	return cmd
}

func renderLoginResult(cmd *cobra.Command, result LoginResult) error {
	switch outputFormat() {
	case constants.FormatJSON:
		return renderJSON(cmd.OutOrStdout(), result)
	case constants.FormatYAML:
		return renderYAML(cmd.OutOrStdout(), result)
	}

	out := cmd.OutOrStdout()

	_, _ = fmt.Fprintf(out, "Successfully logged in to %s\n", result.APIURL)

	if result.ExpiresAt != "" {
		_, _ = fmt.Fprintf(out, "Token expires at: %s\n", result.ExpiresAt)
	}

	if result.Token != "" {
		_, _ = fmt.Fprintf(out, "Token: %s\n", result.Token)
	}

	return nil
}

// saveCredentials stores the URL and key; the secret stays out of the file
// unless set explicitly with 'pulse config set api_secret'.
func saveCredentials(apiURL, apiKey string) error {
	config := loadConfig()
	config.APIURL = apiURL
	config.APIKey = apiKey

	return saveConfigStruct(config)
}
