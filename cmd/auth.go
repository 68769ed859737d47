package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/atomik/internal/auth"
	"github.com/ziadkadry99/atomik/internal/config"
	"github.com/ziadkadry99/atomik/internal/ui"
)

var authKeyFlag string

// keyProviders are the providers authenticated by a plain API key, with
// where to obtain one.
var keyProviders = []struct {
	name config.ProviderType
	url  string
}{
	{config.ProviderAnthropic, "https://console.anthropic.com/settings/keys"},
	{config.ProviderOpenAI, "https://platform.openai.com/api-keys"},
	{config.ProviderOpenRouter, "https://openrouter.ai/keys"},
	{config.ProviderMiniMax, "https://www.minimax.io/platform"},
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage API credentials for LLM providers",
	Long: `Store and manage API credentials for LLM providers.

Credentials are stored in ~/.atomik/credentials.json (or $ATOMIK_CREDENTIALS)
and used when the provider's environment variable is not set.`,
}

var authGoogleCmd = &cobra.Command{
	Use:   "google",
	Short: "Store a Gemini API key, or authenticate with Google via OAuth2",
	Long: `With --key, stores a Gemini API key.

Otherwise opens your browser for Google OAuth2 authorization, granting
atomik access to the Generative Language API. You need a Google Cloud
OAuth2 client ID and secret, read from GOOGLE_CLIENT_ID and
GOOGLE_CLIENT_SECRET or prompted for.`,
	Args: cobra.NoArgs,
	RunE: runAuthGoogle,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which providers have credentials",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout [provider]",
	Short: "Remove stored credentials",
	Long: `Remove stored credentials for a provider.

If no provider is specified, removes all stored credentials.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAuthLogout,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authGoogleCmd.Flags().StringVar(&authKeyFlag, "key", "", "API key to store instead of running OAuth2")
	authCmd.AddCommand(authGoogleCmd)

	for _, p := range keyProviders {
		name := string(p.name)
		c := &cobra.Command{
			Use:   name,
			Short: fmt.Sprintf("Store %s API key", name),
			Long:  fmt.Sprintf("Store your %s API key for persistent use.\n\nGet your API key at %s", name, p.url),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return storeAPIKey(cmd, name)
			},
		}
		c.Flags().StringVar(&authKeyFlag, "key", "", "API key to store (prompted for when omitted)")
		authCmd.AddCommand(c)
	}

	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
}

func promptSecret(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Mask:  '*',
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("value is required")
			}
			return nil
		},
	}
	v, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return strings.TrimSpace(v), nil
}

func storeAPIKey(cmd *cobra.Command, provider string) error {
	key := strings.TrimSpace(authKeyFlag)
	if key == "" {
		var err error
		if key, err = promptSecret(provider + " API key"); err != nil {
			return err
		}
	}

	creds, err := auth.Load()
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}
	creds.SetAPIKey(provider, key)
	if err := auth.Save(creds); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s credentials stored.\n", ui.StatusIcon(true), provider)
	return nil
}

func runAuthGoogle(cmd *cobra.Command, args []string) error {
	if authKeyFlag != "" {
		return storeAPIKey(cmd, string(config.ProviderGoogle))
	}

	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	var err error
	if clientID == "" {
		if clientID, err = promptSecret("Google OAuth2 client ID"); err != nil {
			return err
		}
	}
	if clientSecret == "" {
		if clientSecret, err = promptSecret("Google OAuth2 client secret"); err != nil {
			return err
		}
	}

	token, err := auth.RunGoogleOAuth(cmd.Context(), cmd.OutOrStdout(), clientID, clientSecret)
	if err != nil {
		return fmt.Errorf("OAuth flow failed: %w", err)
	}

	creds, err := auth.Load()
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}
	creds.SetGoogleToken(token, clientID, clientSecret)
	if err := auth.Save(creds); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Google credentials stored.\n", ui.StatusIcon(true))
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	creds, err := auth.Load()
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	out := cmd.OutOrStdout()
	path, _ := auth.CredentialPath()
	fmt.Fprintf(out, "Credentials file: %s\n\n", path)

	names := []config.ProviderType{config.ProviderGoogle}
	for _, p := range keyProviders {
		names = append(names, p.name)
	}

	var rows [][]string
	for _, name := range names {
		rows = append(rows, []string{string(name), credentialStatus(name, creds)})
	}
	rows = append(rows, []string{string(config.ProviderOllama), "available (local)"})
	ui.Table(out, []string{"Provider", "Status"}, rows)
	return nil
}

// credentialStatus describes where provider's credential comes from.
func credentialStatus(provider config.ProviderType, creds *auth.Credentials) string {
	if config.HasAPIKey(provider) {
		return ui.StatusIcon(true) + " configured (env var)"
	}
	if creds.APIKeys[string(provider)] != "" {
		return ui.StatusIcon(true) + " configured (stored key)"
	}
	if provider == config.ProviderGoogle && creds.HasGoogleOAuth() {
		return ui.StatusIcon(true) + " configured (stored OAuth2)"
	}
	return ui.StatusIcon(false) + " not configured"
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	creds, err := auth.Load()
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	provider := ""
	if len(args) == 1 {
		provider = args[0]
		known := provider == string(config.ProviderGoogle)
		for _, p := range keyProviders {
			known = known || provider == string(p.name)
		}
		if !known {
			return fmt.Errorf("unknown provider %q", provider)
		}
	}
	creds.Remove(provider)
	if err := auth.Save(creds); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}

	if provider == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "All stored credentials removed.")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s credentials removed.\n", provider)
	}
	return nil
}
