// Package auth keeps provider credentials outside the config file, so that
// atomik.yml can be committed without secrets.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/oauth2"
)

// PathEnvVar overrides the credentials file location.
const PathEnvVar = "ATOMIK_CREDENTIALS"

// GoogleCredentials stores OAuth2 tokens for the Gemini API.
type GoogleCredentials struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenExpiry  string `json:"token_expiry,omitempty"`
	ClientID     string `json:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`
}

// Token converts the stored fields back into an oauth2 token.
func (g *GoogleCredentials) Token() *oauth2.Token {
	expiry, _ := time.Parse(time.RFC3339, g.TokenExpiry)
	return &oauth2.Token{
		AccessToken:  g.AccessToken,
		RefreshToken: g.RefreshToken,
		Expiry:       expiry,
		TokenType:    "Bearer",
	}
}

// Credentials is the content of the credentials file.
type Credentials struct {
	Google  *GoogleCredentials `json:"google,omitempty"`
	APIKeys map[string]string  `json:"api_keys,omitempty"`
}

// SetAPIKey stores key for provider, or removes it when key is empty.
func (c *Credentials) SetAPIKey(provider, key string) {
	if key == "" {
		delete(c.APIKeys, provider)
		return
	}
	if c.APIKeys == nil {
		c.APIKeys = make(map[string]string)
	}
	c.APIKeys[provider] = key
}

// SetGoogleToken stores an OAuth2 token with the client that obtained it.
func (c *Credentials) SetGoogleToken(tok *oauth2.Token, clientID, clientSecret string) {
	c.Google = &GoogleCredentials{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenExpiry:  tok.Expiry.Format(time.RFC3339),
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}
}

// HasGoogleOAuth reports whether a refreshable Google token is stored.
func (c *Credentials) HasGoogleOAuth() bool {
	return c.Google != nil && c.Google.RefreshToken != ""
}

// Remove forgets provider's credentials. An empty provider forgets all.
func (c *Credentials) Remove(provider string) {
	switch provider {
	case "":
		c.Google = nil
		c.APIKeys = nil
	case "google":
		c.Google = nil
		delete(c.APIKeys, provider)
	default:
		delete(c.APIKeys, provider)
	}
}

// Providers lists the providers that have any stored credential, sorted.
func (c *Credentials) Providers() []string {
	seen := make(map[string]bool)
	for p := range c.APIKeys {
		seen[p] = true
	}
	if c.HasGoogleOAuth() {
		seen["google"] = true
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// CredentialPath returns the credentials file path: $ATOMIK_CREDENTIALS, or
// ~/.atomik/credentials.json.
func CredentialPath() (string, error) {
	if p := os.Getenv(PathEnvVar); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".atomik", "credentials.json"), nil
}

// Load reads the credentials file. A missing file yields empty credentials.
func Load() (*Credentials, error) {
	path, err := CredentialPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Credentials{}, nil
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parsing credentials %s: %w", path, err)
	}
	return &creds, nil
}

// Save writes the credentials file readable by the owner only.
func Save(creds *Credentials) error {
	path, err := CredentialPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling credentials: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

// StoredAPIKey returns the stored key for provider, or "" when there is
// none or the file cannot be read.
func StoredAPIKey(provider string) string {
	creds, err := Load()
	if err != nil {
		return ""
	}
	return creds.APIKeys[provider]
}
