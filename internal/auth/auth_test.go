package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func useTempCredentials(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "creds", "credentials.json")
	t.Setenv(PathEnvVar, path)
	return path
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	useTempCredentials(t)

	creds, err := Load()
	require.NoError(t, err)
	assert.Nil(t, creds.Google)
	assert.Empty(t, creds.Providers())
	assert.Equal(t, "", StoredAPIKey("openai"))
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := useTempCredentials(t)

	creds := &Credentials{}
	creds.SetAPIKey("anthropic", "sk-ant")
	creds.SetAPIKey("openrouter", "sk-or")
	expiry := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	creds.SetGoogleToken(&oauth2.Token{AccessToken: "at", RefreshToken: "rt", Expiry: expiry}, "cid", "secret")
	require.NoError(t, Save(creds))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"anthropic", "google", "openrouter"}, loaded.Providers())
	assert.True(t, loaded.HasGoogleOAuth())
	assert.Equal(t, "sk-ant", StoredAPIKey("anthropic"))

	tok := loaded.Google.Token()
	assert.Equal(t, "rt", tok.RefreshToken)
	assert.True(t, tok.Expiry.Equal(expiry))
}

func TestRemove(t *testing.T) {
	creds := &Credentials{}
	creds.SetAPIKey("openai", "k")
	creds.SetAPIKey("minimax", "m")
	creds.SetGoogleToken(&oauth2.Token{RefreshToken: "rt"}, "c", "s")

	creds.Remove("google")
	assert.False(t, creds.HasGoogleOAuth())
	assert.Equal(t, []string{"minimax", "openai"}, creds.Providers())

	creds.SetAPIKey("openai", "")
	assert.Equal(t, []string{"minimax"}, creds.Providers())

	creds.Remove("")
	assert.Empty(t, creds.Providers())
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	path := useTempCredentials(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Load()
	assert.Error(t, err)
	assert.Equal(t, "", StoredAPIKey("openai"))
}

func TestGoogleHTTPClientSendsBearer(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	creds := &GoogleCredentials{
		AccessToken:  "live-token",
		RefreshToken: "rt",
		TokenExpiry:  time.Now().Add(time.Hour).Format(time.RFC3339),
	}
	client := GoogleHTTPClient(context.Background(), creds)
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer live-token", got)
}

func TestCallbackHandler(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		code    string
		wantErr string
	}{
		{"ok", "state=s1&code=abc", "abc", ""},
		{"wrong state", "state=other&code=abc", "", "state"},
		{"denied", "state=s1&error=access_denied", "", "access_denied"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done := make(chan callbackResult, 1)
			rec := httptest.NewRecorder()
			callbackHandler("s1", done).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?"+tt.query, nil))

			res := <-done
			assert.Equal(t, tt.code, res.code)
			if tt.wantErr == "" {
				assert.NoError(t, res.err)
				assert.Contains(t, rec.Body.String(), "authorized")
			} else {
				require.Error(t, res.err)
				assert.Contains(t, res.err.Error(), tt.wantErr)
			}
		})
	}
}
