package auth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleScope = "https://www.googleapis.com/auth/generative-language"

// consentTimeout bounds how long RunGoogleOAuth waits for the browser.
const consentTimeout = 5 * time.Minute

func googleConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scopes:       []string{googleScope},
		Endpoint:     google.Endpoint,
		RedirectURL:  redirectURL,
	}
}

// callbackResult is what the loopback handler learned from the redirect.
type callbackResult struct {
	code string
	err  error
}

// callbackHandler accepts the first redirect carrying state and reports it
// on done. Later redirects are answered but ignored.
func callbackHandler(state string, done chan<- callbackResult) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var res callbackResult
		switch {
		case q.Get("state") != state:
			res.err = errors.New("oauth: callback state does not match")
		case q.Get("code") == "":
			reason := q.Get("error")
			if reason == "" {
				reason = "no authorization code"
			}
			res.err = fmt.Errorf("oauth: %s", reason)
		default:
			res.code = q.Get("code")
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if res.err != nil {
			fmt.Fprintf(w, "<h2>atomik was not authorized</h2><p>%s</p>", html.EscapeString(res.err.Error()))
		} else {
			fmt.Fprint(w, "<h2>atomik is authorized</h2><p>You can close this tab.</p>")
		}
		select {
		case done <- res:
		default:
		}
	}
}

// RunGoogleOAuth performs the installed-app consent flow on a loopback port
// and returns the exchanged token. Instructions are written to w.
func RunGoogleOAuth(ctx context.Context, w io.Writer, clientID, clientSecret string) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("oauth: listening for callback: %w", err)
	}
	redirect := fmt.Sprintf("http://localhost:%d/callback", ln.Addr().(*net.TCPAddr).Port)
	conf := googleConfig(clientID, clientSecret, redirect)

	state := uuid.NewString()
	done := make(chan callbackResult, 1)
	mux := http.NewServeMux()
	mux.Handle("/callback", callbackHandler(state, done))

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case done <- callbackResult{err: fmt.Errorf("oauth: callback server: %w", err)}:
			default:
			}
		}
	}()
	defer srv.Close()

	consent := conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Fprintf(w, "\nOpening your browser to authorize atomik with Google.\nIf nothing opens, visit:\n%s\n\n", consent)
	openBrowser(consent)

	timer := time.NewTimer(consentTimeout)
	defer timer.Stop()

	var res callbackResult
	select {
	case res = <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, fmt.Errorf("oauth: no response after %s", consentTimeout)
	}
	if res.err != nil {
		return nil, res.err
	}

	tok, err := conf.Exchange(ctx, res.code)
	if err != nil {
		return nil, fmt.Errorf("oauth: exchanging code: %w", err)
	}
	return tok, nil
}

// GoogleTokenSource refreshes creds' access token as it expires.
func GoogleTokenSource(ctx context.Context, creds *GoogleCredentials) oauth2.TokenSource {
	return googleConfig(creds.ClientID, creds.ClientSecret, "").TokenSource(ctx, creds.Token())
}

// GoogleHTTPClient signs every request with a bearer token from creds.
func GoogleHTTPClient(ctx context.Context, creds *GoogleCredentials) *http.Client {
	return oauth2.NewClient(ctx, GoogleTokenSource(ctx, creds))
}

func openBrowser(target string) {
	name, args := "xdg-open", []string{target}
	switch runtime.GOOS {
	case "darwin":
		name = "open"
	case "windows":
		name, args = "rundll32", []string{"url.dll,FileProtocolHandler", target}
	}
	_ = exec.Command(name, args...).Start()
}
