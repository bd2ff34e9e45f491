package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"clickform/internal/config"
	"clickform/internal/credential"
	"clickform/internal/exitcode"
	"clickform/internal/service"
)

const (
	// OAuth callback timeout
	oauthCallbackTimeout = 5 * time.Minute

	// Token exchange timeout
	tokenExchangeTimeout = 30 * time.Second

	// Max port attempts
	oauthMaxPortAttempts = 5
)

// ClickUpEndpoint is the ClickUp OAuth endpoint. ClickUp expects client
// credentials as parameters on the token request.
var ClickUpEndpoint = oauth2.Endpoint{
	AuthURL:   "https://app.clickup.com/api",
	TokenURL:  "https://api.clickup.com/api/v2/oauth/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	token string
}

// SetToken sets the token flag (for testing).
func (c *LoginCmd) SetToken(token string) {
	c.token = token
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Store a ClickUp API token" }
func (c *LoginCmd) Usage() string     { return "clickform login [common flags] [--token <api-token>]" }
func (c *LoginCmd) NeedsAuth() bool   { return false }
func (c *LoginCmd) NeedsService() bool {
	return true
}

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.token, "token", "", "")
	fs.StringVar(&c.token, "t", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	store := credential.NewFileStore(cfg.TokenPath())

	token := strings.TrimSpace(c.token)
	if token == "" {
		// Check if already logged in with a token the API still accepts
		if stored, err := store.Load(); err == nil && stored != "" {
			if svc.ValidateToken(ctx, stored) == nil {
				if !cfg.Quiet {
					fmt.Fprintln(out, "already logged in")
				}
				return exitcode.Success
			}
		}

		if !cfg.Settings.HasOAuthApp() {
			printTokenHelp(errOut, cfg)
			return exitcode.AuthError
		}

		var code int
		token, code = c.oauthFlow(ctx, cfg, errOut)
		if code != exitcode.Success {
			return code
		}
	}

	if err := svc.ValidateToken(ctx, token); err != nil {
		if service.IsKind(err, service.KindInvalidToken) {
			fmt.Fprintln(errOut, "error: auth error: API token was rejected")
			return exitcode.AuthError
		}
		return reportError(errOut, err)
	}

	if err := store.Save(token); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

func printTokenHelp(errOut io.Writer, cfg *config.Config) {
	fmt.Fprintln(errOut, "error: no API token given and no OAuth app configured")
	fmt.Fprintln(errOut, "")
	fmt.Fprintln(errOut, "Either pass a personal API token:")
	fmt.Fprintln(errOut, "  1. In ClickUp, open Settings > Apps")
	fmt.Fprintln(errOut, "  2. Generate or copy the API token (starts with pk_)")
	fmt.Fprintln(errOut, "  3. Run: clickform login --token <api-token>")
	fmt.Fprintln(errOut, "")
	fmt.Fprintln(errOut, "Or configure an OAuth app in:")
	fmt.Fprintf(errOut, "  %s\n", cfg.SettingsPath())
	fmt.Fprintln(errOut, "with oauth.client_id and oauth.client_secret, then run 'clickform login' again.")
}

// oauthFlow runs the authorization-code flow through a local callback
// server and returns the access token.
func (c *LoginCmd) oauthFlow(ctx context.Context, cfg *config.Config, errOut io.Writer) (string, int) {
	port, listener, err := findAvailablePort(cfg.Settings.OAuth.Port)
	if err != nil {
		fmt.Fprintf(errOut, "error: could not bind to local port for OAuth callback\n")
		return "", exitcode.AuthError
	}
	defer listener.Close()

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.Settings.OAuth.ClientID,
		ClientSecret: cfg.Settings.OAuth.ClientSecret,
		Endpoint:     ClickUpEndpoint,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", port),
	}

	state := uuid.NewString()
	authURL := oauthConfig.AuthCodeURL(state)

	fmt.Fprintln(errOut, "Open this URL in your browser:")
	fmt.Fprintln(errOut, authURL)

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "State mismatch", http.StatusBadRequest)
			sendErr(errCh, errors.New("oauth state mismatch"))
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "No code in callback", http.StatusBadRequest)
			sendErr(errCh, errors.New("no code in callback"))
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>Authentication successful</h1><p>You may close this window.</p></body></html>")
		select {
		case codeCh <- code:
		default:
		}
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			sendErr(errCh, err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		fmt.Fprintf(errOut, "error: %v\n", err)
		return "", exitcode.AuthError
	case <-time.After(oauthCallbackTimeout):
		fmt.Fprintln(errOut, "error: oauth callback timed out")
		return "", exitcode.AuthError
	case <-ctx.Done():
		fmt.Fprintln(errOut, "error: cancelled")
		return "", exitcode.AuthError
	}

	exchangeCtx, cancelExchange := context.WithTimeout(ctx, tokenExchangeTimeout)
	defer cancelExchange()

	token, err := oauthConfig.Exchange(exchangeCtx, code)
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to exchange code for token: %v\n", err)
		return "", exitcode.AuthError
	}
	return token.AccessToken, exitcode.Success
}

func sendErr(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}

// findAvailablePort tries ports starting from start. A start of 0 lets the
// system pick one.
func findAvailablePort(start int) (int, net.Listener, error) {
	for i := 0; i < oauthMaxPortAttempts; i++ {
		port := start
		if start != 0 {
			port += i
		}
		listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
		if err == nil {
			return listener.Addr().(*net.TCPAddr).Port, listener, nil
		}
	}
	return 0, nil, fmt.Errorf("no available port found")
}
