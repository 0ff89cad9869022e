package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tessro/clickwheel/internal/browser"
	"github.com/tessro/clickwheel/internal/config"
	clierrors "github.com/tessro/clickwheel/internal/errors"
	"github.com/tessro/clickwheel/internal/spotify/auth"
	"github.com/tessro/clickwheel/internal/wizard"
)

const (
	loginTimeout        = 5 * time.Minute
	defaultCallbackPort = 8888
)

var (
	loginManual bool
	loginPort   int
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Spotify authentication",
	Long:  `Commands for managing Spotify OAuth authentication.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with Spotify",
	Long: `Opens a browser to authenticate with Spotify using the OAuth PKCE flow.

With --manual no callback server is started. Paste the URL the browser was
redirected to (or just the code) when prompted. Use this over SSH.`,
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored Spotify credentials",
	Long:  `Removes the stored Spotify OAuth tokens from the local machine.`,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	Long:  `Shows the current Spotify authentication status.`,
	RunE:  runAuthStatus,
}

var authSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Enter your Spotify app credentials",
	Long: `Prompts for the client ID and secret of your Spotify app and saves them
to the config file. Create an app at https://developer.spotify.com/dashboard
with the redirect URI http://127.0.0.1:8888/callback.`,
	RunE: runAuthSetup,
}

func init() {
	authLoginCmd.Flags().BoolVar(&loginManual, "manual", false, "paste the redirect URL instead of running a callback server")
	authLoginCmd.Flags().IntVar(&loginPort, "port", 0, "callback server port (default: from redirect_uri)")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authSetupCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	if cfg.Spotify.ClientID == "" {
		return clierrors.ErrNotConfigured
	}

	pkce, err := auth.NewPKCE()
	if err != nil {
		return fmt.Errorf("failed to generate PKCE: %w", err)
	}

	ac := auth.NewConfig(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, cfg.Spotify.RedirectURI)
	authURL := ac.BuildAuthURL(pkce)

	ctx, cancel := context.WithTimeout(cmd.Context(), loginTimeout)
	defer cancel()

	var code string
	if loginManual {
		fmt.Printf("Open this URL in a browser and approve access:\n\n%s\n\n", authURL)
		code, err = promptManualCode(pkce.State)
	} else {
		code, err = waitForCallback(ctx, ac, authURL, pkce.State)
	}
	if err != nil {
		return err
	}

	fmt.Println("Exchanging code for tokens...")
	token, err := ac.TokenClient().ExchangeCode(ctx, code, pkce.Verifier)
	if err != nil {
		return fmt.Errorf("failed to exchange code: %w", err)
	}

	c, err := newSpotifyClient()
	if err != nil {
		return err
	}
	if err := c.SetToken(token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	log.Info("stored spotify token", zap.Time("expires_at", token.ExpiresAt))

	user, err := c.GetCurrentUser(ctx)
	if err != nil {
		log.Warn("failed to fetch user after login", zap.Error(err))
		fmt.Println("Authentication successful! Token stored.")
		return nil
	}

	if JSONOutput() {
		return printJSON(map[string]interface{}{
			"status":       "authenticated",
			"user_id":      user.ID,
			"display_name": user.DisplayName,
			"email":        user.Email,
			"product":      user.Product,
		})
	}
	fmt.Printf("Successfully authenticated as %s (%s)\n", user.DisplayName, user.Email)
	if !user.IsPremium() && cfg.Player.Output == config.OutputSpotify {
		fmt.Println("Note: controlling Spotify Connect devices requires Spotify Premium.")
	}
	return nil
}

func waitForCallback(ctx context.Context, ac *auth.Config, authURL, state string) (string, error) {
	port := loginPort
	if port == 0 {
		port = ac.CallbackPort()
	}
	if port == 0 {
		port = defaultCallbackPort
	}

	server, err := auth.NewCallbackServer(port)
	if err != nil {
		return "", clierrors.WithSuggestion(
			fmt.Errorf("failed to start callback server: %w", err),
			"Free the port, pass --port, or use 'clickwheel auth login --manual'")
	}
	server.Start()
	defer func() { _ = server.Shutdown(context.Background()) }()

	fmt.Println("Opening browser for Spotify authentication...")
	if err := browser.Open(authURL); err != nil {
		log.Debug("browser open failed", zap.Error(err))
		fmt.Printf("Could not open browser automatically.\n")
		fmt.Printf("Please open this URL in your browser:\n\n%s\n\n", authURL)
	}

	fmt.Println("Waiting for authentication...")
	result, err := server.Wait(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: no callback within %s", clierrors.ErrTimeout, loginTimeout)
		}
		return "", fmt.Errorf("authentication failed: %w", err)
	}
	if err := result.Validate(state); err != nil {
		return "", err
	}
	return result.Code, nil
}

func promptManualCode(state string) (string, error) {
	if !wizard.IsTerminal() {
		return readManualCode(os.Stdin, state)
	}

	var input string
	err := huh.NewInput().
		Title("Paste the redirect URL or code").
		Description("The browser lands on a page that may fail to load. Copy its address.").
		Value(&input).
		Validate(func(s string) error {
			_, err := auth.ParseCallbackInput(s, state)
			return err
		}).
		Run()
	if err != nil {
		return "", fmt.Errorf("login cancelled: %w", err)
	}
	return auth.ParseCallbackInput(input, state)
}

func readManualCode(in io.Reader, state string) (string, error) {
	fmt.Print("Paste the redirect URL or code: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return auth.ParseCallbackInput(line, state)
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	storage, err := auth.NewTokenStorage("")
	if err != nil {
		return fmt.Errorf("failed to initialize token storage: %w", err)
	}

	if !storage.Exists() {
		if JSONOutput() {
			return printJSON(map[string]string{"status": "not_authenticated"})
		}
		fmt.Println("Not authenticated with Spotify.")
		return nil
	}

	if err := storage.Delete(); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "logged_out"})
	}
	fmt.Println("Logged out of Spotify.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	storage, err := auth.NewTokenStorage("")
	if err != nil {
		return fmt.Errorf("failed to initialize token storage: %w", err)
	}

	token, err := storage.Load()
	if err != nil {
		return fmt.Errorf("failed to load token: %w", err)
	}

	if token == nil {
		if JSONOutput() {
			return printJSON(map[string]interface{}{
				"authenticated": false,
				"demo":          cfg.DemoMode(),
			})
		}
		fmt.Println("Not authenticated with Spotify.")
		if cfg.Spotify.ClientID == "" {
			fmt.Println("Run 'clickwheel auth setup', then 'clickwheel auth login'.")
		} else {
			fmt.Println("Run 'clickwheel auth login' to authenticate.")
		}
		return nil
	}

	status := map[string]interface{}{
		"authenticated": true,
		"expired":       token.IsExpired(),
		"expires_at":    token.ExpiresAt,
		"token_path":    storage.Path(),
	}

	// The client refreshes an expired token before the request.
	if c, err := newSpotifyClient(); err == nil {
		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()
		if user, err := c.GetCurrentUser(ctx); err == nil {
			status["user_id"] = user.ID
			status["display_name"] = user.DisplayName
			status["product"] = user.Product
			status["premium"] = user.IsPremium()
		} else {
			log.Warn("failed to fetch user", zap.Error(err))
		}
	}

	if JSONOutput() {
		return printJSON(status)
	}

	if name, ok := status["display_name"].(string); ok {
		fmt.Printf("Authenticated as %s (%s)\n", name, status["product"])
	} else if token.IsExpired() {
		fmt.Println("Authenticated but token expired.")
	} else {
		fmt.Println("Authenticated with Spotify.")
	}
	if Verbose() {
		fmt.Printf("  token:   %s\n", storage.Path())
		fmt.Printf("  expires: %s\n", token.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

func runAuthSetup(cmd *cobra.Command, args []string) error {
	clientID := cfg.Spotify.ClientID
	clientSecret := cfg.Spotify.ClientSecret

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Spotify client ID").
				Description("From your app at developer.spotify.com/dashboard").
				Value(&clientID).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("client ID is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Client secret").
				Description("Optional. Leave empty to use PKCE only").
				EchoMode(huh.EchoModePassword).
				Value(&clientSecret),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	path := configPath()
	if err := config.Init(path, false); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	if err := config.Set(path, "spotify.client_id", strings.TrimSpace(clientID)); err != nil {
		return err
	}
	if err := config.Set(path, "spotify.client_secret", strings.TrimSpace(clientSecret)); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "configured", "path": path})
	}
	fmt.Printf("Saved credentials to %s\n", path)
	fmt.Println("Run 'clickwheel auth login' to authenticate.")
	return nil
}
