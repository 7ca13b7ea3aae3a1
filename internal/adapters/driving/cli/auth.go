package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage your session",
	Long: `Sign in to the fatawa service, sign out, or show who is signed in.

With the firebase provider, sign-in uses your email and password and the
session is kept in the configuration directory until you sign out. With the
static provider, the token comes from configuration or FATAWA_AUTH_TOKEN.

Examples:
  # Sign in interactively
  fatawa auth login

  # Sign in with a known email
  fatawa auth login --email scholar@example.com

  # Check the session with the service
  fatawa auth status --remote`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	Long: `Show who is signed in.

Use --remote to also ask the service to verify a freshly issued token.`,
	RunE: runAuthStatus,
}

var (
	authEmail  string
	authRemote bool
)

// readPassword reads a password from the terminal without echo. When raw
// is not a terminal the next line of buffered is used instead.
var readPassword = func(raw io.Reader, buffered *bufio.Reader) (string, error) {
	if f, ok := raw.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(password), nil
	}
	line, err := buffered.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func init() {
	authLoginCmd.Flags().StringVar(&authEmail, "email", "", "account email")
	authStatusCmd.Flags().BoolVar(&authRemote, "remote", false, "verify the session with the service")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}
	if !authService.SupportsSignIn() {
		return errors.New("the configured credential provider does not support sign-in; " +
			"set auth.provider to firebase or provide a token")
	}

	in := cmd.InOrStdin()
	reader := bufio.NewReader(in)

	email := strings.TrimSpace(authEmail)
	if email == "" {
		cmd.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}

	cmd.Print("Password: ")
	password, err := readPassword(in, reader)
	cmd.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	identity, err := authService.SignIn(cmd.Context(), email, password)
	if err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}

	cmd.Printf("Signed in as %s\n", identity)
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	if err := authService.SignOut(cmd.Context()); err != nil {
		return fmt.Errorf("sign-out failed: %w", err)
	}

	cmd.Println("Signed out.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	state := authService.Status()
	switch {
	case state.IsAuthenticated():
		cmd.Printf("Signed in as %s (uid %s)\n", state.Identity, state.Identity.UID)
	case state.IsLoading():
		cmd.Println("Session not yet known.")
	default:
		cmd.Println("Not signed in.")
		cmd.Println("Run 'fatawa auth login' to sign in.")
	}

	if !authRemote {
		return nil
	}

	outcome := authService.Verify(cmd.Context())
	if !outcome.Ok() {
		return outcomeError("verification", outcome.Err())
	}
	identity := outcome.Value()
	cmd.Printf("Verified by service as %s\n", &identity)
	return nil
}

// outcomeError wraps a failed outcome with the operation that produced it
// and a hint for authentication failures.
func outcomeError(operation string, err *domain.DocumentError) error {
	if err == nil {
		return nil
	}
	if err.Kind == domain.ErrorKindAuth {
		return fmt.Errorf("%s failed: %w (run 'fatawa auth login')", operation, err)
	}
	return fmt.Errorf("%s failed: %w", operation, err)
}
