package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/spf13/cobra"

	"neo-trader/internal/config"
	"neo-trader/internal/neo"
	"neo-trader/internal/security"
	"neo-trader/internal/session"
)

var errNotConfigured = errors.New("api client not configured")

// sessionSnapshot is the vault payload persisted between CLI invocations.
type sessionSnapshot struct {
	ViewToken string                `json:"view_token"`
	SID       string                `json:"sid"`
	Trading   session.TradingTokens `json:"trading"`
	ExpiresAt time.Time             `json:"expires_at"`
}

func sessionVault() *security.Vault {
	return security.NewVault(filepath.Join(config.DefaultConfigDir(), "session.vault"))
}

// sessionExpiry returns when the current trading tokens lapse. Neo sessions
// are invalidated upstream at the start of the next trading day; 6 AM IST is
// a safe local cutoff.
func sessionExpiry() time.Time {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		loc = time.FixedZone("IST", 5*3600+1800)
	}
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day()+1, 6, 0, 0, 0, loc)
}

// saveSession encrypts the current tokens to disk, keyed by consumer key.
func saveSession(app *App) error {
	sess := app.Client.Session()
	snap := sessionSnapshot{
		ViewToken: sess.ViewToken(),
		SID:       sess.SID(),
		Trading:   sess.Trading(),
		ExpiresAt: sessionExpiry(),
	}
	return sessionVault().Save(app.Config.Credentials.Neo.ConsumerKey, snap)
}

// restoreSession loads saved tokens into the client if they have not lapsed.
func restoreSession(app *App) bool {
	var snap sessionSnapshot
	if err := sessionVault().Load(app.Config.Credentials.Neo.ConsumerKey, &snap); err != nil {
		return false
	}
	if time.Now().After(snap.ExpiresAt) {
		sessionVault().Remove()
		return false
	}
	sess := app.Client.Session()
	sess.SetViewSession(snap.ViewToken, snap.SID)
	if snap.Trading.Token != "" {
		sess.SetTradingSession(snap.Trading)
	}
	return true
}

// addAuthCommands adds authentication commands.
func addAuthCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newLoginCmd(app))
	rootCmd.AddCommand(newValidateCmd(app))
	rootCmd.AddCommand(newLogoutCmd(app))
	rootCmd.AddCommand(newAuthStatusCmd(app))
}

func newLoginCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to Kotak Neo",
		Long: `Login to Kotak Neo using the two-step flow.

Step 1 exchanges mobile number, UCC, and a TOTP code for a view session.
Step 2 exchanges the view session plus MPIN for the trading session.

If totp_secret is configured in credentials.toml the TOTP code is
generated automatically; otherwise pass --totp or enter it at the prompt.
With password configured and no TOTP secret, the password flow with a
delivered OTP is used instead.`,
		Example: `  neo login
  neo login --totp 123456
  neo login --otp 9999  # password flow, OTP from SMS/email`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireClient(app, output); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			if app.Client.Session().State() == session.StateTradingSession {
				output.Success("✓ Already logged in")
				return showAuthStatus(app, output)
			}

			creds := app.Config.Credentials.Neo
			totpCode, _ := cmd.Flags().GetString("totp")
			otpCode, _ := cmd.Flags().GetString("otp")

			usePasswordFlow := creds.TOTPSecret == "" && totpCode == "" && creds.Password != ""
			if usePasswordFlow {
				return passwordLogin(ctx, app, output, otpCode)
			}
			return totpLogin(ctx, app, output, totpCode)
		},
	}

	cmd.Flags().String("totp", "", "TOTP code (generated from totp_secret when omitted)")
	cmd.Flags().String("otp", "", "delivered OTP for the password flow")
	return cmd
}

func totpLogin(ctx context.Context, app *App, output *Output, totpCode string) error {
	creds := app.Config.Credentials.Neo

	if totpCode == "" && creds.TOTPSecret != "" {
		code, err := totp.GenerateCode(creds.TOTPSecret, time.Now())
		if err != nil {
			return fmt.Errorf("generating TOTP code: %w", err)
		}
		totpCode = code
		output.Info("TOTP code generated from configured secret")
	}
	if totpCode == "" {
		var err error
		totpCode, err = prompt(output, "TOTP code: ")
		if err != nil {
			return err
		}
	}

	res, err := app.Client.TOTPLogin(ctx, neo.TOTPLoginParams{
		MobileNumber: creds.MobileNumber,
		UCC:          creds.UCC,
		TOTP:         totpCode,
	})
	if err != nil {
		output.Error("Login failed: %v", err)
		return err
	}
	if !res.OK() {
		output.Error("Login rejected (HTTP %d)", res.StatusCode)
		return renderResult(output, res)
	}

	mpin := creds.MPIN
	if mpin == "" {
		mpin, err = prompt(output, "MPIN: ")
		if err != nil {
			return err
		}
	}

	res, err = app.Client.TOTPValidate(ctx, mpin)
	if err != nil {
		output.Error("Validation failed: %v", err)
		return err
	}
	if !res.OK() {
		output.Error("Validation rejected (HTTP %d)", res.StatusCode)
		return renderResult(output, res)
	}

	if err := saveSession(app); err != nil {
		output.Warning("Could not persist session: %v", err)
	}
	output.Success("✓ Login successful")
	return showAuthStatus(app, output)
}

func passwordLogin(ctx context.Context, app *App, output *Output, otpCode string) error {
	creds := app.Config.Credentials.Neo

	res, err := app.Client.Login(ctx, neo.LoginParams{
		MobileNumber: creds.MobileNumber,
		UCC:          creds.UCC,
		PAN:          creds.PAN,
		Password:     creds.Password,
	})
	if err != nil {
		output.Error("Login failed: %v", err)
		return err
	}
	if !res.OK() {
		output.Error("Login rejected (HTTP %d)", res.StatusCode)
		return renderResult(output, res)
	}

	if otpCode == "" {
		output.Info("An OTP has been sent to your registered mobile/email")
		otpCode, err = prompt(output, "OTP: ")
		if err != nil {
			return err
		}
	}

	res, err = app.Client.Session2FA(ctx, otpCode)
	if err != nil {
		output.Error("OTP validation failed: %v", err)
		return err
	}
	if !res.OK() {
		output.Error("OTP rejected (HTTP %d)", res.StatusCode)
		return renderResult(output, res)
	}

	if err := saveSession(app); err != nil {
		output.Warning("Could not persist session: %v", err)
	}
	output.Success("✓ Login successful")
	return showAuthStatus(app, output)
}

func newValidateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Complete step 2 of a pending login",
		Long: `Complete step 2 of a pending login.

Exchanges an existing view session plus MPIN (TOTP flow) or delivered
OTP (password flow) for the trading session. Only needed when step 2
was not completed during 'neo login'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireClient(app, output); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			otpCode, _ := cmd.Flags().GetString("otp")
			if otpCode != "" {
				res, err := app.Client.Session2FA(ctx, otpCode)
				if err != nil {
					output.Error("OTP validation failed: %v", err)
					return err
				}
				if !res.OK() {
					output.Error("OTP rejected (HTTP %d)", res.StatusCode)
					return renderResult(output, res)
				}
			} else {
				mpin, _ := cmd.Flags().GetString("mpin")
				if mpin == "" {
					mpin = app.Config.Credentials.Neo.MPIN
				}
				if mpin == "" {
					var err error
					mpin, err = prompt(output, "MPIN: ")
					if err != nil {
						return err
					}
				}
				res, err := app.Client.TOTPValidate(ctx, mpin)
				if err != nil {
					output.Error("Validation failed: %v", err)
					return err
				}
				if !res.OK() {
					output.Error("Validation rejected (HTTP %d)", res.StatusCode)
					return renderResult(output, res)
				}
			}

			if err := saveSession(app); err != nil {
				output.Warning("Could not persist session: %v", err)
			}
			output.Success("✓ Trading session established")
			return showAuthStatus(app, output)
		},
	}

	cmd.Flags().String("mpin", "", "MPIN for the TOTP flow")
	cmd.Flags().String("otp", "", "delivered OTP for the password flow")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout and clear the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireClient(app, output); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			if app.Client.Session().State() == session.StateTradingSession {
				if _, err := app.Client.Logout(ctx); err != nil {
					output.Warning("Upstream logout failed: %v", err)
				}
			}
			app.Client.Session().Clear()
			if err := sessionVault().Remove(); err != nil {
				output.Warning("Could not remove saved session: %v", err)
			}
			output.Success("✓ Logged out")
			return nil
		},
	}
}

func newAuthStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireClient(app, output); err != nil {
				return err
			}
			return showAuthStatus(app, output)
		},
	}
}

func showAuthStatus(app *App, output *Output) error {
	sess := app.Client.Session()
	st := sess.State()

	if output.IsJSON() {
		return output.JSON(map[string]interface{}{
			"state":       st.String(),
			"environment": string(sess.Environment()),
			"server_id":   sess.Trading().ServerID,
			"data_center": sess.Trading().DataCenter,
		})
	}

	output.Bold("Authentication Status")
	switch st {
	case session.StateTradingSession:
		output.Printf("  State:       %s\n", output.Green("trading session"))
		output.Printf("  Server:      %s (%s)\n", sess.Trading().ServerID, sess.Trading().DataCenter)
		output.Printf("  Token:       %s\n", security.MaskToken(sess.Trading().Token))
	case session.StateViewSession:
		output.Printf("  State:       %s\n", output.Yellow("view session (step 2 pending)"))
		output.Printf("  Token:       %s\n", security.MaskToken(sess.ViewToken()))
	default:
		output.Printf("  State:       %s\n", output.Red("not authenticated"))
	}
	output.Printf("  Environment: %s\n", sess.Environment())
	return nil
}

// prompt reads one trimmed line from stdin.
func prompt(output *Output, label string) (string, error) {
	output.Printf("%s", label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	value := strings.TrimSpace(line)
	if value == "" {
		return "", fmt.Errorf("empty input")
	}
	return value, nil
}
