package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/clinicdesk/clinicdesk/internal/adapters/driving/tui"
	"github.com/clinicdesk/clinicdesk/internal/core/ports/driving"
	"github.com/clinicdesk/clinicdesk/internal/logger"
)

// TUIConfig holds configuration for the TUI command.
type TUIConfig struct {
	CatalogService driving.CatalogService
	CartService    driving.CartService
	PatientSearch  driving.PatientSearchService

	// CatalogChanges, when set, reloads the catalog view on change.
	CatalogChanges ChangeNotifier
}

// tuiConfig holds the current TUI configuration.
var tuiConfig *TUIConfig

// isTerminal reports whether stdout is an interactive terminal.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for clinicdesk.

The TUI lets you browse services by category, build a cart with a
running total, and search patients as you type.

Controls:
  ↑/k, ↓/j   - Navigate
  Enter      - Select / Add to cart
  Tab        - Next category
  /          - Filter services
  Esc        - Back
  q          - Quit`,
	RunE: runTUI,
}

// SetTUIConfig sets the configuration for the TUI command.
func SetTUIConfig(config *TUIConfig) {
	tuiConfig = config
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if tuiConfig == nil {
		return errors.New("tui services not configured")
	}

	ports := tui.NewPorts(tuiConfig.CatalogService, tuiConfig.CartService, tuiConfig.PatientSearch)
	if err := ports.Validate(); err != nil {
		return err
	}

	if !isTerminal() {
		return errors.New("tui requires an interactive terminal; use the catalog, cart and patients commands instead")
	}

	ctx := cmd.Context()
	if tuiConfig.CatalogChanges != nil {
		changes, err := tuiConfig.CatalogChanges(ctx)
		if err != nil {
			// The TUI still works without live reloads.
			logger.Warn("Catalog watch unavailable: %v", err)
		} else {
			ports.CatalogChanges = changes
		}
	}

	// Logging would draw over the alternate screen.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(ctx).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
