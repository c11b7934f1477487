// Package cli provides the clinicdesk command line interface built on cobra.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/clinicdesk/clinicdesk/internal/core/ports/driving"
	"github.com/clinicdesk/clinicdesk/internal/logger"
)

// version is set at build time through SetVersion.
var version = "dev"

var verbose bool

// Services used by commands. Nil services make their commands fail
// with a "not configured" error.
var (
	catalogService  driving.CatalogService
	cartService     driving.CartService
	patientSearch   driving.PatientSearchService
	importService   driving.CatalogImportService
	settingsService driving.SettingsService
	catalogChanges  ChangeNotifier
)

// ChangeNotifier starts watching the catalog source. The channel
// receives a value per change and is closed when watching stops.
type ChangeNotifier func(ctx context.Context) (<-chan struct{}, error)

// Services aggregates everything the commands depend on.
type Services struct {
	Catalog  driving.CatalogService
	Cart     driving.CartService
	Patients driving.PatientSearchService
	Importer driving.CatalogImportService
	Settings driving.SettingsService

	// CatalogChanges is nil when the backend cannot be watched.
	CatalogChanges ChangeNotifier
}

var rootCmd = &cobra.Command{
	Use:   "clinicdesk",
	Short: "Clinic services, cart and patient lookup",
	Long: `clinicdesk is a front-desk client for a beauty and laser clinic.

Browse the service catalog by category or free text, build a cart of
treatments with a running total, and look up patients by name, phone
or email. Data comes from a local SQLite database, the clinic REST API
or built-in demo data (see 'clinicdesk config').`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServices wires the services used by commands.
func SetServices(s Services) {
	catalogService = s.Catalog
	cartService = s.Cart
	patientSearch = s.Patients
	importService = s.Importer
	settingsService = s.Settings
	catalogChanges = s.CatalogChanges
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx available to commands.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
