package cli

import (
	"bytes"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/clinicdesk/clinicdesk/internal/adapters/driven/storage/memory"
	"github.com/clinicdesk/clinicdesk/internal/core/services"
)

// setupTestServices wires real services over the demo catalog and
// returns a cleanup that restores the previous wiring.
func setupTestServices() func() {
	old := Services{
		Catalog:        catalogService,
		Cart:           cartService,
		Patients:       patientSearch,
		Importer:       importService,
		Settings:       settingsService,
		CatalogChanges: catalogChanges,
	}

	source := memory.NewDemoCatalog()
	search := services.NewPatientSearch(source, testclock.NewClock(time.Time{}), 300*time.Millisecond)
	SetServices(Services{
		Catalog:  services.NewCatalogStore(source),
		Cart:     services.NewCart(),
		Patients: search,
		Settings: services.NewSettingsService(memory.NewConfigStore()),
	})
	resetFlags(rootCmd)

	return func() {
		search.Close()
		SetServices(old)
		resetFlags(rootCmd)
	}
}

// resetFlags restores every flag to its default. Cobra keeps parsed
// values between Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs rootCmd with args and returns combined output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
