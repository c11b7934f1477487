package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var patientsJSON bool

var patientsCmd = &cobra.Command{
	Use:   "patients",
	Short: "Look up patients",
}

var patientsSearchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Find patients by name, phone or email",
	Args:  cobra.ExactArgs(1),
	RunE:  runPatientsSearch,
}

func init() {
	patientsSearchCmd.Flags().BoolVar(&patientsJSON, "json", false, "output patients as JSON")
	patientsCmd.AddCommand(patientsSearchCmd)
	rootCmd.AddCommand(patientsCmd)
}

func runPatientsSearch(cmd *cobra.Command, args []string) error {
	if patientSearch == nil {
		return errors.New("patient search not configured")
	}

	patients, err := patientSearch.LookupNow(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if patientsJSON {
		return outputJSON(cmd, patients)
	}

	if len(patients) == 0 {
		cmd.Println("No patients found.")
		return nil
	}
	for _, p := range patients {
		cmd.Printf("  [%s] %-24s %-12s %s\n", p.ID, p.Name, p.Phone, p.Email)
	}
	return nil
}
