package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinicdesk/clinicdesk/internal/core/domain"
)

var (
	catalogCategory string
	catalogSearch   string
	catalogJSON     bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse and manage the service catalog",
	Long:  `Commands for listing services and categories, importing catalog files and watching the local database.`,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List services",
	Long: `List services grouped by category.

Use --category to show one category or --search to match names and
descriptions, ignoring case. The two filters cannot be combined.`,
	Args: cobra.NoArgs,
	RunE: runCatalogList,
}

var catalogCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE:  runCatalogCategories,
}

var catalogImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a catalog file into the local database",
	Long: `Import categories, services and patients from a TOML file into the
local SQLite database. Existing records with the same id are replaced.

Example file:

  [[categories]]
  id = "facial"
  name = "Facial"

  [[services]]
  id = "1"
  name = "Classic Facial"
  category = "facial"
  price = "45.00"
  duration = 45

  [[patients]]
  name = "Alice Moreno"
  phone = "555-0101"`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogImport,
}

var catalogWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload the catalog whenever the local database changes",
	Args:  cobra.NoArgs,
	RunE:  runCatalogWatch,
}

func init() {
	catalogListCmd.Flags().StringVarP(&catalogCategory, "category", "c", "", "only list services in this category id")
	catalogListCmd.Flags().StringVarP(&catalogSearch, "search", "s", "", "only list services matching this text")
	catalogListCmd.Flags().BoolVar(&catalogJSON, "json", false, "output services as JSON")
	catalogListCmd.MarkFlagsMutuallyExclusive("category", "search")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogCategoriesCmd)
	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogWatchCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogList(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}
	if err := catalogService.Load(cmd.Context()); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	filter := domain.CatalogFilter{}
	switch {
	case catalogCategory != "":
		filter = domain.CategoryFilter(catalogCategory)
	case catalogSearch != "":
		filter = domain.QueryFilter(catalogSearch)
	}
	services := catalogService.SetFilter(filter)

	if catalogJSON {
		return outputJSON(cmd, services)
	}

	if len(services) == 0 {
		cmd.Println("No services found.")
		return nil
	}

	if !filter.IsZero() {
		for i := range services {
			printService(cmd, services[i])
		}
		return nil
	}

	for _, group := range catalogService.Groups() {
		if len(group.Services) == 0 {
			continue
		}
		cmd.Printf("%s\n", group.Category.Name)
		for i := range group.Services {
			printService(cmd, group.Services[i])
		}
		cmd.Println()
	}
	return nil
}

func printService(cmd *cobra.Command, svc domain.Service) {
	cmd.Printf("  [%s] %-28s %10s  %3d min\n", svc.ID, svc.Name, domain.FormatPrice(svc.Price), svc.Duration)
}

func runCatalogCategories(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}
	if err := catalogService.Load(cmd.Context()); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	categories := catalogService.Categories()
	if len(categories) == 0 {
		cmd.Println("No categories found.")
		return nil
	}

	for _, cat := range categories {
		cmd.Printf("  %-12s %s (%d services)\n", cat.ID, cat.Name, len(catalogService.ByCategory(cat.ID)))
	}
	return nil
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	if importService == nil {
		return errors.New("import service not configured")
	}

	summary, err := importService.ImportFile(cmd.Context(), args[0])
	if summary != (domain.ImportSummary{}) {
		cmd.Printf("Imported %d categories, %d services, %d patients from %s\n",
			summary.Categories, summary.Services, summary.Patients, args[0])
	}
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	return nil
}

func runCatalogWatch(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}
	if catalogChanges == nil {
		return errors.New("catalog backend cannot be watched")
	}

	ctx := cmd.Context()
	if err := catalogService.Load(ctx); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	cmd.Printf("Catalog loaded: %d services. Watching for changes (Ctrl+C to stop)...\n",
		len(catalogService.Snapshot().Services))

	changes, err := catalogChanges(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch catalog: %w", err)
	}

	for range changes {
		if err := catalogService.Load(ctx); err != nil {
			cmd.PrintErrf("Reload failed, keeping previous catalog: %v\n", err)
			continue
		}
		cmd.Printf("Catalog reloaded: %d services\n", len(catalogService.Snapshot().Services))
	}
	return nil
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
