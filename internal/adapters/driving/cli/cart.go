package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinicdesk/clinicdesk/internal/core/domain"
)

var (
	cartRemove []string
	cartJSON   bool
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Build a quote from catalog services",
}

var cartQuoteCmd = &cobra.Command{
	Use:   "quote ID...",
	Short: "Price a list of services",
	Long: `Add each service id to a cart in order and print the lines and total.

An id may be repeated to add the service more than once. --remove drops
every line of a service after all ids are added.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCartQuote,
}

func init() {
	cartQuoteCmd.Flags().StringSliceVarP(&cartRemove, "remove", "r", nil, "service ids to remove after adding")
	cartQuoteCmd.Flags().BoolVar(&cartJSON, "json", false, "output the cart as JSON")
	cartCmd.AddCommand(cartQuoteCmd)
	rootCmd.AddCommand(cartCmd)
}

func runCartQuote(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}
	if cartService == nil {
		return errors.New("cart service not configured")
	}
	if err := catalogService.Load(cmd.Context()); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	cartService.Clear()
	for _, id := range args {
		svc, ok := catalogService.Service(id)
		if !ok {
			return fmt.Errorf("service %s: %w", id, domain.ErrNotFound)
		}
		if _, err := cartService.AddItem(svc); err != nil {
			return fmt.Errorf("failed to add service %s: %w", id, err)
		}
	}
	for _, id := range cartRemove {
		cartService.RemoveItem(id)
	}

	snapshot := cartService.Snapshot()
	if cartJSON {
		return outputJSON(cmd, snapshot)
	}

	if snapshot.IsEmpty() {
		cmd.Println("Cart is empty.")
		return nil
	}
	for _, line := range snapshot.Items {
		printService(cmd, line.Service)
	}
	cmd.Println()
	cmd.Printf("Total: %s (%d min)\n", domain.FormatPrice(snapshot.Total), snapshot.Duration)
	return nil
}
