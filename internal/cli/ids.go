package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cardpath/cardpath/pkg/errors"
	"github.com/cardpath/cardpath/pkg/ids"
)

// idsCommand creates the id management command group.
func (c *CLI) idsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ids",
		Short: "Audit and mint stable card ids",
	}

	cmd.AddCommand(c.idsCheckCommand())
	cmd.AddCommand(c.idsNewCommand())

	return cmd
}

// idsCheckCommand creates the "ids check" subcommand.
func (c *CLI) idsCheckCommand() *cobra.Command {
	var (
		vaultRoot string
		noCache   bool
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Audit the vault for missing, malformed or duplicate card ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			scanner, err := c.newScanner(ctx, cfg, vaultRoot, noCache)
			if err != nil {
				return err
			}
			defer scanner.Cache.Close()

			records, err := scanner.Records(ctx)
			if err != nil {
				return err
			}
			audit := ids.Check(records)

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(audit)
			}

			if audit.Clean() {
				printSuccess("All %d cards carry well-formed unique ids", len(records))
				return nil
			}
			for _, loc := range audit.Missing {
				printError("missing id at %s", loc)
			}
			for id, locs := range audit.Invalid {
				for _, loc := range locs {
					printError("malformed id %q at %s", id, loc)
				}
			}
			for id, locs := range audit.Duplicates {
				printError("duplicate id %q declared at:", id)
				for _, loc := range locs {
					printDetail("%s", loc)
				}
			}
			return errors.New(errors.ErrCodeInvalidCardID, "vault has card id problems")
		},
	}

	cmd.Flags().StringVar(&vaultRoot, "vault", "", "vault directory (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the vault scan cache")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the audit as JSON")

	return cmd
}

// idsNewCommand creates the "ids new" subcommand.
func (c *CLI) idsNewCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Mint fresh card ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			for range max(count, 1) {
				fmt.Println(ids.New())
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "how many ids to mint")

	return cmd
}
