package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCollectionsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collections",
		Short: "Inspect the JSON content collections",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Parse every collection file strictly",
		Long: `Parse every collection file strictly and report its record count.

The server reads damaged files as empty collections; check finds them before
the next write overwrites them. Files are never modified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			portal, err := c.openPortal()
			if err != nil {
				return err
			}
			defer portal.Close()

			failed := 0
			for _, r := range portal.VerifyCollections(cmd.Context()) {
				if r.Err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL  %-10s %s: %v\n", r.Name, r.Path, r.Err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok    %-10s %d records\n", r.Name, r.Records)
			}
			if failed > 0 {
				return fmt.Errorf("%d collection(s) unreadable", failed)
			}
			return nil
		},
	})
	return cmd
}

func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Bring the account database to the latest schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			portal, err := c.openPortal()
			if err != nil {
				return err
			}
			defer portal.Close()

			version, err := portal.SchemaVersion()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
			return nil
		},
	}
}
