package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/corpusimport/internal/core"
	"github.com/JonMunkholm/corpusimport/internal/logging"
)

func (a *app) createCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create the corpus tables and seed the subgenre taxonomy",
		Long: `Creates the lexicon, source, subgenre and text tables with their
indexes, then inserts the fixed subgenre taxonomy.

create runs once against an empty database; it fails on the first
statement that errors, naming the step.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan := core.SchemaPlan(core.All())

			if dryRun {
				for _, st := range plan {
					fmt.Fprintf(a.stdout, "-- %s\n%s\n\n", st.Label, st)
				}
				return nil
			}

			ctx := logging.WithRunID(cmd.Context(), uuid.New().String())
			log := logging.FromContext(ctx)

			db, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := core.CreateSchema(ctx, db); err != nil {
				return fmt.Errorf("create schema: %w", err)
			}

			log.Info("schema created", "tables", core.TableCount(), "statements", len(plan))
			color.New(color.FgGreen).Fprintf(a.stdout, "created %d tables in %s\n", core.TableCount(), a.params.Name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the statements instead of running them")
	return cmd
}
