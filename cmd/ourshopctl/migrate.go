// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ourshop/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the state of every migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return database.MigrationStatus(cmd.Context(), db)
	},
}

var withAdmin bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the starter services and ads into empty tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		if err := database.Seed(ctx, db, time.Now()); err != nil {
			return err
		}
		if withAdmin {
			if err := database.SeedAdmin(ctx, db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "development admin: %s\n", database.DevAdminEmail)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "seed complete")
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&withAdmin, "admin", false, "also create the development main admin")
	rootCmd.AddCommand(migrateCmd, statusCmd, seedCmd)
}
