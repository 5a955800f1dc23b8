// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ourshop/internal/identity"
	"ourshop/internal/models"
	"ourshop/internal/store"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var (
	firstName string
	lastName  string
	role      string
)

var userCreateCmd = &cobra.Command{
	Use:   "create <email> <password>",
	Short: "Create an account with any role",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := identity.New(store.NewUserStore(db), store.NewConsentStore(db), "OurShop")
		u, err := svc.CreateUser(cmd.Context(), args[0], args[1], firstName, lastName, models.Role(role))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) id=%s\n", u.Email, u.Role, u.ID)
		return nil
	},
}

var userSetRoleCmd = &cobra.Command{
	Use:   "set-role <email> <role>",
	Short: "Change the role of an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := models.Role(args[1])
		if !models.ValidRole(r) {
			return fmt.Errorf("unknown role %q", args[1])
		}
		users := store.NewUserStore(db)
		u, err := users.FindByEmail(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("find %s: %w", args[0], err)
		}
		u, err = users.SetRole(cmd.Context(), u.ID, r)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.Email, u.Role)
		return nil
	},
}

var userReset2FACmd = &cobra.Command{
	Use:   "reset-2fa <email>",
	Short: "Clear the TOTP enrolment of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		users := store.NewUserStore(db)
		u, err := users.FindByEmail(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("find %s: %w", args[0], err)
		}
		if err := users.ResetTOTP(cmd.Context(), u.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "two-factor reset for %s\n", u.Email)
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	userCreateCmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	userCreateCmd.Flags().StringVar(&role, "role", string(models.RoleUser), "user, admin or main_admin")
	userCmd.AddCommand(userCreateCmd, userSetRoleCmd, userReset2FACmd)
	rootCmd.AddCommand(userCmd)
}
