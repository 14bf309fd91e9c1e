package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"batalhao/internal/application/listutil"
	"batalhao/internal/application/orchestrators"
	"batalhao/internal/application/projections"
	"batalhao/internal/domain/account"
)

func newAccountCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage portal accounts",
	}
	cmd.AddCommand(
		newAccountCreateCmd(c),
		newAccountListCmd(c),
		newAccountRoleCmd(c),
		newAccountResetPasswordCmd(c),
	)
	return cmd
}

func newAccountCreateCmd(c *cli) *cobra.Command {
	var input orchestrators.CreateAccountInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account with any role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			portal, err := c.openPortal()
			if err != nil {
				return err
			}
			defer portal.Close()

			acct, err := orchestrators.ExecuteCreateAccount(cmd.Context(), input, orchestrators.CreateAccountDeps{
				AccountStore: portal.Stores.AccountStore,
				GenerateID:   uuid.NewString,
				Now:          time.Now,
			})
			if err != nil {
				return fmt.Errorf("create account: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s <%s> role=%s id=%s\n", acct.Name, acct.Email, acct.Role, acct.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&input.Name, "name", "", "display name")
	f.StringVar(&input.Email, "email", "", "login e-mail")
	f.StringVar(&input.Password, "password", "", "initial password")
	f.StringVar(&input.Role, "role", account.RolePolicial, "admin, moderador, operador or policial")
	f.StringVar(&input.Patente, "patente", "", "rank label (default "+account.DefaultPatente+")")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newAccountListCmd(c *cli) *cobra.Command {
	var role string
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts ordered by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if role != "" && !account.IsValidRole(role) {
				return account.ErrInvalidRole
			}
			portal, err := c.openPortal()
			if err != nil {
				return err
			}
			defer portal.Close()

			res, err := projections.QueryListAccounts(cmd.Context(), projections.ListAccountsQuery{
				Role: role,
				Page: listutil.PageParams{Page: 1, PerPage: limit},
			}, projections.ListAccountsDeps{AccountStore: portal.Stores.AccountStore})
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tE-MAIL\tROLE\tPATENTE\tLAST LOGIN")
			for _, a := range res.Accounts {
				last := "-"
				if !a.LastLogin.IsZero() {
					last = a.LastLogin.Local().Format("2006-01-02 15:04")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", a.ID, a.Name, a.Email, a.Role, a.Patente, last)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d accounts\n", len(res.Accounts), res.Page.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "only this role")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum rows")
	return cmd
}

func newAccountRoleCmd(c *cli) *cobra.Command {
	var patente string
	cmd := &cobra.Command{
		Use:   "role <email> <role>",
		Short: "Change an account's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			portal, err := c.openPortal()
			if err != nil {
				return err
			}
			defer portal.Close()

			acct, err := portal.Stores.AccountStore.GetByEmail(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			input := orchestrators.ChangeRoleInput{AccountID: acct.ID, Role: args[1]}
			if cmd.Flags().Changed("patente") {
				input.Patente = &patente
			}
			updated, err := orchestrators.ExecuteChangeRole(cmd.Context(), input, orchestrators.ChangeRoleDeps{
				AccountStore: portal.Stores.AccountStore,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s (%s)\n", updated.Email, updated.Role, updated.Patente)
			return nil
		},
	}
	cmd.Flags().StringVar(&patente, "patente", "", "also set the rank label")
	return cmd
}

func newAccountResetPasswordCmd(c *cli) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "reset-password <email>",
		Short: "Set a new password and lift any lockout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			portal, err := c.openPortal()
			if err != nil {
				return err
			}
			defer portal.Close()

			acct, err := orchestrators.ExecuteResetPassword(cmd.Context(), orchestrators.ResetPasswordInput{
				Email:       args[0],
				NewPassword: password,
			}, orchestrators.ChangePasswordDeps{AccountStore: portal.Stores.AccountStore})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password reset for %s\n", acct.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "new password")
	cmd.MarkFlagRequired("password")
	return cmd
}
