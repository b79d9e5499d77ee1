package cli

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/asseta-api/internal/application/dto"
)

func (a *cliApp) loginCmd() *cobra.Command {
	var in dto.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login and store the JWT for later commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.client().Login(a.ctx(cmd), in)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printf(w, "%s as %s (%s)\n", out.Message, out.User.Username, out.User.Role)
			if out.Token == "" {
				printf(w, "Server does not issue tokens; nothing stored\n")
				return nil
			}
			if err := saveToken(a.cfg.TokenFile, out.Token); err != nil {
				return err
			}
			printf(w, "Token saved to %s\n", a.cfg.TokenFile)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in.Identifier, "user", "u", "", "username or email")
	cmd.Flags().StringVarP(&in.Password, "password", "p", "", "password")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *cliApp) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := removeToken(a.cfg.TokenFile); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Logged out\n")
			return nil
		},
	}
}

func (a *cliApp) registerCmd() *cobra.Command {
	var in dto.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			msg, err := a.client().Register(a.ctx(cmd), in)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s\n", msg)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in.Username, "user", "u", "", "username")
	cmd.Flags().StringVarP(&in.Email, "email", "e", "", "email")
	cmd.Flags().StringVarP(&in.Password, "password", "p", "", "password")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
