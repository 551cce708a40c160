package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hongminglow/club-finder/internal/models"
	"github.com/hongminglow/club-finder/internal/session"
)

const tokenEnv = "CLUBCTL_TOKEN"

func lookupEnvToken() string {
	return strings.TrimSpace(os.Getenv(tokenEnv))
}

// NewAuthCommand groups the account subcommands.
func NewAuthCommand(root *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Register, sign in and inspect the current session",
	}
	cmd.AddCommand(newRegisterCommand(root))
	cmd.AddCommand(newLoginCommand(root))
	cmd.AddCommand(newWhoamiCommand(root))
	return cmd
}

type sessionView struct {
	Token   string          `json:"token,omitempty"`
	User    *models.User    `json:"user"`
	Profile *models.Profile `json:"profile"`
}

func printSession(cmd *cobra.Command, root *RootOptions, store *session.Store, withToken bool) error {
	view := sessionView{User: store.User(), Profile: store.Profile()}
	if withToken {
		view.Token = root.Client().AccessToken()
	}
	if root.Format == "json" {
		return writeJSON(out(cmd), view)
	}
	w := out(cmd)
	if view.User == nil {
		fmt.Fprintln(w, "not signed in")
		return nil
	}
	fmt.Fprintf(w, "user:  %s (%s)\n", view.User.Email, view.User.ID)
	if view.Profile != nil {
		fmt.Fprintf(w, "name:  %s\n", view.Profile.FullName)
		fmt.Fprintf(w, "role:  %s\n", view.Profile.Role)
	}
	if view.Token != "" {
		fmt.Fprintf(w, "token: %s\n", view.Token)
		fmt.Fprintf(w, "\nexport %s=%s\n", tokenEnv, view.Token)
	}
	return nil
}

func newRegisterCommand(root *RootOptions) *cobra.Command {
	var email, password, fullName, role string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and its profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := session.NewStore(root.Client(), nil, root.Log)
			if err := store.Register(cmd.Context(), email, password, fullName, models.Role(role)); err != nil {
				return fmt.Errorf("register: %w", err)
			}
			return printSession(cmd, root, store, true)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (at least 8 characters)")
	cmd.Flags().StringVar(&fullName, "name", "", "full name")
	cmd.Flags().StringVar(&role, "role", string(models.RoleUser), "user | club_owner | admin")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newLoginCommand(root *RootOptions) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print an access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := session.NewStore(root.Client(), nil, root.Log)
			if err := store.Login(cmd.Context(), email, password); err != nil {
				return fmt.Errorf("login: %w", err)
			}
			return printSession(cmd, root, store, true)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newWhoamiCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user behind --token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := session.NewStore(root.Client(), nil, root.Log)
			store.InitializeAuth(cmd.Context())
			if msg := store.Err(); msg != "" {
				return fmt.Errorf("restore session: %s", msg)
			}
			return printSession(cmd, root, store, false)
		},
	}
}
