package cli

import (
	"bufio"
	"fmt"
	"time"

	"github.com/atinyakov/VitalsKeeper/internal/client/session"
	"github.com/spf13/cobra"
)

type credentials struct {
	name     string
	email    string
	password string
}

// fill prompts for every credential not given by flag.
func (c *credentials) fill(cmd *cobra.Command, withName bool) error {
	r := bufio.NewReader(cmd.InOrStdin())
	w := cmd.OutOrStdout()

	var err error
	if withName && c.name == "" {
		if c.name, err = readLine(r, w, "Name: "); err != nil {
			return err
		}
	}
	if c.email == "" {
		if c.email, err = readLine(r, w, "Email: "); err != nil {
			return err
		}
	}
	if c.password == "" {
		if c.password, err = readSecret(cmd.InOrStdin(), r, w, "Password: "); err != nil {
			return err
		}
	}
	return nil
}

// NewRegisterCommand creates the register command.
func NewRegisterCommand(opts *RootOptions) *cobra.Command {
	creds := &credentials{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := creds.fill(cmd, true); err != nil {
				return err
			}
			c, err := opts.client(opts.Server)
			if err != nil {
				return err
			}
			user, err := c.Register(cmd.Context(), creds.name, creds.email, creds.password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User created: %s <%s>\n", user.Name, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&creds.name, "name", "", "display name")
	cmd.Flags().StringVar(&creds.email, "email", "", "email address")
	cmd.Flags().StringVar(&creds.password, "password", "", "password (prompted when omitted)")

	return cmd
}

// NewLoginCommand creates the login command. The session token is saved
// for the other commands.
func NewLoginCommand(opts *RootOptions) *cobra.Command {
	creds := &credentials{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := creds.fill(cmd, false); err != nil {
				return err
			}
			c, err := opts.client(opts.Server)
			if err != nil {
				return err
			}
			res, err := c.Login(cmd.Context(), creds.email, creds.password)
			if err != nil {
				return err
			}

			sess := &session.Session{
				Token:    res.Token,
				User:     res.User,
				Server:   opts.Server,
				LoggedIn: time.Now().UTC(),
			}
			if err := opts.store().Save(sess); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s>\n", res.User.Name, res.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&creds.email, "email", "", "email address")
	cmd.Flags().StringVar(&creds.password, "password", "", "password (prompted when omitted)")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.store().Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}
