// Package cli implements the vitals dashboard command line.
package cli

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/atinyakov/VitalsKeeper/internal/client/api"
	"github.com/atinyakov/VitalsKeeper/internal/client/session"
	"github.com/spf13/cobra"
)

const defaultServer = "http://localhost:8080"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Server      string
	CACert      string
	SessionPath string
	Format      string // "text" | "json"

	serverSet bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the dashboard.
func NewRootCommand(version string) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "vitals",
		Short:   "VitalsKeeper dashboard",
		Long:    "Record and review heart rate, blood pressure, oxygen saturation and temperature readings.",
		Version: cmp.Or(version, "N/A"),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			opts.serverSet = cmd.Flags().Changed("server") || os.Getenv("VITALS_SERVER") != ""
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.Server, "server", "s", cmp.Or(os.Getenv("VITALS_SERVER"), defaultServer), "server base URL")
	cmd.PersistentFlags().StringVar(&opts.CACert, "ca", os.Getenv("VITALS_CA_CERT"), "CA certificate to trust for https servers")
	cmd.PersistentFlags().StringVar(&opts.SessionPath, "session", session.DefaultPath(), "where the login session is kept")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewSubmitCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

func (o *RootOptions) store() *session.Store {
	return session.NewStore(o.SessionPath)
}

func (o *RootOptions) client(server string) (*api.Client, error) {
	if o.CACert != "" {
		return api.NewTLSClient(server, o.CACert)
	}
	return api.NewClient(server), nil
}

// authed loads the saved session and a client for the server it was
// created against, unless --server overrides it.
func (o *RootOptions) authed() (*api.Client, *session.Session, error) {
	sess, err := o.store().Load()
	if errors.Is(err, session.ErrNoSession) {
		return nil, nil, errors.New("not logged in: run `vitals login` first")
	}
	if err != nil {
		return nil, nil, err
	}

	server := o.Server
	if !o.serverSet && sess.Server != "" {
		server = sess.Server
	}
	c, err := o.client(server)
	if err != nil {
		return nil, nil, err
	}
	return c, sess, nil
}

// explain turns an expired or rejected session into a hint.
func explain(err error) error {
	if api.IsUnauthorized(err) {
		return fmt.Errorf("%w: log in again with `vitals login`", err)
	}
	return err
}
