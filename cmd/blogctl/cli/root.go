// Package cli implements the blogctl commands.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/inkpost/inkpost/internal/client"
)

const defaultAPIURL = "http://localhost:8080"

// app is the state shared by every command.
type app struct {
	out       io.Writer
	apiURL    string
	configDir string
	asJSON    bool
}

// NewRootCmd builds the blogctl command tree writing to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "blogctl",
		Short:         "Inkpost command line client",
		Long:          "Command line interface for reading and writing posts on an Inkpost server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	apiURL := os.Getenv("INKPOST_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", apiURL, "API base URL (env INKPOST_API_URL)")
	root.PersistentFlags().StringVar(&a.configDir, "config-dir", os.Getenv("INKPOST_CONFIG_DIR"), "directory holding the saved session")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "print raw JSON instead of tables")

	root.AddCommand(a.authCmd(), a.postsCmd(), a.usersCmd())
	return root
}

// client returns an API client carrying the saved token, if any.
func (a *app) client() (*client.Client, error) {
	sess, err := a.loadSession()
	if err != nil {
		return nil, err
	}
	var opts []client.Option
	if sess != nil {
		opts = append(opts, client.WithToken(sess.Token))
	}
	return client.New(a.apiURL, opts...), nil
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
