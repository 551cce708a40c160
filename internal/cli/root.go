package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hongminglow/club-finder/internal/bootstrap"
	"github.com/hongminglow/club-finder/internal/config"
	"github.com/hongminglow/club-finder/internal/gateway"
	"github.com/hongminglow/club-finder/internal/logger"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Connector opens a root gateway client and returns a release function.
type Connector func(ctx context.Context) (*gateway.Client, func(), error)

// RootOptions holds global flags and the resources shared by subcommands.
type RootOptions struct {
	Token   string
	Format  string
	Verbose bool

	Connect Connector
	Log     *zap.Logger

	client  *gateway.Client
	release func()
}

// NewRootCommand creates the clubctl root command. A nil connector uses the
// environment configuration to reach Postgres.
func NewRootCommand(connect Connector) *cobra.Command {
	opts := &RootOptions{Connect: connect, Log: zap.NewNop()}

	cmd := &cobra.Command{
		Use:           "clubctl",
		Short:         "Browse and administer the sports club directory",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Connect == nil {
				opts.Connect = envConnector(opts)
			}
			client, release, err := opts.Connect(cmd.Context())
			if err != nil {
				return err
			}
			opts.client = client.WithAccessToken(opts.Token)
			opts.release = release
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.release != nil {
				opts.release()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Token, "token", "", "access token of the signed-in user (or CLUBCTL_TOKEN)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(NewClubsCommand(opts))
	cmd.AddCommand(NewAuthCommand(opts))
	cmd.AddCommand(NewNavigateCommand(opts))

	return cmd
}

// Client returns the session-bound gateway client opened for this invocation.
func (o *RootOptions) Client() *gateway.Client {
	return o.client
}

func envConnector(opts *RootOptions) Connector {
	return func(ctx context.Context) (*gateway.Client, func(), error) {
		_ = godotenv.Load()
		cfg, err := config.Load()
		if err != nil {
			return nil, nil, fmt.Errorf("load config: %w", err)
		}
		if opts.Token == "" {
			opts.Token = lookupEnvToken()
		}
		if opts.Verbose {
			logg, err := logger.New(logger.Config{Debug: true})
			if err != nil {
				return nil, nil, fmt.Errorf("init logger: %w", err)
			}
			opts.Log = logg
		}
		deps, err := bootstrap.Open(ctx, cfg, opts.Log)
		if err != nil {
			return nil, nil, err
		}
		return deps.Client, deps.Close, nil
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
