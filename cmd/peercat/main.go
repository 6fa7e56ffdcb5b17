// Command peercat is a command-line client for the PeerCat API.
//
// Settings are read from flags, PEERCAT_* environment variables, a .env
// file and an optional YAML config file, in that order of precedence:
//
//	api-key: pk_live_...
//	base-url: https://api.peerc.at
//	retries: 3
//	timeout: 60s
//	output: table
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/peercat/peercat-go"
	"github.com/peercat/peercat-go/version"
)

const envPrefix = "PEERCAT"

// Config holds the I/O streams used by the CLI.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultConfig returns a Config bound to the process streams.
func DefaultConfig() Config {
	return Config{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// app carries the state shared by all subcommands of one invocation.
type app struct {
	cfg    Config
	v      *viper.Viper
	logger *slog.Logger
	client *peercat.Client
}

func run(args []string, cfg Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(cfg)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd(cfg Config) *cobra.Command {
	a := &app{cfg: cfg, v: viper.New()}

	root := &cobra.Command{
		Use:           "peercat",
		Short:         "Generate images and manage your PeerCat account",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.SetIn(cfg.Stdin)
	root.SetOut(cfg.Stdout)
	root.SetErr(cfg.Stderr)

	flags := root.PersistentFlags()
	flags.String("api-key", "", "API key (env PEERCAT_API_KEY)")
	flags.String("base-url", peercat.DefaultBaseURL, "API base URL")
	flags.Duration("timeout", peercat.DefaultTimeout, "per-attempt timeout")
	flags.Int("retries", peercat.DefaultMaxRetries, "retries for rate limit, server and network failures")
	flags.StringP("output", "o", "table", "output format: table, json or yaml")
	flags.String("config", "", "YAML config file")
	flags.String("env-file", ".env", "dotenv file loaded if present")
	flags.BoolP("verbose", "v", false, "log retries and requests to stderr")

	root.AddCommand(
		newModelsCmd(a),
		newPricesCmd(a),
		newBalanceCmd(a),
		newHistoryCmd(a),
		newGenerateCmd(a),
		newKeysCmd(a),
		newSubmitCmd(a),
		newStatusCmd(a),
		newVersionCmd(a),
	)
	return root
}

// init loads configuration sources and sets up logging.
func (a *app) init(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if envFile := a.v.GetString("env-file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		a.v.SetConfigType("yaml")
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}

	level := slog.LevelWarn
	if a.v.GetBool("verbose") {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.cfg.Stderr, &slog.HandlerOptions{Level: level}))

	switch format := a.v.GetString("output"); format {
	case formatTable, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	return nil
}

// apiClient builds the SDK client on first use, so commands such as
// version work without an API key.
func (a *app) apiClient() (*peercat.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	client, err := peercat.New(a.v.GetString("api-key"),
		peercat.WithBaseURL(a.v.GetString("base-url")),
		peercat.WithTimeout(a.v.GetDuration("timeout")),
		peercat.WithRetries(a.v.GetInt("retries")),
		peercat.WithUserAgent("peercat-cli/"+version.Get().GitVersion),
		peercat.WithOnRetry(a.logRetry),
	)
	if err != nil {
		if errors.Is(err, peercat.ErrMissingAPIKey) {
			return nil, fmt.Errorf("%w: pass --api-key or set %s_API_KEY", err, envPrefix)
		}
		return nil, err
	}
	a.client = client
	return client, nil
}

func (a *app) logRetry(ev peercat.RetryEvent) {
	a.logger.Debug("retrying request",
		"method", ev.Method,
		"path", ev.Path,
		"request_id", ev.RequestID,
		"attempt", ev.Attempt+1,
		"delay", ev.Delay,
		"kind", ev.Err.Kind,
		"status", ev.Err.StatusCode,
	)
}

func (a *app) printer() *printer {
	return &printer{out: a.cfg.Stdout, format: a.v.GetString("output")}
}

// call runs fn with the SDK client and logs its outcome.
func (a *app) call(ctx context.Context, name string, fn func(context.Context, *peercat.Client) error) error {
	client, err := a.apiClient()
	if err != nil {
		return err
	}

	a.logger.Debug("calling API", "operation", name, "base_url", client.BaseURL())
	if err := fn(ctx, client); err != nil {
		if pe, ok := peercat.AsError(err); ok {
			a.logger.Debug("API call failed",
				"operation", name,
				"kind", pe.Kind,
				"status", pe.StatusCode,
				"attempts", pe.Attempts,
				"request_id", pe.RequestID,
			)
		}
		return err
	}
	return nil
}

func fatal(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "Error: "+format+"\n", args...)
	os.Exit(1)
}
