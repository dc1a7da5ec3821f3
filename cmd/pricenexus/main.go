package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/younsl/pricenexus/internal/config"
	"github.com/younsl/pricenexus/internal/logger"
	"github.com/younsl/pricenexus/internal/version"
	"github.com/younsl/pricenexus/pkg/advisor"
	"github.com/younsl/pricenexus/pkg/backend"
	"github.com/younsl/pricenexus/pkg/formatter"
	"github.com/younsl/pricenexus/pkg/pricing"
	"github.com/younsl/pricenexus/pkg/provider"
	"github.com/younsl/pricenexus/pkg/stats"
	"github.com/younsl/pricenexus/pkg/store"
	"github.com/younsl/pricenexus/pkg/vault"
	"go.uber.org/zap"
)

// app holds everything the commands share. It is built once in the root pre-run.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	stats    *stats.Recorder
	backend  *backend.Client
	azure    *provider.Azure
	registry *provider.Registry
	store    *store.Store
	fs       afero.Fs
	in       io.Reader
	out      io.Writer

	vault *vault.Vault
}

type rootFlags struct {
	configPath   string
	apiURL       string
	logLevel     string
	providerName string
	showStats    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdin, os.Stdout).ExecuteContext(ctx); err != nil {
		var shown *shownError
		if !errors.As(err, &shown) {
			formatter.PrintError(os.Stderr, err.Error())
		}
		os.Exit(1)
	}
}

// shownError is a failure the command already printed in its output. main only sets the exit code.
type shownError struct {
	err error
}

func (e *shownError) Error() string { return e.err.Error() }
func (e *shownError) Unwrap() error { return e.err }

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{fs: afero.NewOsFs(), in: in, out: out}
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "pricenexus",
		Short: "Compare cloud VM prices and specs from the terminal",
		Long: `pricenexus fetches VM pricing and specification data from the pricing
backend (and from the AWS Price List and EC2 APIs), shows it as tables,
keeps a comparison vault and compares the saved VMs side by side.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd, flags)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if flags.showStats && a.stats != nil {
				formatter.PrintAPIStats(a.out, a.stats.Snapshot())
			}
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", config.DefaultPath(), "Config file")
	pf.StringVar(&flags.apiURL, "api-url", "", fmt.Sprintf("Pricing backend URL (default %s)", config.DefaultAPIURL))
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVarP(&flags.providerName, "provider", "p", provider.AzureName, "Cloud provider (azure, aws, gcp)")
	pf.BoolVar(&flags.showStats, "stats", false, "Print API call statistics")

	rootCmd.AddCommand(
		newPricesCmd(a, flags),
		newSpecsCmd(a, flags),
		newInfoCmd(a),
		newVaultCmd(a, flags),
		newBrowseCmd(a, flags),
		newProvidersCmd(a),
		newVersionCmd(out),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, flags *rootFlags) error {
	cfg, err := config.Load(flags.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	if flags.apiURL != "" {
		cfg.APIURL = flags.apiURL
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	a.cfg = cfg

	a.logger, err = logger.New(cfg.LogLevel, false)
	if err != nil {
		return err
	}
	a.stats = stats.NewRecorder()

	a.backend, err = backend.NewClient(backend.Options{
		BaseURL:  cfg.APIURL,
		Timeout:  cfg.Timeout,
		RetryMax: cfg.RetryMax,
		Logger:   a.logger.Named("backend"),
		Stats:    a.stats,
	})
	if err != nil {
		return err
	}

	prices := pricing.NewSource(pricing.Options{
		UseIMDS: cfg.AWS.IMDS,
		Logger:  a.logger.Named("pricing"),
		Stats:   a.stats,
	})
	a.azure = provider.NewAzure(a.backend)
	a.registry = provider.NewRegistry(
		a.azure,
		provider.NewAWS(prices, provider.EC2SpecSources(cfg.AWS.IMDS), cfg.AWS.Region),
		provider.GCP{},
	)
	a.store = store.New(cfg.PageSize)

	a.logger.Debug("configured",
		zap.String("api_url", cfg.APIURL),
		zap.String("provider", flags.providerName),
		zap.Int("page_size", cfg.PageSize))
	return nil
}

// openVault opens the vault file on first use
func (a *app) openVault() (*vault.Vault, error) {
	if a.vault != nil {
		return a.vault, nil
	}
	v, err := vault.Open(a.fs, a.cfg.VaultPath)
	if err != nil {
		return nil, err
	}
	a.vault = v
	return v, nil
}

func (a *app) recommender() (advisor.Recommender, error) {
	if a.cfg.AI.Provider == "openai" {
		return advisor.NewOpenAIRecommender(a.cfg.AI.APIKey, a.cfg.AI.Model, "", a.logger.Named("advisor"))
	}
	return advisor.NewBackendRecommender(a.backend), nil
}

// startSpinner creates and starts a spinner on stderr while a request is in flight
func startSpinner(msg string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[9], 200*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + msg
	s.Start()
	return s
}

// withSpinner runs fn with a spinner and reports how long it took
func withSpinner(msg string, fn func()) time.Duration {
	start := time.Now()
	s := startSpinner(msg)
	fn()
	s.Stop()
	return time.Since(start)
}

func newProvidersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the cloud providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range a.registry.Names() {
				p, _ := a.registry.Get(name)
				status := "available"
				if _, ok := p.(provider.GCP); ok {
					status = provider.ErrUnsupported.Error()
				}
				fmt.Fprintf(a.out, "  %-6s - %s\n", name, status)
			}
			return nil
		},
	}
}

func newVersionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(out, version.Get().String())
		},
	}
}
