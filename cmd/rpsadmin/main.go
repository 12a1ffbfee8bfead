package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rpsadmin/internal/config"
	"rpsadmin/internal/faculty"
	"rpsadmin/internal/listctl"
	"rpsadmin/internal/logging"
	"rpsadmin/internal/querycache"
	"rpsadmin/internal/rest"
	"rpsadmin/internal/telemetry"
	"rpsadmin/internal/ui"
)

// globalFlags override the environment.
type globalFlags struct {
	apiURL   string
	logLevel string
}

// stack is everything a command needs to talk to the API.
type stack struct {
	cfg       config.Config
	log       *zap.Logger
	telemetry *telemetry.Provider
	svc       *faculty.Service
}

func (s *stack) controller(ctx context.Context, opts ...listctl.Option) *listctl.Controller[faculty.Faculty] {
	base := []listctl.Option{
		listctl.WithDebounce(s.cfg.SearchDebounce),
		listctl.WithPageSizes(s.cfg.PageSizes, s.cfg.DefaultPageSize),
		listctl.WithLogger(s.log.Named("list")),
		listctl.WithContext(ctx),
	}
	return listctl.New[faculty.Faculty](s.svc, append(base, opts...)...)
}

func (s *stack) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.telemetry.Shutdown(ctx); err != nil {
		s.log.Warn("telemetry shutdown", zap.Error(err))
	}
	_ = s.log.Sync()
}

// setup resolves configuration and builds the REST, cache and service
// layers. logFile replaces the configured log destination when set.
func setup(ctx context.Context, flags globalFlags, logFile string) (*stack, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flags.apiURL != "" {
		cfg.APIBaseURL = flags.apiURL
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	tp, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		log.Warn("tracing disabled", zap.Error(err))
		tp = telemetry.Noop()
	}

	client, err := rest.NewClient(cfg.APIBaseURL,
		rest.WithTimeout(cfg.RequestTimeout),
		rest.WithTracer(tp.Tracer()),
		rest.WithLogger(log.Named("rest")),
	)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	cache := querycache.New(
		querycache.WithTTL(cfg.CacheTTL),
		querycache.WithLogger(log.Named("cache")),
	)
	log.Info("starting",
		zap.String("api", cfg.APIBaseURL),
		zap.Bool("tracing", tp.Enabled()),
	)
	return &stack{
		cfg:       cfg,
		log:       log,
		telemetry: tp,
		svc:       faculty.NewService(client, cache, log.Named("faculty")),
	}, nil
}

func newRootCmd() *cobra.Command {
	var flags globalFlags
	root := &cobra.Command{
		Use:           "rpsadmin",
		Short:         "Result Processing System admin console",
		Long:          "rpsadmin manages the faculties of a Result Processing System.\nWithout a subcommand it opens the interactive console.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConsole(cmd.Context(), flags)
		},
	}
	root.PersistentFlags().StringVar(&flags.apiURL, "api-url", "", "API base URL (overrides RPS_API_URL)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error (overrides RPS_LOG_LEVEL)")
	root.AddCommand(newListCmd(&flags))
	return root
}

func runConsole(ctx context.Context, flags globalFlags) error {
	s, err := setup(ctx, flags, "")
	if err != nil {
		return err
	}
	defer s.close()

	app := ui.NewAppModel(ctx, s.svc, s.controller(ctx), s.log.Named("ui"))
	defer app.Close()

	p := tea.NewProgram(app.AsTeaModel(), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		s.log.Error("console exited", zap.Error(err))
		return err
	}
	return nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "rpsadmin: %v\n", err)
		os.Exit(1)
	}
}
