package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"flightdeck/internal/animator"
	"flightdeck/internal/common/config"
	httpclient "flightdeck/internal/common/http"
	"flightdeck/internal/common/logger"
	"flightdeck/internal/common/observability"
	"flightdeck/internal/orchestrator"
)

type rootOptions struct {
	configPath string
	baseURL    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "flightdeck",
		Short:         "Compare a hackathon project against past winners",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: configs/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "override api.base_url")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging.level")

	cmd.AddCommand(newServeCmd(opts), newAskCmd(opts))
	return cmd
}

func (o *rootOptions) load() (*config.Config, error) {
	overrides := map[string]interface{}{}
	if o.baseURL != "" {
		overrides["api.base_url"] = o.baseURL
	}
	if o.logLevel != "" {
		overrides["logging.level"] = o.logLevel
	}

	cfg, err := config.LoadWithOverrides(o.configPath, overrides)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	return cfg, nil
}

// app bundles what both commands need.
type app struct {
	cfg    *config.Config
	zapLog *zap.Logger
	log    logger.Logger
	obs    *observability.Observability
	steps  []animator.Step
	client *httpclient.Client
}

func newApp(cfg *config.Config, format, output string) *app {
	zapLog := logger.NewWithOutput(cfg.Logging.Level, format, output)
	log := logger.NewZapAdapter(zapLog)

	return &app{
		cfg:    cfg,
		zapLog: zapLog,
		log:    log,
		obs:    observability.New(cfg.App.Name),
		steps:  animator.StepsFromConfig(cfg.Animator.Steps),
		client: httpclient.NewClient(cfg.API.BaseURL, config.GetDuration(cfg.API.Timeout)),
	}
}

func (a *app) newController() *orchestrator.Controller {
	st := orchestrator.NewStages(a.cfg.API, a.client, a.log)
	return orchestrator.NewController(st, a.steps, a.obs, a.log)
}

func (a *app) close() {
	a.obs.Shutdown()
	_ = a.zapLog.Sync()
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}
