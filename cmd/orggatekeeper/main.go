package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/iota-uz/orggatekeeper/internal/gatekeeper"
	"github.com/iota-uz/orggatekeeper/internal/mo"
	"github.com/iota-uz/orggatekeeper/internal/server"
	"github.com/iota-uz/orggatekeeper/pkg/configuration"
	"github.com/iota-uz/orggatekeeper/pkg/eventbus"
	"github.com/iota-uz/orggatekeeper/pkg/metrics"
)

func main() {
	root := &cobra.Command{
		Use:           "orggatekeeper",
		Short:         "Keeps MO organisation-unit hierarchy classes in sync",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var dryRun bool
	runCmd := &cobra.Command{
		Use:   "run <unit-uuid>...",
		Short: "Reconcile the given organisation units once and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd.Context(), args, dryRun)
		},
	}
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "log would-be edits without submitting them")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the trigger, health and metrics endpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}

	root.AddCommand(runCmd, serveCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		configuration.Use().Logger().WithError(err).Error("Command failed")
		configuration.Use().Unload()
		os.Exit(1)
	}
	configuration.Use().Unload()
}

type runtime struct {
	conf     *configuration.Configuration
	moClient *mo.Client
	service  *gatekeeper.Service
}

func buildRuntime(ctx context.Context, dryRunOverride bool) *runtime {
	conf := configuration.Use()
	logger := conf.Logger()

	moClient := mo.NewClient(mo.ClientOptions{
		BaseURL:    conf.MO.URL,
		HTTPClient: authorizedHTTPClient(ctx, conf),
		Logger:     logger,
	})

	resolver := gatekeeper.NewResolver(moClient, gatekeeper.NewCache(), logger)
	if conf.HiddenUUID != uuid.Nil {
		resolver.Preset(conf.HiddenUserKey, conf.HiddenUUID)
	}
	if conf.LineManagementUUID != uuid.Nil {
		resolver.Preset(conf.LineManagementUserKey, conf.LineManagementUUID)
	}

	service := gatekeeper.NewService(moClient, moClient, resolver, gatekeeper.Options{
		HideList:              conf.Hidden,
		EnableHideLogic:       conf.EnableHideLogic,
		HiddenUserKey:         conf.HiddenUserKey,
		LineManagementUserKey: conf.LineManagementUserKey,
		DryRun:                conf.DryRun || dryRunOverride,
	}, logger)

	return &runtime{conf: conf, moClient: moClient, service: service}
}

// authorizedHTTPClient returns a client carrying OIDC client-credentials
// tokens. Without a secret (local development) requests go out bare.
func authorizedHTTPClient(ctx context.Context, conf *configuration.Configuration) *http.Client {
	if conf.Auth.ClientSecret == "" {
		return &http.Client{Timeout: conf.MO.GraphQLTimeout}
	}
	cc := clientcredentials.Config{
		ClientID:     conf.Auth.ClientID,
		ClientSecret: conf.Auth.ClientSecret,
		TokenURL:     conf.Auth.TokenURL(),
	}
	client := cc.Client(ctx)
	client.Timeout = conf.MO.GraphQLTimeout
	return client
}

func runOnce(ctx context.Context, args []string, dryRun bool) error {
	rt := buildRuntime(ctx, dryRun)
	logger := rt.conf.Logger()

	var failed int
	for _, arg := range args {
		unit, err := uuid.Parse(arg)
		if err != nil {
			logger.WithField("arg", arg).Error("Not a valid organisation unit uuid")
			failed++
			continue
		}
		updated, err := rt.service.UpdateUnit(ctx, unit)
		metrics.ObserveReconciliation(updated, err)
		if err != nil {
			logger.WithError(err).WithField("unit", unit).Error("Reconciliation failed")
			failed++
			continue
		}
		logger.WithFields(logrus.Fields{
			"unit":    unit,
			"updated": updated,
		}).Info("Reconciliation finished")
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d reconciliations failed", failed, len(args))
	}
	return nil
}

func serve(ctx context.Context) error {
	rt := buildRuntime(ctx, false)
	conf := rt.conf
	logger := conf.Logger()

	bus := eventbus.NewEventPublisher(logger)
	bus.Subscribe(func(event *gatekeeper.UnitTriggered) {
		go func() {
			updated, err := rt.service.UpdateUnit(ctx, event.UUID)
			metrics.ObserveReconciliation(updated, err)
			if err != nil {
				logger.WithError(err).WithField("unit", event.UUID).Error("Reconciliation failed")
				return
			}
			logger.WithFields(logrus.Fields{
				"unit":    event.UUID,
				"updated": updated,
			}).Info("Reconciliation finished")
		}()
	})

	controllers := []server.Controller{
		server.NewHealthController(conf.CommitTag, conf.CommitSHA),
		server.NewTriggerController(bus, rt.moClient, logger),
	}
	if conf.Prometheus.Enabled {
		controllers = append(controllers, metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	srv := server.New(server.Options{
		Addr:        conf.SocketAddress,
		Logger:      logger,
		Controllers: controllers,
	})
	return srv.Run(ctx)
}
