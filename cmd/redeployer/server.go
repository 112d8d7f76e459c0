package main

import (
	"context"
	"fmt"
	"net"
	"runtime"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/spf13/cobra"

	"github.com/redeployer/redeployer/internal/logging"
	libOS "github.com/redeployer/redeployer/internal/os"
	"github.com/redeployer/redeployer/internal/redeploy"
	versionpkg "github.com/redeployer/redeployer/internal/version"
	"github.com/redeployer/redeployer/internal/webhook"
)

type serverOptions struct {
	Host string
	Port string

	Logger *logging.Logger
}

func newServerCommand() *cobra.Command {
	cmdOpts := &serverOptions{
		// During startup, we enforce use of an info-level logger to ensure that
		// no important startup messages are missed.
		Logger: logging.NewLogger(logging.InfoLevel),
	}

	return &cobra.Command{
		Use:               "server",
		DisableAutoGenTag: true,
		SilenceErrors:     true,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdOpts.complete()

			return cmdOpts.run(cmd.Context())
		},
	}
}

func (o *serverOptions) complete() {
	o.Host = libOS.GetEnv("HOST", "0.0.0.0")
	o.Port = libOS.GetEnv("PORT", "8080")
}

func (o *serverOptions) run(ctx context.Context) error {
	version := versionpkg.GetVersion()
	o.Logger.Info(
		"Starting Redeployer Server",
		"version", version.Version,
		"commit", version.GitCommit,
		"GOMAXPROCS", runtime.GOMAXPROCS(0),
	)
	ctx = logging.ContextWithLogger(ctx, o.Logger)

	cfg, err := redeploy.ConfigFromEnv()
	if err != nil {
		return err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("error loading AWS configuration: %w", err)
	}

	srv := webhook.NewServer(
		webhook.ServerConfigFromEnv(),
		redeploy.NewRedeployer(cfg, ecs.NewFromConfig(awsCfg)),
	)

	l, err := net.Listen("tcp", fmt.Sprintf("%s:%s", o.Host, o.Port))
	if err != nil {
		return fmt.Errorf("error creating listener: %w", err)
	}
	defer l.Close()

	if err = srv.Serve(ctx, l); err != nil {
		return fmt.Errorf("error serving events: %w", err)
	}
	return nil
}
