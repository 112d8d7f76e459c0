package main

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/spf13/cobra"

	"github.com/redeployer/redeployer/internal/logging"
	"github.com/redeployer/redeployer/internal/preflight"
	"github.com/redeployer/redeployer/internal/redeploy"
)

type checkOptions struct {
	Logger *logging.Logger
}

func newCheckCommand() *cobra.Command {
	cmdOpts := &checkOptions{
		Logger: logging.NewLogger(logging.InfoLevel),
	}

	return &cobra.Command{
		Use:               "check",
		Short:             "Verify the deployment target is resolvable before wiring up the trigger",
		DisableAutoGenTag: true,
		SilenceErrors:     true,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmdOpts.run(cmd.Context())
		},
	}
}

func (o *checkOptions) run(ctx context.Context) error {
	ctx = logging.ContextWithLogger(ctx, o.Logger)

	cfg, err := redeploy.ConfigFromEnv()
	if err != nil {
		return err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("error loading AWS configuration: %w", err)
	}

	checker := preflight.NewChecker(
		cfg,
		sts.NewFromConfig(awsCfg),
		ecs.NewFromConfig(awsCfg),
		ecr.NewFromConfig(awsCfg),
	)
	if err = checker.Check(ctx); err != nil {
		return err
	}

	o.Logger.Info("preflight checks passed")
	return nil
}
