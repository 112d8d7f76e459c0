package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/spf13/cobra"

	"github.com/redeployer/redeployer/internal/logging"
	"github.com/redeployer/redeployer/internal/redeploy"
	versionpkg "github.com/redeployer/redeployer/internal/version"
)

type lambdaOptions struct {
	Logger *logging.Logger
}

func newLambdaCommand() *cobra.Command {
	cmdOpts := &lambdaOptions{
		Logger: logging.NewLogger(logging.InfoLevel),
	}

	return &cobra.Command{
		Use:               "lambda",
		DisableAutoGenTag: true,
		SilenceErrors:     true,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmdOpts.run(cmd.Context())
		},
	}
}

func (o *lambdaOptions) run(ctx context.Context) error {
	version := versionpkg.GetVersion()
	o.Logger.Info(
		"Starting Redeployer Lambda handler",
		"version", version.Version,
		"commit", version.GitCommit,
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

	redeployer := redeploy.NewRedeployer(cfg, ecs.NewFromConfig(awsCfg))

	// The framework owns retry/backoff policy and invocation timeouts; the
	// handler just converts the envelope and passes the acknowledgment (or a
	// single wrapped error) back to it.
	lambda.StartWithOptions(
		newEventHandler(redeployer),
		lambda.WithContext(ctx),
	)
	return nil
}

func newEventHandler(
	redeployer *redeploy.Redeployer,
) func(context.Context, events.CloudWatchEvent) (*redeploy.Result, error) {
	return func(
		ctx context.Context,
		e events.CloudWatchEvent,
	) (*redeploy.Result, error) {
		event := redeploy.Event{
			Source:     e.Source,
			DetailType: e.DetailType,
		}
		if len(e.Detail) > 0 {
			if err := json.Unmarshal(e.Detail, &event.Detail); err != nil {
				return nil, fmt.Errorf("error unmarshaling event detail: %w", err)
			}
		}
		return redeployer.Trigger(ctx, event)
	}
}
