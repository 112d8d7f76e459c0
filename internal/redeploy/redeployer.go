package redeploy

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"

	"github.com/redeployer/redeployer/internal/logging"
)

// ServiceClient is the subset of the orchestration service's API required to
// force a new deployment. It is satisfied by *ecs.Client.
type ServiceClient interface {
	UpdateService(
		ctx context.Context,
		params *ecs.UpdateServiceInput,
		optFns ...func(*ecs.Options),
	) (*ecs.UpdateServiceOutput, error)
}

// Outcome describes what a single trigger invocation did.
type Outcome string

const (
	// OutcomeTriggered indicates a redeployment was requested and accepted.
	OutcomeTriggered Outcome = "Triggered"
	// OutcomeSkipped indicates the event was deliberately ignored.
	OutcomeSkipped Outcome = "Skipped"
)

// Result is what a trigger invocation hands back to the invoking framework.
// For accepted redeployments it carries the orchestration service's
// acknowledgment, unmodified, alongside the most commonly wanted fields of
// that acknowledgment.
type Result struct {
	Outcome Outcome `json:"outcome"`
	// Reason explains a skip. Empty when a redeployment was triggered.
	Reason string `json:"reason,omitempty"`
	// DeploymentID identifies the newly created deployment.
	DeploymentID string `json:"deploymentId,omitempty"`
	// DeploymentStatus is the status the new deployment was accepted with.
	// Acceptance does not mean completion; the rollout proceeds asynchronously.
	DeploymentStatus string `json:"deploymentStatus,omitempty"`
	// Ack is the orchestration service's complete acknowledgment.
	Ack *ecs.UpdateServiceOutput `json:"-"`
}

// Redeployer forces new deployments of a single configured service in
// response to image push events. It holds no mutable state, so a single
// instance may safely serve concurrent invocations.
type Redeployer struct {
	cfg    Config
	client ServiceClient
}

// NewRedeployer returns a *Redeployer that targets the deployment target
// described by cfg using the provided client.
func NewRedeployer(cfg Config, client ServiceClient) *Redeployer {
	return &Redeployer{
		cfg:    cfg,
		client: client,
	}
}

// Trigger handles a single image event. For push events matching the watched
// repository it issues exactly one "replace all running tasks, even if the
// image tag is unchanged" request against the configured target and passes
// the orchestration service's acknowledgment through to the caller. Non-push
// events and pushes to unwatched repositories are skipped with a warning.
// Remote failures are wrapped once, never retried; retry policy belongs to
// the invoking framework.
func (r *Redeployer) Trigger(ctx context.Context, event Event) (*Result, error) {
	logger := logging.LoggerFromContext(ctx).WithValues(
		"cluster", r.cfg.Cluster,
		"service", r.cfg.Service,
		"actionType", event.Detail.ActionType,
		"repository", event.Detail.RepositoryName,
	)

	if err := r.cfg.Validate(); err != nil {
		logger.Error(err, "refusing to trigger a redeployment")
		return nil, err
	}

	logger.Info("received image event", "source", event.Source, "detailType", event.DetailType)

	if !event.IsPush() {
		logger.Info(
			"ignoring image event: not a push",
			"imageTag", event.Detail.ImageTag,
		)
		return &Result{
			Outcome: OutcomeSkipped,
			Reason:  fmt.Sprintf("image action %q is not a push", event.Detail.ActionType),
		}, nil
	}

	if r.cfg.Repository != "" &&
		!strings.EqualFold(event.Detail.RepositoryName, r.cfg.Repository) {
		logger.Info(
			"ignoring push event: repository is not watched",
			"watchedRepository", r.cfg.Repository,
		)
		return &Result{
			Outcome: OutcomeSkipped,
			Reason: fmt.Sprintf(
				"repository %q does not match watched repository %q",
				event.Detail.RepositoryName,
				r.cfg.Repository,
			),
		}, nil
	}

	input := &ecs.UpdateServiceInput{
		Cluster:            aws.String(r.cfg.Cluster),
		Service:            aws.String(r.cfg.Service),
		ForceNewDeployment: true,
	}
	if r.cfg.TaskDefinition != "" {
		input.TaskDefinition = aws.String(r.cfg.TaskDefinition)
	}

	ack, err := r.client.UpdateService(ctx, input)
	if err != nil {
		err = fmt.Errorf("update service failed: %w", err)
		logger.Error(err, "redeployment was not accepted")
		return nil, err
	}

	res := &Result{
		Outcome: OutcomeTriggered,
		Ack:     ack,
	}
	if ack.Service != nil && len(ack.Service.Deployments) > 0 {
		// The first deployment listed is the one just created.
		res.DeploymentID = aws.ToString(ack.Service.Deployments[0].Id)
		res.DeploymentStatus = aws.ToString(ack.Service.Deployments[0].Status)
	}

	logger.Info(
		"forced new deployment",
		"deploymentID", res.DeploymentID,
		"deploymentStatus", res.DeploymentStatus,
	)
	return res, nil
}
