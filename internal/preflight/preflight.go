package preflight

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/redeployer/redeployer/internal/logging"
	"github.com/redeployer/redeployer/internal/redeploy"
)

// IdentityClient is the subset of the STS API used to resolve the active AWS
// identity. It is satisfied by *sts.Client.
type IdentityClient interface {
	GetCallerIdentity(
		ctx context.Context,
		params *sts.GetCallerIdentityInput,
		optFns ...func(*sts.Options),
	) (*sts.GetCallerIdentityOutput, error)
}

// ServicesClient is the subset of the orchestration service's API used to
// verify the deployment target. It is satisfied by *ecs.Client.
type ServicesClient interface {
	DescribeServices(
		ctx context.Context,
		params *ecs.DescribeServicesInput,
		optFns ...func(*ecs.Options),
	) (*ecs.DescribeServicesOutput, error)
}

// RegistryClient is the subset of the registry API used to verify the watched
// repository. It is satisfied by *ecr.Client.
type RegistryClient interface {
	DescribeRepositories(
		ctx context.Context,
		params *ecr.DescribeRepositoriesInput,
		optFns ...func(*ecr.Options),
	) (*ecr.DescribeRepositoriesOutput, error)
}

// Checker verifies, ahead of any trigger invocation, that the configured
// deployment target exists and is reachable with the active credentials.
type Checker struct {
	cfg      redeploy.Config
	identity IdentityClient
	services ServicesClient
	registry RegistryClient
}

func NewChecker(
	cfg redeploy.Config,
	identity IdentityClient,
	services ServicesClient,
	registry RegistryClient,
) *Checker {
	return &Checker{
		cfg:      cfg,
		identity: identity,
		services: services,
		registry: registry,
	}
}

// Check resolves the caller identity, confirms the target service exists and
// is active, and, when a watched repository is configured, confirms that
// repository exists. The first problem found is returned.
func (c *Checker) Check(ctx context.Context) error {
	logger := logging.LoggerFromContext(ctx).WithValues(
		"cluster", c.cfg.Cluster,
		"service", c.cfg.Service,
	)

	if err := c.cfg.Validate(); err != nil {
		return err
	}

	identity, err := c.identity.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return fmt.Errorf("get caller identity failed: %w", err)
	}
	logger.Info(
		"resolved AWS identity",
		"account", aws.ToString(identity.Account),
		"arn", aws.ToString(identity.Arn),
	)

	svcRes, err := c.services.DescribeServices(
		ctx,
		&ecs.DescribeServicesInput{
			Cluster:  aws.String(c.cfg.Cluster),
			Services: []string{c.cfg.Service},
		},
	)
	if err != nil {
		return fmt.Errorf("describe services failed: %w", err)
	}
	for _, failure := range svcRes.Failures {
		return fmt.Errorf(
			"service %q was not resolvable in cluster %q: %s",
			c.cfg.Service,
			c.cfg.Cluster,
			aws.ToString(failure.Reason),
		)
	}
	if len(svcRes.Services) == 0 {
		return fmt.Errorf(
			"service %q not found in cluster %q",
			c.cfg.Service,
			c.cfg.Cluster,
		)
	}
	if status := aws.ToString(svcRes.Services[0].Status); status != "ACTIVE" {
		return fmt.Errorf(
			"service %q in cluster %q has status %q; expected ACTIVE",
			c.cfg.Service,
			c.cfg.Cluster,
			status,
		)
	}
	logger.Info("verified deployment target")

	if c.cfg.Repository == "" {
		return nil
	}

	repoRes, err := c.registry.DescribeRepositories(
		ctx,
		&ecr.DescribeRepositoriesInput{
			RepositoryNames: []string{c.cfg.Repository},
		},
	)
	if err != nil {
		return fmt.Errorf("describe repositories failed: %w", err)
	}
	if len(repoRes.Repositories) == 0 {
		return fmt.Errorf("repository %q not found in registry", c.cfg.Repository)
	}
	logger.Info("verified watched repository", "repository", c.cfg.Repository)

	return nil
}
