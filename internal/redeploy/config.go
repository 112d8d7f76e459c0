package redeploy

import (
	"errors"
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config identifies the deployment target: the (cluster, service) pair whose
// running tasks are replaced whenever a watched image is pushed. It is
// immutable for the lifetime of a Redeployer.
type Config struct {
	// Cluster is the name or ARN of the cluster hosting the service. Required.
	Cluster string `envconfig:"CLUSTER_NAME"`
	// Service is the name of the service to redeploy. Required.
	Service string `envconfig:"SERVICE_NAME"`
	// TaskDefinition optionally pins the redeployment to a specific task
	// definition instead of the service's current one.
	TaskDefinition string `envconfig:"TASK_DEFINITION"`
	// Repository optionally restricts the trigger to push events for a single
	// repository. When empty, push events for any repository are acted upon.
	Repository string `envconfig:"REPOSITORY_NAME"`
}

// ConfigFromEnv returns a Config populated from the environment. Unlike most
// configuration loading in this program, this returns an error rather than
// panicking: a missing target must surface as a deterministic configuration
// error to the invoking framework, before any remote call is attempted.
func ConfigFromEnv() (Config, error) {
	cfg := Config{}
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("error processing configuration from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate returns an error if any required target identifier is absent.
func (c Config) Validate() error {
	if c.Cluster == "" {
		return errors.New("missing required environment variable: CLUSTER_NAME")
	}
	if c.Service == "" {
		return errors.New("missing required environment variable: SERVICE_NAME")
	}
	return nil
}
