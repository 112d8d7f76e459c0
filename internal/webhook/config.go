package webhook

import (
	"time"

	"github.com/kelseyhightower/envconfig"

	libOS "github.com/redeployer/redeployer/internal/os"
)

type ServerConfig struct {
	// Token, when non-empty, must be presented by event deliveries in the
	// Authorization header.
	Token string `envconfig:"WEBHOOK_TOKEN"`
	// MaxBodyBytes bounds the size of an accepted event payload.
	MaxBodyBytes            int64         `envconfig:"MAX_BODY_BYTES" default:"2097152"`
	GracefulShutdownTimeout time.Duration `envconfig:"GRACEFUL_SHUTDOWN_TIMEOUT" default:"30s"`
	TLSConfig               *TLSConfig    `ignored:"true"`
}

type TLSConfig struct {
	CertPath string `envconfig:"TLS_CERT_PATH" required:"true"`
	KeyPath  string `envconfig:"TLS_KEY_PATH" required:"true"`
}

func ServerConfigFromEnv() ServerConfig {
	cfg := ServerConfig{}
	envconfig.MustProcess("", &cfg)
	if libOS.MustGetEnvAsBool("TLS_ENABLED", false) {
		tlsCfg := TLSConfig{}
		envconfig.MustProcess("", &tlsCfg)
		cfg.TLSConfig = &tlsCfg
	}
	return cfg
}
