package main

import (
	"context"
	"os"

	"github.com/redeployer/redeployer/internal/logging"
	libOS "github.com/redeployer/redeployer/internal/os"
)

func main() {
	ctx, cancel := libOS.NotifyOnShutdown(context.Background())
	defer cancel()

	if err := Execute(ctx); err != nil {
		logging.LoggerFromContext(ctx).Error(err, "")
		os.Exit(1)
	}
}
