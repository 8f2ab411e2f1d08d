package main

import (
	"context"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/mdtree/internal/cli"
	"github.com/temirov/mdtree/internal/utils"
)

func main() {
	logger, level := utils.NewApplicationLogger(zapcore.Lock(os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	executionError := cli.Execute(ctx, logger, level)
	stop()
	if executionError != nil {
		logger.Fatal(utils.ApplicationExecutionFailedMessage, zap.Error(executionError))
	}
	_ = logger.Sync()
}
