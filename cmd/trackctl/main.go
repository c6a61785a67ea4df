package main

import (
	"context"
	"os"

	"github.com/trackswift/internal/logger"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logger.StdLogger().Printf("trackctl: %v", err)
		os.Exit(1)
	}
}
