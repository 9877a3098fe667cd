package main

import (
	"context"
	"os"

	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
)

const appName string = "tenantctl"

func main() {
	appVersion := buildinfo.SourceVersion()

	ctx, log, cleanup := o11y.Init(context.Background(), appName, appVersion, "json")
	defer cleanup()

	cmd := NewRootCommand()
	cmd.Version = appVersion

	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Error("command failed", "err", err.Error())
		os.Exit(1)
	}
}
