package main

import (
	"context"
	"os"

	"github.com/josselin06/Borobo-stage-2025/internal/buildinfo"
	"github.com/josselin06/Borobo-stage-2025/internal/cli"
	"github.com/josselin06/Borobo-stage-2025/internal/config"
	"github.com/josselin06/Borobo-stage-2025/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	log := logging.NewTextLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	app := cli.NewApp(cfg, log)
	app.Run(ctx)

}
