package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/fzft/go-chainset/cmd"
	"github.com/fzft/go-chainset/log"
)

func main() {
	fs := afero.NewOsFs()
	cfg, err := cmd.ParseConfig(fs, os.Args[1:])
	if cmd.IsHelp(err) {
		fmt.Println(err)
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cfg.Version {
		fmt.Println(cmd.Version())
		return
	}

	if err := log.InitLogger(cfg.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Logger.Sync()

	cli, err := cmd.NewCli(cfg, fs, os.Stdout, log.Logger)
	if err != nil {
		log.Logger.Fatal("startup", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := cli.Run(ctx, os.Stdin)
	closeErr := cli.Close()
	if runErr != nil || closeErr != nil {
		log.Logger.Error("shutdown", zap.NamedError("run", runErr), zap.NamedError("close", closeErr))
		os.Exit(1)
	}
}
