package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/schrodinger-box/boxd/internal/config"
	grpcservice "github.com/schrodinger-box/boxd/internal/interface/grpc"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// Version will be set during build time
var Version string

func mainAction(ctx *cli.Context) error {
	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		return fmt.Errorf("invalid config: %s", err)
	}

	log.SetLevel(log.Level(cfg.LogLevel))

	svcConfig := grpcservice.Config{
		Datadir:           cfg.Datadir,
		Port:              cfg.Port,
		AdminPort:         cfg.AdminPort,
		NoTLS:             cfg.NoTLS,
		TLSExtraIPs:       cfg.TLSExtraIPs,
		TLSExtraDomains:   cfg.TLSExtraDomains,
		NoMacaroons:       cfg.NoMacaroons,
		HeartbeatInterval: cfg.HeartbeatInterval,
		EnablePprof:       cfg.EnablePprof,

		OtelCollectorEndpoint: cfg.OtelCollectorEndpoint,
		OtelPushInterval:      cfg.OtelPushInterval,
	}

	svc, err := grpcservice.NewService(Version, svcConfig, cfg)
	if err != nil {
		return err
	}

	log.Infof("boxd config: %s", cfg)

	log.Info("starting service...")
	if err := svc.Start(); err != nil {
		return err
	}

	log.RegisterExitHandler(svc.Stop)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(
		sigChan, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGHUP, os.Interrupt,
	)
	<-sigChan

	log.Info("shutting down service...")
	log.Exit(0)

	return nil
}

func main() {
	app := cli.NewApp()
	app.Version = Version
	app.Name = "boxd"
	app.Usage = "cross-chain box escrow daemon"
	app.UsageText = "Run the boxd daemon or manage a running one"
	app.Commands = append(app.Commands, versionCmd, keygenCmd, infoCmd, boxCmd, peersCmd, feesCmd, messagesCmd)
	app.Flags = config.Flags
	app.Action = mainAction

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
