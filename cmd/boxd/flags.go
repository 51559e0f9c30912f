package main

import (
	"fmt"
	"time"

	"github.com/schrodinger-box/boxd/internal/config"
	"github.com/urfave/cli/v2"
)

const (
	urlFlagName        = "url"
	datadirFlagName    = "datadir"
	macaroonFlagName   = "macaroon"
	privateKeyFlagName = "private-key"
	chainIdFlagName    = "chain-id"
	peerIdFlagName     = "peer-id"
	boxIdFlagName      = "box-id"
	recipientFlagName  = "recipient"
	feeFlagName        = "fee"
	amountFlagName     = "amount"
	toFlagName         = "to"
	messageIdFlagName  = "id"
	payerFlagName      = "payer"
	statusFlagName     = "status"

	timeout = 15 * time.Second
)

var (
	urlFlag = &cli.StringFlag{
		Name:  urlFlagName,
		Usage: "the address where to reach the boxd service, in the form host:port",
		Value: fmt.Sprintf("127.0.0.1:%d", config.DefaultPort),
	}
	adminUrlFlag = &cli.StringFlag{
		Name:  urlFlagName,
		Usage: "the address where to reach the boxd admin service, in the form host:port",
		Value: fmt.Sprintf("127.0.0.1:%d", config.DefaultAdminPort),
	}
	datadirFlag = &cli.StringFlag{
		Name:  datadirFlagName,
		Usage: "boxd datadir from where to source the TLS cert if needed",
		Value: config.Datadir.Value,
	}
	macaroonFlag = &cli.StringFlag{
		Name:        macaroonFlagName,
		Usage:       "path of the macaroon used for admin requests",
		DefaultText: "admin.macaroon in the datadir",
	}
	privateKeyFlag = &cli.StringFlag{
		Name:        privateKeyFlagName,
		Usage:       "hex encoded private key of the account signing the requests",
		DefaultText: "value of `BOXD_PRIVATE_KEY`",
	}
	chainIdFlag = &cli.UintFlag{
		Name:     chainIdFlagName,
		Usage:    "the id of the remote chain",
		Required: true,
	}
	peerIdFlag = &cli.StringFlag{
		Name:  peerIdFlagName,
		Usage: "the hex encoded peer id to trust, empty disables the chain",
	}
	boxIdFlag = &cli.StringFlag{
		Name:     boxIdFlagName,
		Usage:    "the id of the box",
		Required: true,
	}
	recipientFlag = &cli.StringFlag{
		Name:  recipientFlagName,
		Usage: "the owner of the box on the destination chain, defaults to the signing account",
	}
	feeFlag = &cli.Uint64Flag{
		Name:  feeFlagName,
		Usage: "the fee to pay, defaults to the quoted one",
	}
	amountFlag = &cli.Uint64Flag{
		Name:  amountFlagName,
		Usage: "the amount to withdraw, 0 withdraws everything",
	}
	toFlag = &cli.StringFlag{
		Name:     toFlagName,
		Usage:    "the account receiving the funds",
		Required: true,
	}
	messageIdFlag = &cli.StringFlag{
		Name:     messageIdFlagName,
		Usage:    "the id of the bridge message",
		Required: true,
	}
	payerFlag = &cli.StringFlag{
		Name:     payerFlagName,
		Usage:    "the account paying the delivery fee",
		Required: true,
	}
	statusFlag = &cli.StringSliceFlag{
		Name:  statusFlagName,
		Usage: "filter messages by delivery status (sent, delivered, failed)",
	}
)
