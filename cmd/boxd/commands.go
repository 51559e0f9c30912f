package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
	boxv1 "github.com/schrodinger-box/boxd/api-spec/box/v1"
	"github.com/schrodinger-box/boxd/pkg/auth"
	"github.com/urfave/cli/v2"
)

var (
	versionCmd = &cli.Command{
		Name:  "version",
		Usage: "Display version information",
		Action: func(ctx *cli.Context) error {
			fmt.Printf("boxd version: %s\n", Version)
			return nil
		},
	}

	keygenCmd = &cli.Command{
		Name:  "keygen",
		Usage: "Generate a new account key pair",
		Action: func(ctx *cli.Context) error {
			key, err := btcec.NewPrivateKey()
			if err != nil {
				return err
			}
			return printJSON(map[string]string{
				"private_key": hex.EncodeToString(key.Serialize()),
				"account":     auth.Account(key.PubKey()),
			})
		},
	}

	infoCmd = &cli.Command{
		Name:   "info",
		Usage:  "Get info about the chain served by boxd",
		Flags:  []cli.Flag{urlFlag, datadirFlag},
		Action: info,
	}

	boxCmd = &cli.Command{
		Name:  "box",
		Usage: "Mint, inspect and bridge boxes",
		Subcommands: cli.Commands{
			{
				Name:   "mint",
				Usage:  "Mint a new box paying the minting fee",
				Flags:  []cli.Flag{urlFlag, datadirFlag, privateKeyFlag, feeFlag},
				Action: mintBox,
			},
			{
				Name:   "get",
				Usage:  "Get the details of a box",
				Flags:  []cli.Flag{urlFlag, datadirFlag, boxIdFlag},
				Action: getBox,
			},
			{
				Name:   "list",
				Usage:  "List the boxes owned by the account",
				Flags:  []cli.Flag{urlFlag, datadirFlag, privateKeyFlag},
				Action: listBoxes,
			},
			{
				Name:  "bridge",
				Usage: "Send a box to another chain",
				Flags: []cli.Flag{
					urlFlag, datadirFlag, privateKeyFlag, boxIdFlag, chainIdFlag, recipientFlag, feeFlag,
				},
				Action: bridgeBox,
			},
			{
				Name:   "events",
				Usage:  "Stream box events",
				Flags:  []cli.Flag{urlFlag, datadirFlag, &cli.StringSliceFlag{Name: boxIdFlagName}},
				Action: streamEvents,
			},
		},
	}

	peersCmd = &cli.Command{
		Name:  "peers",
		Usage: "Manage the trusted peers of remote chains",
		Subcommands: cli.Commands{
			{
				Name:   "set",
				Usage:  "Trust the given peer of a remote chain",
				Flags:  []cli.Flag{adminUrlFlag, datadirFlag, macaroonFlag, chainIdFlag, peerIdFlag},
				Action: setPeer,
			},
			{
				Name:   "list",
				Usage:  "List the trusted peers",
				Flags:  []cli.Flag{adminUrlFlag, datadirFlag, macaroonFlag},
				Action: listPeers,
			},
		},
	}

	feesCmd = &cli.Command{
		Name:  "fees",
		Usage: "Manage the collected minting fees",
		Subcommands: cli.Commands{
			{
				Name:   "balance",
				Usage:  "Get the amount of collected fees",
				Flags:  []cli.Flag{adminUrlFlag, datadirFlag, macaroonFlag},
				Action: feeBalance,
			},
			{
				Name:   "withdraw",
				Usage:  "Withdraw the collected fees",
				Flags:  []cli.Flag{adminUrlFlag, datadirFlag, macaroonFlag, toFlag, amountFlag},
				Action: withdrawFees,
			},
		},
	}

	messagesCmd = &cli.Command{
		Name:  "messages",
		Usage: "Inspect and retry outbound bridge messages",
		Subcommands: cli.Commands{
			{
				Name:   "list",
				Usage:  "List the outbound messages",
				Flags:  []cli.Flag{adminUrlFlag, datadirFlag, macaroonFlag, statusFlag},
				Action: listMessages,
			},
			{
				Name:  "resend",
				Usage: "Resend an undelivered message",
				Flags: []cli.Flag{
					adminUrlFlag, datadirFlag, macaroonFlag, messageIdFlag, payerFlag, feeFlag,
				},
				Action: resendMessage,
			},
		},
	}
)

func boxClient(ctx *cli.Context) (boxv1.BoxServiceClient, func(), error) {
	conn, err := getClientConn(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	// nolint:errcheck
	return boxv1.NewBoxServiceClient(conn), func() { conn.Close() }, nil
}

// signedBoxClient returns a client signing every request with the account
// key.
func signedBoxClient(ctx *cli.Context) (boxv1.BoxServiceClient, string, func(), error) {
	key, err := signingKey(ctx)
	if err != nil {
		return nil, "", nil, err
	}
	conn, err := getClientConn(ctx, key)
	if err != nil {
		return nil, "", nil, err
	}
	// nolint:errcheck
	return boxv1.NewBoxServiceClient(conn), auth.Account(key.PubKey()), func() { conn.Close() }, nil
}

func adminClient(ctx *cli.Context) (boxv1.AdminServiceClient, func(), error) {
	conn, err := getClientConn(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	// nolint:errcheck
	return boxv1.NewAdminServiceClient(conn), func() { conn.Close() }, nil
}

func info(ctx *cli.Context) error {
	client, closeFn, err := boxClient(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	reqCtx, cancel := context.WithTimeout(ctx.Context, timeout)
	defer cancel()

	resp, err := client.GetInfo(reqCtx, &boxv1.Empty{})
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func mintBox(ctx *cli.Context) error {
	client, _, closeFn, err := signedBoxClient(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	reqCtx, cancel := context.WithTimeout(ctx.Context, timeout)
	defer cancel()

	fee := ctx.Uint64(feeFlagName)
	if fee == 0 {
		infoResp, err := client.GetInfo(reqCtx, &boxv1.Empty{})
		if err != nil {
			return err
		}
		fee = infoResp.MintingFee
	}

	resp, err := client.Mint(reqCtx, &boxv1.MintRequest{FeePaid: fee})
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func getBox(ctx *cli.Context) error {
	client, closeFn, err := boxClient(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	reqCtx, cancel := context.WithTimeout(ctx.Context, timeout)
	defer cancel()

	resp, err := client.GetBox(reqCtx, &boxv1.GetBoxRequest{BoxId: ctx.String(boxIdFlagName)})
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func listBoxes(ctx *cli.Context) error {
	client, _, closeFn, err := signedBoxClient(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	reqCtx, cancel := context.WithTimeout(ctx.Context, timeout)
	defer cancel()

	resp, err := client.ListBoxes(reqCtx, &boxv1.ListBoxesRequest{})
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func bridgeBox(ctx *cli.Context) error {
	client, account, closeFn, err := signedBoxClient(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	reqCtx, cancel := context.WithTimeout(ctx.Context, timeout)
	defer cancel()

	destination := uint32(ctx.Uint(chainIdFlagName))
	fee := ctx.Uint64(feeFlagName)
	if fee == 0 {
		quote, err := client.QuoteFee(reqCtx, &boxv1.QuoteFeeRequest{
			DestinationChainId: destination,
		})
		if err != nil {
			return err
		}
		fee = quote.Fee
	}

	recipient := ctx.String(recipientFlagName)
	if recipient == "" {
		recipient = account
	}

	resp, err := client.Bridge(reqCtx, &boxv1.BridgeRequest{
		BoxId:              ctx.String(boxIdFlagName),
		DestinationChainId: destination,
		Recipient:          recipient,
		FeePaid:            fee,
	})
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func streamEvents(ctx *cli.Context) error {
	client, closeFn, err := boxClient(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	stream, err := client.GetEventStream(ctx.Context, &boxv1.GetEventStreamRequest{
		BoxIds: ctx.StringSlice(boxIdFlagName),
	})
	if err != nil {
		return err
	}

	for {
		resp, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if resp.Event == nil {
			continue
		}
		if err := printJSON(resp.Event); err != nil {
			return err
		}
	}
}

func setPeer(ctx *cli.Context) error {
	client, closeFn, err := adminClient(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	reqCtx, cancel, err := adminContext(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	if _, err := client.SetPeer(reqCtx, &boxv1.SetPeerRequest{
		ChainId: uint32(ctx.Uint(chainIdFlagName)),
		PeerId:  ctx.String(peerIdFlagName),
	}); err != nil {
		return err
	}

	fmt.Println("peer updated")
	return nil
}

func listPeers(ctx *cli.Context) error {
	client, closeFn, err := adminClient(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	reqCtx, cancel, err := adminContext(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	resp, err := client.ListPeers(reqCtx, &boxv1.Empty{})
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func feeBalance(ctx *cli.Context) error {
	client, closeFn, err := adminClient(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	reqCtx, cancel, err := adminContext(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	resp, err := client.GetFeeBalance(reqCtx, &boxv1.Empty{})
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func withdrawFees(ctx *cli.Context) error {
	client, closeFn, err := adminClient(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	reqCtx, cancel, err := adminContext(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	resp, err := client.WithdrawFees(reqCtx, &boxv1.WithdrawFeesRequest{
		To:     ctx.String(toFlagName),
		Amount: ctx.Uint64(amountFlagName),
	})
	if err != nil {
		return err
	}

	fmt.Printf("withdrawn %d to %s\n", resp.Amount, ctx.String(toFlagName))
	return nil
}

func listMessages(ctx *cli.Context) error {
	client, closeFn, err := adminClient(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	reqCtx, cancel, err := adminContext(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	resp, err := client.ListOutboundMessages(reqCtx, &boxv1.ListOutboundMessagesRequest{
		Statuses: ctx.StringSlice(statusFlagName),
	})
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func resendMessage(ctx *cli.Context) error {
	client, closeFn, err := adminClient(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	reqCtx, cancel, err := adminContext(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	if _, err := client.ResendBridgeMessage(reqCtx, &boxv1.ResendBridgeMessageRequest{
		MessageId: ctx.String(messageIdFlagName),
		Payer:     ctx.String(payerFlagName),
		FeePaid:   ctx.Uint64(feeFlagName),
	}); err != nil {
		return err
	}

	fmt.Println("message resent")
	return nil
}
