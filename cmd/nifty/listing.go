package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var (
	assetFlag = cli.StringFlag{
		Name:     "asset",
		Usage:    "the asset contract address of the token",
		Required: true,
	}

	tokenFlag = cli.Uint64Flag{
		Name:     "token",
		Usage:    "the token id within the asset contract",
		Required: true,
	}
)

var listing = cli.Command{
	Name:  "listing",
	Usage: "manage a single listing of the marketplace",
	Subcommands: []*cli.Command{
		listingCreateCmd,
		listingGetCmd,
		listingUpdateCmd,
		listingCancelCmd,
		listingPurchaseCmd,
	},
}

var listingCreateCmd = &cli.Command{
	Name:  "create",
	Usage: "list a token for sale at a fixed price",
	Flags: []cli.Flag{
		&assetFlag,
		&tokenFlag,
		&cli.Uint64Flag{
			Name:     "price",
			Usage:    "the sale price of the token",
			Required: true,
		},
	},
	Action: listingCreateAction,
}

var listingGetCmd = &cli.Command{
	Name:   "get",
	Usage:  "print the active listing of a token",
	Flags:  []cli.Flag{&assetFlag, &tokenFlag},
	Action: listingGetAction,
}

var listingUpdateCmd = &cli.Command{
	Name:  "update",
	Usage: "change the price of an active listing",
	Flags: []cli.Flag{
		&assetFlag,
		&tokenFlag,
		&cli.Uint64Flag{
			Name:     "price",
			Usage:    "the new sale price of the token",
			Required: true,
		},
	},
	Action: listingUpdateAction,
}

var listingCancelCmd = &cli.Command{
	Name:   "cancel",
	Usage:  "remove an active listing from sale",
	Flags:  []cli.Flag{&assetFlag, &tokenFlag},
	Action: listingCancelAction,
}

var listingPurchaseCmd = &cli.Command{
	Name:  "purchase",
	Usage: "buy a listed token at its asking price",
	Flags: []cli.Flag{
		&assetFlag,
		&tokenFlag,
		&cli.Uint64Flag{
			Name:     "payment",
			Usage:    "the amount paid, must match the asking price",
			Required: true,
		},
	},
	Action: listingPurchaseAction,
}

func listingPath(c *cli.Context) string {
	return fmt.Sprintf("/v1/listings/%s/%d", c.String("asset"), c.Uint64("token"))
}

func listingCreateAction(c *cli.Context) error {
	caller, err := getCallerFromState()
	if err != nil {
		return err
	}

	body := map[string]interface{}{
		"asset_contract": c.String("asset"),
		"token_id":       c.Uint64("token"),
		"price":          c.Uint64("price"),
		"caller":         caller,
	}
	if err := daemonRequest(
		http.MethodPost, "/v1/listings", body, nil,
	); err != nil {
		return err
	}

	fmt.Println("listing created")
	return nil
}

func listingGetAction(c *cli.Context) error {
	resp := map[string]interface{}{}
	if err := daemonRequest(
		http.MethodGet, listingPath(c), nil, &resp,
	); err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func listingUpdateAction(c *cli.Context) error {
	caller, err := getCallerFromState()
	if err != nil {
		return err
	}

	body := map[string]interface{}{
		"new_price": c.Uint64("price"),
		"caller":    caller,
	}
	if err := daemonRequest(
		http.MethodPut, listingPath(c), body, nil,
	); err != nil {
		return err
	}

	fmt.Println("listing updated")
	return nil
}

func listingCancelAction(c *cli.Context) error {
	caller, err := getCallerFromState()
	if err != nil {
		return err
	}

	if err := daemonRequest(
		http.MethodDelete, listingPath(c)+"?caller="+caller, nil, nil,
	); err != nil {
		return err
	}

	fmt.Println("listing canceled")
	return nil
}

func listingPurchaseAction(c *cli.Context) error {
	buyer, err := getCallerFromState()
	if err != nil {
		return err
	}

	body := map[string]interface{}{
		"payment": c.Uint64("payment"),
		"buyer":   buyer,
	}
	if err := daemonRequest(
		http.MethodPost, listingPath(c)+"/purchase", body, nil,
	); err != nil {
		return err
	}

	fmt.Println("purchase settled")
	return nil
}
