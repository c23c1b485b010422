package main

import (
	"net/http"
	"net/url"

	"github.com/urfave/cli/v2"
)

var purchases = cli.Command{
	Name:  "purchases",
	Usage: "list all settled purchases, optionally filtered by asset or seller",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "asset",
			Usage: "only print the purchases of this asset contract",
			Value: "",
		},
		&cli.StringFlag{
			Name:  "seller",
			Usage: "only print the sales settled by this seller address",
			Value: "",
		},
	},
	Action: listPurchasesAction,
}

func listPurchasesAction(c *cli.Context) error {
	path := "/v1/purchases"
	if asset := c.String("asset"); len(asset) > 0 {
		path += "?asset=" + url.QueryEscape(asset)
	} else if seller := c.String("seller"); len(seller) > 0 {
		path += "?seller=" + url.QueryEscape(seller)
	}

	resp := []map[string]interface{}{}
	if err := daemonRequest(http.MethodGet, path, nil, &resp); err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
