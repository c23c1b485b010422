package main

import (
	"net/http"
	"net/url"

	"github.com/urfave/cli/v2"
)

var listings = cli.Command{
	Name:  "listings",
	Usage: "list all active listings, optionally filtered by seller",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "seller",
			Usage: "only print the listings of this seller address",
			Value: "",
		},
	},
	Action: listListingsAction,
}

func listListingsAction(c *cli.Context) error {
	path := "/v1/listings"
	if seller := c.String("seller"); len(seller) > 0 {
		path += "?seller=" + url.QueryEscape(seller)
	}

	resp := []map[string]interface{}{}
	if err := daemonRequest(http.MethodGet, path, nil, &resp); err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
