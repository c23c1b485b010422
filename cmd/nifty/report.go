package main

import (
	"net/http"

	"github.com/urfave/cli/v2"
)

var report = cli.Command{
	Name:   "report",
	Usage:  "print the aggregate sales report of the marketplace",
	Action: reportAction,
}

func reportAction(c *cli.Context) error {
	resp := map[string]interface{}{}
	if err := daemonRequest(
		http.MethodGet, "/v1/report", nil, &resp,
	); err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
