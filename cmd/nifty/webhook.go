package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/urfave/cli/v2"
)

var eventFlag = cli.StringFlag{
	Name: "event",
	Usage: "the target event: LISTING_CREATED, LISTING_CANCELED, " +
		"LISTING_UPDATED, LISTING_PURCHASED or * for any event",
	Value: "*",
}

var (
	webhook = cli.Command{
		Name:  "webhook",
		Usage: "add or remove webhooks",
		Subcommands: []*cli.Command{
			webhookAddCmd, webhookRemoveCmd,
		},
	}
	listwebhooks = cli.Command{
		Name:  "webhooks",
		Usage: "list all webhooks, optionally filtered by target event",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "event",
				Usage: "only print the webhooks subscribed for this event",
				Value: "",
			},
		},
		Action: listWebhooksAction,
	}

	webhookAddCmd = &cli.Command{
		Name:  "add",
		Usage: "add a (secured) webhook endpoint called whenever a target event occurs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "endpoint",
				Usage:    "the webhook endpoint to be called whenever the target event occurs",
				Required: true,
			},
			&cli.StringFlag{
				Name: "secret",
				Usage: "the eventual secret to use to sign the requests to the " +
					"webhook endpoint, autogenerated when empty",
				Value: "",
			},
			&eventFlag,
		},
		Action: addWebhookAction,
	}

	webhookRemoveCmd = &cli.Command{
		Name:  "remove",
		Usage: "remove a webhook",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "id",
				Usage:    "the id of the webhook to remove",
				Required: true,
			},
		},
		Action: removeWebhookAction,
	}
)

func addWebhookAction(c *cli.Context) error {
	body := map[string]interface{}{
		"event":    c.String("event"),
		"endpoint": c.String("endpoint"),
		"secret":   c.String("secret"),
	}

	resp := map[string]string{}
	if err := daemonRequest(
		http.MethodPost, "/v1/webhooks", body, &resp,
	); err != nil {
		return err
	}

	fmt.Println(resp["id"])
	return nil
}

func removeWebhookAction(c *cli.Context) error {
	if err := daemonRequest(
		http.MethodDelete, "/v1/webhooks/"+c.String("id"), nil, nil,
	); err != nil {
		return err
	}

	fmt.Println("webhook removed")
	return nil
}

func listWebhooksAction(c *cli.Context) error {
	path := "/v1/webhooks"
	if event := c.String("event"); len(event) > 0 {
		path += "?event=" + url.QueryEscape(event)
	}

	resp := []map[string]interface{}{}
	if err := daemonRequest(http.MethodGet, path, nil, &resp); err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
