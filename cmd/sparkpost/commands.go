package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/urfave/cli/v2"

	"github.com/shineum/sparkpost-lite/internal/config"
	"github.com/shineum/sparkpost-lite/internal/email"
	"github.com/shineum/sparkpost-lite/internal/parser"
	"github.com/shineum/sparkpost-lite/internal/provider"
	"github.com/shineum/sparkpost-lite/internal/provider/sparkpostapi"
	"github.com/shineum/sparkpost-lite/internal/provider/stdout"
	"github.com/shineum/sparkpost-lite/sparkpost"
)

// apiFunc performs one API call with the command's arguments.
type apiFunc func(ctx context.Context, c *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error)

// run adapts an apiFunc into a command action that prints the response.
func (a *cliApp) run(fn apiFunc) cli.ActionFunc {
	return func(c *cli.Context) error {
		client, err := a.apiClient()
		if err != nil {
			return err
		}

		resp, err := fn(c.Context, c, client)
		if err != nil {
			return err
		}
		return a.printResponse(resp)
	}
}

func (a *cliApp) printResponse(resp *sparkpost.Response) error {
	if d := resp.Debug; d != nil {
		slog.Debug("sparkpost response",
			"method", d.Method,
			"url", d.URL,
			"status", d.Status,
			"request_id", d.ResponseHeaders.Get("X-Request-Id"),
		)
	}

	if len(resp.Body) == 0 {
		return nil
	}
	return a.printJSON(resp.Body)
}

func (a *cliApp) printJSON(raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	buf.WriteByte('\n')
	_, err := a.out.Write(buf.Bytes())
	return err
}

func (a *cliApp) commands() []*cli.Command {
	return []*cli.Command{
		a.sendCommand(),
		a.transmissionsCommand(),
		a.templatesCommand(),
		a.webhooksCommand(),
		a.sendingDomainsCommand(),
		{
			Name:  "inbound-domains",
			Usage: "inspect inbound domains",
			Subcommands: []*cli.Command{
				{Name: "list", Usage: "list inbound domains", Action: a.run(func(ctx context.Context, _ *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
					return client.InboundDomains.List(ctx)
				})},
				{Name: "get", Usage: "get an inbound domain", ArgsUsage: "DOMAIN", Action: a.run(func(ctx context.Context, c *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
					return client.InboundDomains.Get(ctx, c.Args().First())
				})},
			},
		},
		{
			Name:  "relay-webhooks",
			Usage: "inspect relay webhooks",
			Subcommands: []*cli.Command{
				{Name: "list", Usage: "list relay webhooks", Action: a.run(func(ctx context.Context, _ *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
					return client.RelayWebhooks.List(ctx)
				})},
				{Name: "get", Usage: "get a relay webhook", ArgsUsage: "ID", Action: a.run(func(ctx context.Context, c *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
					return client.RelayWebhooks.Get(ctx, c.Args().First())
				})},
			},
		},
		{
			Name:  "recipient-lists",
			Usage: "inspect stored recipient lists",
			Subcommands: []*cli.Command{
				{Name: "list", Usage: "list recipient lists", Action: a.run(func(ctx context.Context, _ *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
					return client.RecipientLists.List(ctx)
				})},
				{
					Name:      "get",
					Usage:     "get a recipient list",
					ArgsUsage: "ID",
					Flags: []cli.Flag{
						&cli.BoolFlag{Name: "show-recipients", Usage: "include the recipients"},
					},
					Action: a.run(func(ctx context.Context, c *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
						return client.RecipientLists.Get(ctx, c.Args().First(), &sparkpost.RecipientListGetOptions{
							ShowRecipients: boolFlag(c, "show-recipients"),
						})
					}),
				},
			},
		},
		{
			Name:  "subaccounts",
			Usage: "inspect subaccounts",
			Subcommands: []*cli.Command{
				{Name: "list", Usage: "list subaccounts", Action: a.run(func(ctx context.Context, _ *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
					return client.Subaccounts.List(ctx)
				})},
				{Name: "get", Usage: "get a subaccount", ArgsUsage: "ID", Action: a.run(func(ctx context.Context, c *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
					return client.Subaccounts.Get(ctx, c.Args().First())
				})},
			},
		},
		{
			Name:  "suppression-list",
			Usage: "inspect and edit the suppression list",
			Subcommands: []*cli.Command{
				{Name: "list", Usage: "search the suppression list", ArgsUsage: "[KEY=VALUE...]", Action: a.run(func(ctx context.Context, c *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
					params, err := parseParams(c.Args().Slice())
					if err != nil {
						return nil, err
					}
					return client.SuppressionList.List(ctx, params)
				})},
				{Name: "get", Usage: "get the suppression status of an address", ArgsUsage: "EMAIL", Action: a.run(func(ctx context.Context, c *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
					return client.SuppressionList.Get(ctx, c.Args().First())
				})},
				{Name: "delete", Usage: "remove an address from the suppression list", ArgsUsage: "EMAIL", Action: a.run(func(ctx context.Context, c *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
					return client.SuppressionList.Delete(ctx, c.Args().First())
				})},
			},
		},
		{
			Name:  "events",
			Usage: "search message events",
			Subcommands: []*cli.Command{
				{Name: "search", Usage: "search events/message", ArgsUsage: "[KEY=VALUE...]", Action: a.run(func(ctx context.Context, c *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
					params, err := parseParams(c.Args().Slice())
					if err != nil {
						return nil, err
					}
					return client.Events.SearchMessage(ctx, params)
				})},
			},
		},
		{
			Name:  "message-events",
			Usage: "search the legacy message-events endpoint",
			Subcommands: []*cli.Command{
				{Name: "search", Usage: "search message-events", ArgsUsage: "[KEY=VALUE...]", Action: a.run(func(ctx context.Context, c *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
					params, err := parseParams(c.Args().Slice())
					if err != nil {
						return nil, err
					}
					return client.MessageEvents.Search(ctx, params)
				})},
			},
		},
	}
}

func (a *cliApp) sendCommand() *cli.Command {
	return &cli.Command{
		Name:  "send",
		Usage: "send a message built from flags",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "sender address, defaults to SPARKPOST_FROM"},
			&cli.StringSliceFlag{Name: "to", Usage: "recipient address (repeatable)"},
			&cli.StringSliceFlag{Name: "cc", Usage: "carbon-copy address (repeatable)"},
			&cli.StringSliceFlag{Name: "bcc", Usage: "blind-copy address (repeatable)"},
			&cli.StringFlag{Name: "reply-to", Usage: "Reply-To address"},
			&cli.StringFlag{Name: "subject", Usage: "message subject"},
			&cli.StringFlag{Name: "text", Usage: "plain text body"},
			&cli.StringFlag{Name: "html", Usage: "HTML body"},
			&cli.StringSliceFlag{Name: "header", Usage: "extra header as NAME=VALUE (repeatable)"},
			&cli.StringSliceFlag{Name: "tag", Usage: "recipient tag (repeatable)"},
			&cli.StringSliceFlag{Name: "attach", Usage: "file to attach (repeatable)"},
			&cli.StringFlag{Name: "eml", Usage: "RFC 5322 message file to send; other flags override its fields"},
			&cli.StringFlag{Name: "campaign", Usage: "campaign id, defaults to SPARKPOST_CAMPAIGN_ID"},
			&cli.BoolFlag{Name: "sandbox", Usage: "send through the sandbox domain"},
			&cli.BoolFlag{Name: "dry-run", Usage: "print the payload instead of sending"},
		},
		Action: a.send,
	}
}

func (a *cliApp) send(c *cli.Context) error {
	msg, err := buildMessage(c)
	if err != nil {
		return err
	}

	opts := provider.Options{
		From:       a.cfg.Sender.From,
		CampaignID: a.cfg.Sender.CampaignID,
		Sandbox:    a.cfg.Sender.Sandbox,
	}
	if c.IsSet("campaign") {
		opts.CampaignID = c.String("campaign")
	}
	if c.IsSet("sandbox") {
		opts.Sandbox = c.Bool("sandbox")
	}

	prov, err := a.selectProvider(c.Bool("dry-run"), opts)
	if err != nil {
		return err
	}

	slog.Debug("sending message",
		"provider", prov.Name(),
		"to", len(msg.To),
		"cc", len(msg.Cc),
		"bcc", len(msg.Bcc),
	)

	id, err := prov.Send(c.Context, msg)
	if err != nil {
		return err
	}
	if id == "" {
		return nil
	}

	out, err := json.Marshal(map[string]string{"id": id})
	if err != nil {
		return err
	}
	return a.printJSON(out)
}

// buildMessage assembles the message from --eml, if given, and the
// message flags. Set flags replace the corresponding parsed fields.
func buildMessage(c *cli.Context) (*email.Email, error) {
	msg := &email.Email{}
	if path := c.String("eml"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read message file: %w", err)
		}
		if msg, err = parser.Parse(raw); err != nil {
			return nil, err
		}
	}

	for name, field := range map[string]*string{
		"from":     &msg.From,
		"reply-to": &msg.ReplyTo,
		"subject":  &msg.Subject,
		"text":     &msg.TextBody,
		"html":     &msg.HtmlBody,
	} {
		if c.IsSet(name) {
			*field = c.String(name)
		}
	}
	for name, field := range map[string]*[]string{
		"to":  &msg.To,
		"cc":  &msg.Cc,
		"bcc": &msg.Bcc,
		"tag": &msg.Tags,
	} {
		if c.IsSet(name) {
			*field = c.StringSlice(name)
		}
	}

	for _, h := range c.StringSlice("header") {
		name, value, ok := strings.Cut(h, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q: expected NAME=VALUE", h)
		}
		if msg.Headers == nil {
			msg.Headers = make(map[string]string)
		}
		msg.Headers[name] = value
	}

	for _, path := range c.StringSlice("attach") {
		att, err := readAttachment(path)
		if err != nil {
			return nil, err
		}
		msg.Attachments = append(msg.Attachments, att)
	}

	return msg, nil
}

// selectProvider chooses the delivery backend. A dry run always prints.
func (a *cliApp) selectProvider(dryRun bool, opts provider.Options) (provider.Provider, error) {
	if dryRun || a.cfg.Provider == config.ProviderStdout {
		return stdout.NewWithWriter(a.out, opts), nil
	}

	client, err := a.apiClient()
	if err != nil {
		return nil, err
	}
	return sparkpostapi.New(client, opts), nil
}

func (a *cliApp) transmissionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "transmissions",
		Usage: "list, inspect and send transmissions",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list scheduled transmissions",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "campaign-id", Usage: "filter by campaign"},
					&cli.StringFlag{Name: "template-id", Usage: "filter by template"},
				},
				Action: a.run(func(ctx context.Context, c *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
					return client.Transmissions.List(ctx, &sparkpost.TransmissionListOptions{
						CampaignID: c.String("campaign-id"),
						TemplateID: c.String("template-id"),
					})
				}),
			},
			{
				Name:      "get",
				Usage:     "get a transmission",
				ArgsUsage: "ID",
				Action: a.run(func(ctx context.Context, c *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
					return client.Transmissions.Get(ctx, c.Args().First())
				}),
			},
			{
				Name:  "send",
				Usage: "send a transmission read from a JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "transmission JSON file"},
					&cli.IntFlag{Name: "num-rcpt-errors", Usage: "maximum recipient errors to return"},
				},
				Action: a.run(func(ctx context.Context, c *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
					var t *sparkpost.Transmission
					if path := c.String("file"); path != "" {
						t = &sparkpost.Transmission{}
						if err := readJSONFile(path, t); err != nil {
							return nil, err
						}
					}

					var opts *sparkpost.TransmissionSendOptions
					if c.IsSet("num-rcpt-errors") {
						n := c.Int("num-rcpt-errors")
						opts = &sparkpost.TransmissionSendOptions{NumRcptErrors: &n}
					}
					return client.Transmissions.Send(ctx, t, opts)
				}),
			},
		},
	}
}

func (a *cliApp) templatesCommand() *cli.Command {
	return &cli.Command{
		Name:  "templates",
		Usage: "manage stored templates",
		Subcommands: []*cli.Command{
			{Name: "list", Usage: "list templates", Action: a.run(func(ctx context.Context, _ *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
				return client.Templates.List(ctx)
			})},
			{
				Name:      "get",
				Usage:     "get a template",
				ArgsUsage: "ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "draft", Usage: "get the draft version"},
				},
				Action: a.run(func(ctx context.Context, c *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
					return client.Templates.Get(ctx, c.Args().First(), &sparkpost.TemplateGetOptions{
						Draft: boolFlag(c, "draft"),
					})
				}),
			},
			{
				Name:      "preview",
				Usage:     "render a template with substitution data",
				ArgsUsage: "ID",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "JSON file with substitution_data"},
					&cli.BoolFlag{Name: "draft", Usage: "preview the draft version"},
				},
				Action: a.run(func(ctx context.Context, c *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
					body := map[string]any{}
					if path := c.String("file"); path != "" {
						if err := readJSONFile(path, &body); err != nil {
							return nil, err
						}
					}
					if c.IsSet("draft") {
						body["draft"] = c.Bool("draft")
					}
					return client.Templates.Preview(ctx, c.Args().First(), body)
				}),
			},
			{Name: "delete", Usage: "delete a template", ArgsUsage: "ID", Action: a.run(func(ctx context.Context, c *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
				return client.Templates.Delete(ctx, c.Args().First())
			})},
		},
	}
}

func (a *cliApp) webhooksCommand() *cli.Command {
	return &cli.Command{
		Name:  "webhooks",
		Usage: "manage event webhooks",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list webhooks",
				Flags: []cli.Flag{timezoneFlag()},
				Action: a.run(func(ctx context.Context, c *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
					return client.Webhooks.List(ctx, &sparkpost.WebhookListOptions{Timezone: c.String("timezone")})
				}),
			},
			{
				Name:      "get",
				Usage:     "get a webhook",
				ArgsUsage: "ID",
				Flags:     []cli.Flag{timezoneFlag()},
				Action: a.run(func(ctx context.Context, c *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
					return client.Webhooks.Get(ctx, c.Args().First(), &sparkpost.WebhookListOptions{Timezone: c.String("timezone")})
				}),
			},
			{Name: "delete", Usage: "delete a webhook", ArgsUsage: "ID", Action: a.run(func(ctx context.Context, c *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
				return client.Webhooks.Delete(ctx, c.Args().First())
			})},
			{
				Name:      "validate",
				Usage:     "send a test message to a webhook target",
				ArgsUsage: "ID",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "JSON file with the message to send"},
				},
				Action: a.run(func(ctx context.Context, c *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
					var opts sparkpost.WebhookValidateOptions
					if path := c.String("file"); path != "" {
						if err := readJSONFile(path, &opts.Message); err != nil {
							return nil, err
						}
					}
					return client.Webhooks.Validate(ctx, c.Args().First(), opts)
				}),
			},
			{
				Name:      "batch-status",
				Usage:     "get recent batch delivery status",
				ArgsUsage: "ID",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "maximum number of results"},
				},
				Action: a.run(func(ctx context.Context, c *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
					return client.Webhooks.GetBatchStatus(ctx, c.Args().First(), &sparkpost.WebhookBatchStatusOptions{Limit: c.Int("limit")})
				}),
			},
			{Name: "documentation", Usage: "list event types and their fields", Action: a.run(func(ctx context.Context, _ *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
				return client.Webhooks.GetDocumentation(ctx)
			})},
			{
				Name:  "samples",
				Usage: "get sample event payloads",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "events", Usage: "event types to include (repeatable)"},
				},
				Action: a.run(func(ctx context.Context, c *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
					return client.Webhooks.GetSamples(ctx, &sparkpost.WebhookSamplesOptions{Events: c.StringSlice("events")})
				}),
			},
		},
	}
}

func (a *cliApp) sendingDomainsCommand() *cli.Command {
	return &cli.Command{
		Name:  "sending-domains",
		Usage: "inspect and verify sending domains",
		Subcommands: []*cli.Command{
			{Name: "list", Usage: "list sending domains", Action: a.run(func(ctx context.Context, _ *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
				return client.SendingDomains.List(ctx)
			})},
			{Name: "get", Usage: "get a sending domain", ArgsUsage: "DOMAIN", Action: a.run(func(ctx context.Context, c *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
				return client.SendingDomains.Get(ctx, c.Args().First())
			})},
			{
				Name:      "verify",
				Usage:     "verify DNS records of a sending domain",
				ArgsUsage: "DOMAIN",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "dkim-verify", Usage: "verify the DKIM record"},
					&cli.BoolFlag{Name: "spf-verify", Usage: "verify the SPF record"},
					&cli.BoolFlag{Name: "cname-verify", Usage: "verify the bounce domain CNAME"},
				},
				Action: a.run(func(ctx context.Context, c *cli.Context, client *sparkpost.Client) (*sparkpost.Response, error) {
					var body map[string]any
					for _, name := range []string{"dkim-verify", "spf-verify", "cname-verify"} {
						if !c.IsSet(name) {
							continue
						}
						if body == nil {
							body = make(map[string]any)
						}
						body[strings.ReplaceAll(name, "-", "_")] = c.Bool(name)
					}
					return client.SendingDomains.Verify(ctx, c.Args().First(), body)
				}),
			},
		},
	}
}

func timezoneFlag() cli.Flag {
	return &cli.StringFlag{Name: "timezone", Usage: "timezone for last_successful and last_failure"}
}

// parseParams converts KEY=VALUE arguments into query parameters.
func parseParams(args []string) (map[string]any, error) {
	if len(args) == 0 {
		return nil, nil
	}

	params := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected KEY=VALUE", arg)
		}
		params[key] = value
	}
	return params, nil
}

// boolFlag returns a pointer to the flag's value, or nil when it was not set.
func boolFlag(c *cli.Context, name string) *bool {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Bool(name)
	return &v
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func readAttachment(path string) (email.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return email.Attachment{}, fmt.Errorf("failed to read attachment: %w", err)
	}
	return email.Attachment{
		Filename:    filepath.Base(path),
		ContentType: mimetype.Detect(data).String(),
		Content:     data,
	}, nil
}
