package main

import (
	"campo-listings/internal/models"

	"github.com/urfave/cli/v2"
)

func contactCommand() *cli.Command {
	return &cli.Command{
		Name:  "contact",
		Usage: "Send a message to the agency",
		Subcommands: []*cli.Command{
			{
				Name:  "send",
				Usage: "Send a contact request, optionally about one property",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "phone"},
					&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Required: true},
					&cli.StringFlag{Name: "property", Usage: "Property ID the message is about"},
				},
				Action: func(c *cli.Context) error {
					app := getApp(c)
					ack, err := app.Contacts.Submit(c.Context, &models.ContactRequest{
						Name:       c.String("name"),
						Email:      c.String("email"),
						Phone:      c.String("phone"),
						Message:    c.String("message"),
						PropertyID: c.String("property"),
					})
					if err != nil {
						return fail(err)
					}
					return app.printer.Print(ack)
				},
			},
		},
	}
}

func listingCommand() *cli.Command {
	return &cli.Command{
		Name:  "listing",
		Usage: "Ask the agency to publish your land",
		Subcommands: []*cli.Command{
			{
				Name:  "send",
				Usage: "Send a listing request",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Usage: "Owner name", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "phone", Required: true},
					&cli.StringFlag{Name: "region", Required: true},
					&cli.StringFlag{Name: "commune", Required: true},
					&cli.Float64Flag{Name: "hectares", Required: true},
					&cli.StringFlag{Name: "operation", Value: string(models.OperationSale), Usage: "venta or arriendo"},
					&cli.Float64Flag{Name: "price", Usage: "Asking price"},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}},
				},
				Action: func(c *cli.Context) error {
					app := getApp(c)
					ack, err := app.Contacts.SubmitListing(c.Context, &models.ListingRequest{
						OwnerName:   c.String("owner"),
						Email:       c.String("email"),
						Phone:       c.String("phone"),
						Region:      c.String("region"),
						Commune:     c.String("commune"),
						Hectares:    c.Float64("hectares"),
						Operation:   models.Operation(c.String("operation")),
						AskingPrice: c.Float64("price"),
						Description: c.String("description"),
					})
					if err != nil {
						return fail(err)
					}
					return app.printer.Print(ack)
				},
			},
		},
	}
}
