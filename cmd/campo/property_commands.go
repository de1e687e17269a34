package main

import (
	"fmt"
	"os"
	"path/filepath"

	"campo-listings/internal/models"
	"campo-listings/internal/services"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func propertiesCommand() *cli.Command {
	return &cli.Command{
		Name:    "properties",
		Aliases: []string{"props"},
		Usage:   "Browse and manage listings",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List published properties",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Free text search"},
					&cli.StringFlag{Name: "operation", Usage: "venta or arriendo"},
					&cli.StringSliceFlag{Name: "region", Aliases: []string{"r"}, Usage: "Region (repeatable)"},
					&cli.StringSliceFlag{Name: "type", Aliases: []string{"t"}, Usage: "Property type (repeatable)"},
					&cli.Float64Flag{Name: "min-price", Usage: "Minimum price"},
					&cli.Float64Flag{Name: "max-price", Usage: "Maximum price"},
					&cli.Float64Flag{Name: "min-hectares", Usage: "Minimum surface in hectares"},
					&cli.Float64Flag{Name: "max-hectares", Usage: "Maximum surface in hectares"},
					&cli.BoolFlag{Name: "featured", Usage: "Only featured (or, with --featured=false, non featured) listings"},
					&cli.IntFlag{Name: "page", Value: 1, Usage: "Page number"},
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "Page size (max 100)"},
					&cli.StringFlag{Name: "sort", Usage: "price, -price, hectares, -hectares, created_at or -created_at"},
				},
				Action: propertiesList,
			},
			{
				Name:  "featured",
				Usage: "List featured properties",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: services.DefaultFeaturedLimit, Usage: "How many to show"},
				},
				Action: func(c *cli.Context) error {
					app := getApp(c)
					props, err := app.Properties.Featured(c.Context, c.Int("limit"))
					if err != nil {
						return fail(err)
					}
					return app.printer.Print(props)
				},
			},
			{
				Name:      "get",
				Usage:     "Show one property",
				ArgsUsage: "PROPERTY_ID",
				Action: func(c *cli.Context) error {
					id, err := requireArg(c, "PROPERTY_ID")
					if err != nil {
						return err
					}
					app := getApp(c)
					p, err := app.Properties.Get(c.Context, id)
					if err != nil {
						return fail(err)
					}
					return app.printer.Print(p)
				},
			},
			{
				Name:  "create",
				Usage: "Publish a property described in a YAML or JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Property file", Required: true},
				},
				Action: propertiesCreate,
			},
			{
				Name:      "update",
				Usage:     "Replace a property with the contents of a YAML or JSON file",
				ArgsUsage: "PROPERTY_ID",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Property file", Required: true},
				},
				Action: propertiesUpdate,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a property",
				ArgsUsage: "PROPERTY_ID",
				Action: func(c *cli.Context) error {
					id, err := requireArg(c, "PROPERTY_ID")
					if err != nil {
						return err
					}
					app := getApp(c)
					app.Navigator.Visit("/admin/properties")
					if err := app.Properties.Delete(c.Context, id); err != nil {
						return fail(err)
					}
					fmt.Fprintf(app.out, "Property %s deleted\n", id)
					return nil
				},
			},
			{
				Name:      "upload",
				Usage:     "Attach images to a property",
				ArgsUsage: "PROPERTY_ID IMAGE...",
				Action:    propertiesUpload,
			},
		},
	}
}

func requireArg(c *cli.Context, name string) (string, error) {
	if c.NArg() < 1 || c.Args().First() == "" {
		return "", usageError("%s is required", name)
	}
	return c.Args().First(), nil
}

func propertiesList(c *cli.Context) error {
	app := getApp(c)
	filter := models.PropertyFilter{
		Query:     c.String("query"),
		Operation: models.Operation(c.String("operation")),
		Regions:   c.StringSlice("region"),
		Types:     c.StringSlice("type"),
		Page:      c.Int("page"),
		Limit:     c.Int("limit"),
		Sort:      c.String("sort"),
	}
	for name, dst := range map[string]**float64{
		"min-price":    &filter.MinPrice,
		"max-price":    &filter.MaxPrice,
		"min-hectares": &filter.MinHectares,
		"max-hectares": &filter.MaxHectares,
	} {
		if c.IsSet(name) {
			v := c.Float64(name)
			*dst = &v
		}
	}
	if c.IsSet("featured") {
		v := c.Bool("featured")
		filter.Featured = &v
	}

	page, err := app.Properties.List(c.Context, filter)
	if err != nil {
		return fail(err)
	}
	return app.printer.Print(page)
}

// readPropertyFile decodes a property from YAML or JSON; JSON is valid YAML.
func readPropertyFile(path string) (*models.Property, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read property file: %w", err)
	}
	var p models.Property
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse property file: %w", err)
	}
	return &p, nil
}

func propertiesCreate(c *cli.Context) error {
	app := getApp(c)
	app.Navigator.Visit("/admin/properties/new")
	p, err := readPropertyFile(c.String("file"))
	if err != nil {
		return usageError("%v", err)
	}
	created, err := app.Properties.Create(c.Context, p)
	if err != nil {
		return fail(err)
	}
	return app.printer.Print(created)
}

func propertiesUpdate(c *cli.Context) error {
	id, err := requireArg(c, "PROPERTY_ID")
	if err != nil {
		return err
	}
	app := getApp(c)
	app.Navigator.Visit("/admin/properties/" + id + "/edit")
	p, err := readPropertyFile(c.String("file"))
	if err != nil {
		return usageError("%v", err)
	}
	p.ID = id
	updated, err := app.Properties.Update(c.Context, p)
	if err != nil {
		return fail(err)
	}
	return app.printer.Print(updated)
}

func propertiesUpload(c *cli.Context) error {
	if c.NArg() < 2 {
		return usageError("PROPERTY_ID and at least one IMAGE are required")
	}
	app := getApp(c)
	id := c.Args().First()
	app.Navigator.Visit("/admin/properties/" + id + "/edit")

	var uploads []services.ImageUpload
	for _, path := range c.Args().Tail() {
		f, err := os.Open(path)
		if err != nil {
			return usageError("failed to open image: %v", err)
		}
		defer f.Close()
		uploads = append(uploads, services.ImageUpload{Filename: filepath.Base(path), Body: f})
	}

	p, err := app.Properties.UploadImages(c.Context, id, uploads)
	if err != nil {
		return fail(err)
	}
	return app.printer.Print(p)
}
