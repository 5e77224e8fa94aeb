// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// itemFlags are shared by add and update.
func itemFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "platform", Aliases: []string{"p"}, Usage: "Platform, e.g. PS5 or Switch"},
		&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "OWNED, PLAYING, COMPLETED, PLATINUM, BACKLOG, FOR_SALE, SOLD or WISHLISTED"},
		&cli.FloatFlag{Name: "paid", Usage: "Price paid, or target price when wishlisted"},
		&cli.FloatFlag{Name: "sold", Usage: "Sale price, or asking price when for sale"},
		&cli.StringFlag{Name: "tags", Usage: "Comma separated tags"},
		&cli.IntFlag{Name: "metacritic", Usage: "Metacritic score (0-100)"},
		&cli.StringFlag{Name: "image", Usage: "Cover image URL"},
	}
}

// viewFlags select a view of the collection, for list and export.
func viewFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "tab", Aliases: []string{"t"}, Usage: "collection, backlog, wishlist, storefront or sold"},
		&cli.StringFlag{Name: "search", Aliases: []string{"q"}, Usage: "Case-insensitive title search"},
		&cli.StringFlag{Name: "platform", Usage: "Show a single platform"},
		&cli.StringFlag{Name: "sort", Usage: "recent, title, price or metacritic"},
		&cli.StringFlag{Name: "platforms", Usage: "Advanced: comma separated platforms"},
		&cli.StringFlag{Name: "statuses", Usage: "Advanced: comma separated statuses"},
		&cli.StringFlag{Name: "tags", Usage: "Advanced: comma separated tags (any match)"},
		&cli.StringFlag{Name: "price", Usage: "Advanced: price range as min-max, e.g. 10-60"},
		&cli.StringFlag{Name: "metacritic", Usage: "Advanced: metacritic range as min-max, e.g. 75-100"},
	}
}

// setupCommand handles setup operations.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create config if missing, initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupRollback,
			},
		},
	}
}

func addCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a game to the collection",
		ArgsUsage: "<title>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "title"},
		},
		Flags: append(itemFlags(),
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		),
		Action: r.Add,
	}
}

func updateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Aliases:   []string{"set"},
		Usage:     "Change fields of a game by ID; only given flags are applied",
		ArgsUsage: "<id>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags: append(itemFlags(),
			&cli.StringFlag{Name: "title", Usage: "New title"},
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		),
		Action: r.Update,
	}
}

func removeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Aliases:   []string{"rm"},
		Usage:     "Remove a game by ID",
		ArgsUsage: "<id>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Action: r.Remove,
	}
}

func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List the collection through the same filters as the browser",
		Flags: append(viewFlags(),
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Items to show (default: one page)"},
			&cli.IntFlag{Name: "more", Usage: "Load this many extra pages"},
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
			&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print JSON output", Value: true},
		),
		Action: r.List,
	}
}

func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show collection KPIs and the platform breakdown",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.Stats,
	}
}

func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import games from a JSON or CSV file, or a JSON snapshot URL",
		ArgsUsage: "<path-or-url>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "source"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "platform", Usage: "Platform for records without one"},
			&cli.FloatFlag{Name: "rate", Usage: "Saves per second (0 for no limit)"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Parse and validate without saving"},
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.Import,
	}
}

func importsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "imports",
		Usage: "List recorded imports, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "status", Usage: "pending, running, completed or failed"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Maximum number of jobs", Value: 20},
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.Imports,
	}
}

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export a view of the collection as csv, markdown, txt or json",
		Flags: append(viewFlags(),
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "csv, markdown, txt or json", Value: "markdown"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file (default: shelf.<ext>)"},
			&cli.BoolFlag{Name: "all", Usage: "Export every match instead of one page", Value: true},
			&cli.BoolFlag{Name: "covers", Usage: "Download cover images next to the export"},
			&cli.IntFlag{Name: "workers", Usage: "Concurrent cover downloads"},
		),
		Action: r.Export,
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve a read-only profile over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "Listen address (default from config)"},
			&cli.BoolFlag{Name: "open", Usage: "Open the profile in a browser"},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Browse the collection interactively",
		Action:  r.TUI,
	}
}
