package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/spark/internal/app"
	"github.com/hpungsan/spark/internal/errors"
	"github.com/hpungsan/spark/internal/ops"
	"github.com/hpungsan/spark/internal/web"
)

// stdout is replaced in tests.
var stdout io.Writer = os.Stdout

// newCLIApp creates the CLI application with all commands.
// a may be nil when only help or version output is needed.
func newCLIApp(a *app.App) *cli.App {
	cliApp := &cli.App{
		Name:    "spark",
		Usage:   "Journal entries that unlock with place, weather, mood and time",
		Version: Version,
		Commands: []*cli.Command{
			createCmd(a),
			fetchCmd(a),
			updateCmd(a),
			listCmd(a),
			reevaluateCmd(a),
			emotionCmd(a),
			clearCmd(a),
			demoCmd(a),
			statusCmd(a),
			historyCmd(a),
			exportCmd(a),
			importCmd(a),
			webCmd(a),
		},
	}
	// Return errors to the caller instead of exiting.
	cliApp.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return cliApp
}

func geofenceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{Name: "lat", Usage: "Geofence center latitude"},
		&cli.Float64Flag{Name: "lon", Usage: "Geofence center longitude"},
		&cli.Float64Flag{Name: "radius", Value: 100, Usage: "Geofence radius in meters"},
	}
}

// geofenceInput returns the geofence described by --lat/--lon/--radius, or
// nil when neither coordinate was given.
func geofenceInput(c *cli.Context) (*ops.GeofenceInput, error) {
	if !c.IsSet("lat") && !c.IsSet("lon") {
		return nil, nil
	}
	if !c.IsSet("lat") || !c.IsSet("lon") {
		return nil, errors.NewInvalidRequest("--lat and --lon must be given together")
	}
	return &ops.GeofenceInput{
		Latitude:  c.Float64("lat"),
		Longitude: c.Float64("lon"),
		Radius:    c.Float64("radius"),
	}, nil
}

// optString returns a pointer to the flag value when the flag was set.
func optString(c *cli.Context, name string) *string {
	if !c.IsSet(name) {
		return nil
	}
	v := c.String(name)
	return &v
}

// contentInput resolves entry content from --content or, with --stdin, from standard input.
func contentInput(c *cli.Context, a *app.App) (*string, error) {
	if c.Bool("stdin") {
		if c.IsSet("content") {
			return nil, errors.NewInvalidRequest("use --content or --stdin, not both")
		}
		// Bytes, not chars; the char limit is enforced by validation.
		text, err := readStdin(int64(a.Config.EntryMaxChars) * 4)
		if err != nil {
			return nil, err
		}
		return &text, nil
	}
	return optString(c, "content"), nil
}

// createCmd creates the create command.
func createCmd(a *app.App) *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Write a new locked entry",
		ArgsUsage: "<title>",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "Entry content (markdown)"},
			&cli.BoolFlag{Name: "stdin", Usage: "Read content from stdin"},
			&cli.StringFlag{Name: "id", Usage: "Explicit entry id"},
			&cli.StringFlag{Name: "weather", Usage: "Weather condition"},
			&cli.StringFlag{Name: "emotion", Usage: "Emotion condition"},
			&cli.StringFlag{Name: "earliest-unlock", Usage: "Earliest unlock time (RFC 3339)"},
			&cli.StringFlag{Name: "unlock-after", Usage: "Earliest unlock relative to now, e.g. 90m, 2d, 1y2mo"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Collision mode: error|replace"},
		}, geofenceFlags()...),
		Action: func(c *cli.Context) error {
			fence, err := geofenceInput(c)
			if err != nil {
				return outputError(err)
			}
			content, err := contentInput(c, a)
			if err != nil {
				return outputError(err)
			}

			input := ops.CreateInput{
				ID:             c.String("id"),
				Title:          strings.Join(c.Args().Slice(), " "),
				Geofence:       fence,
				Weather:        optString(c, "weather"),
				Emotion:        optString(c, "emotion"),
				EarliestUnlock: optString(c, "earliest-unlock"),
				UnlockAfter:    optString(c, "unlock-after"),
				Mode:           ops.CreateMode(c.String("mode")),
			}
			if content != nil {
				input.Content = *content
			}

			output, err := ops.Create(a.Store, a.Config, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(a *app.App) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Show one entry; content stays hidden while it is locked",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "html", Usage: "Include content rendered as HTML"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Fetch(a.Store, a.Sensors, ops.FetchInput{
				ID:          c.Args().First(),
				IncludeHTML: c.Bool("html"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// updateCmd creates the update command.
func updateCmd(a *app.App) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Edit an entry's text or conditions",
		ArgsUsage: "<id>",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "New title"},
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "New content"},
			&cli.BoolFlag{Name: "stdin", Usage: "Read new content from stdin"},
			&cli.BoolFlag{Name: "clear-geofence", Usage: "Remove the location condition"},
			&cli.StringFlag{Name: "weather", Usage: "Weather condition (empty removes it)"},
			&cli.StringFlag{Name: "emotion", Usage: "Emotion condition (empty removes it)"},
			&cli.StringFlag{Name: "earliest-unlock", Usage: "RFC 3339 time (empty resets to the creation date)"},
			&cli.StringFlag{Name: "unlock-after", Usage: "Earliest unlock relative to now"},
		}, geofenceFlags()...),
		Action: func(c *cli.Context) error {
			fence, err := geofenceInput(c)
			if err != nil {
				return outputError(err)
			}
			content, err := contentInput(c, a)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Update(a.Store, a.Config, ops.UpdateInput{
				ID:             c.Args().First(),
				Title:          optString(c, "title"),
				Content:        content,
				Geofence:       fence,
				ClearGeofence:  c.Bool("clear-geofence"),
				Weather:        optString(c, "weather"),
				Emotion:        optString(c, "emotion"),
				EarliestUnlock: optString(c, "earliest-unlock"),
				UnlockAfter:    optString(c, "unlock-after"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(a *app.App) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List entries without their content",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "text", Aliases: []string{"q"}, Usage: "Search title, and content of unlocked entries"},
			&cli.StringFlag{Name: "lock", Value: "all", Usage: "Lock filter: all|locked|unlocked"},
			&cli.StringFlag{Name: "emotion", Usage: "Only entries with this emotion condition"},
			&cli.StringFlag{Name: "weather", Usage: "Only entries with this weather condition"},
			&cli.StringFlag{Name: "sort", Value: "newest", Usage: "Order: newest|oldest|recently_unlocked"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Max results"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Pagination offset"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Query(a.Store, ops.QueryInput{
				Text:    c.String("text"),
				Lock:    c.String("lock"),
				Emotion: c.String("emotion"),
				Weather: c.String("weather"),
				Sort:    c.String("sort"),
				Limit:   c.Int("limit"),
				Offset:  c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// reevaluateCmd creates the reevaluate command.
func reevaluateCmd(a *app.App) *cli.Command {
	return &cli.Command{
		Name:  "reevaluate",
		Usage: "Report sensor readings and unlock every entry whose conditions now hold",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "lat", Usage: "Current latitude"},
			&cli.Float64Flag{Name: "lon", Usage: "Current longitude"},
			&cli.BoolFlag{Name: "clear-location", Usage: "Forget the current location"},
			&cli.StringFlag{Name: "permission", Usage: "Location permission: notDetermined|denied|authorized"},
			&cli.StringFlag{Name: "weather", Usage: "Current weather"},
			&cli.StringFlag{Name: "emotion", Usage: "Current emotion"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ReevaluateInput{
				ClearLocation: c.Bool("clear-location"),
				Permission:    optString(c, "permission"),
				Weather:       optString(c, "weather"),
				Emotion:       optString(c, "emotion"),
			}
			if c.IsSet("lat") {
				lat := c.Float64("lat")
				input.Latitude = &lat
			}
			if c.IsSet("lon") {
				lon := c.Float64("lon")
				input.Longitude = &lon
			}

			output, err := ops.Reevaluate(a.Store, a.Sensors, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// emotionCmd creates the emotion command.
func emotionCmd(a *app.App) *cli.Command {
	return &cli.Command{
		Name:      "emotion",
		Usage:     "Show the current emotion, or set it and re-evaluate",
		ArgsUsage: "[emotion]",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputJSON(ops.GetEmotion(a.Sensors))
			}
			output, err := ops.SetEmotion(a.Store, a.Sensors, ops.SetEmotionInput{Emotion: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// clearCmd creates the clear command.
func clearCmd(a *app.App) *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Delete every entry",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Confirm deletion"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Clear(a.Store, ops.ClearInput{Confirm: c.Bool("yes")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// demoCmd creates the demo command.
func demoCmd(a *app.App) *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "Add demo entries",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "replace", Usage: "Delete existing entries first"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.SeedDemo(a.Store, ops.SeedDemoInput{Replace: c.Bool("replace")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// statusCmd creates the status command.
func statusCmd(a *app.App) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show entry counts and the current context",
		Action: func(c *cli.Context) error {
			return outputJSON(ops.Status(a.Store, a.Sensors))
		},
	}
}

// historyCmd creates the history command.
func historyCmd(a *app.App) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded unlocks, most recent first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "entry", Usage: "Only unlocks of this entry id"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Max results"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Pagination offset"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.History(a.DB, ops.HistoryInput{
				EntryID: c.String("entry"),
				Limit:   c.Int("limit"),
				Offset:  c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(a *app.App) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write all entries to a JSON file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Output path (default: <base>/exports/entries-<timestamp>.json)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(a.Store, a.Config, a.BaseDir, ops.ExportInput{Path: c.String("path")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// importCmd creates the import command.
func importCmd(a *app.App) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Load entries from a JSON export",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Import mode: error|replace"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Import(a.Store, a.Config, a.BaseDir, ops.ImportInput{
				Path: c.Args().First(),
				Mode: ops.ImportMode(c.String("mode")),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// webCmd creates the web command.
func webCmd(a *app.App) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve a local viewer for entries and unlock history",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8337, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			srv, err := web.NewServer(a, Version, c.String("bind"), c.Int("port"))
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			if err := web.Run(srv, a.Log); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var sErr *errors.SparkError
	if stderrors.As(err, &sErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// readStdin reads all of stdin, failing if it exceeds maxBytes.
func readStdin(maxBytes int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(os.Stdin, maxBytes+1))
	if err != nil {
		return "", errors.NewInternal(err)
	}
	if int64(len(data)) > maxBytes {
		return "", errors.NewInvalidRequest(fmt.Sprintf("stdin exceeds %d bytes", maxBytes))
	}
	return strings.TrimSpace(string(data)), nil
}
