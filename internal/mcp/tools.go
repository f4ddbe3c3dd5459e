package mcp

import (
	"slices"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/spark/internal/entry"
)

var geofenceProperties = map[string]any{
	"latitude":  map[string]any{"type": "number", "description": "Center latitude in degrees (-90..90)"},
	"longitude": map[string]any{"type": "number", "description": "Center longitude in degrees (-180..180)"},
	"radius":    map[string]any{"type": "number", "description": "Radius in meters (> 0)"},
}

var (
	readingWeatherValues = tagValues(entry.AllWeather)
	weatherValues        = tagValues(entry.AllWeather, entry.WeatherUnknown)
	emotionValues        = tagValues(entry.AllEmotions)
)

// tagValues converts tags to schema enum values, leaving out skip.
func tagValues[T ~string](tags []T, skip ...T) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if !slices.Contains(skip, t) {
			out = append(out, string(t))
		}
	}
	return out
}

var createToolDef = mcp.NewTool("entry_create",
	mcp.WithDescription("Create a journal entry that stays locked until all of its unlock conditions hold. "+
		"Conditions are optional: a geofence, a weather, an emotion and an earliest unlock time. "+
		"An entry with no conditions unlocks on the next context update."),
	mcp.WithString("title", mcp.Required(), mcp.Description("Entry title")),
	mcp.WithString("content", mcp.Description("Entry body (markdown)")),
	mcp.WithString("id", mcp.Description("Optional explicit id; generated when omitted")),
	mcp.WithObject("geofence",
		mcp.Description("Location condition: the device must be inside this circle"),
		mcp.Properties(geofenceProperties),
	),
	mcp.WithString("weather", mcp.Description("Weather condition"), mcp.Enum(weatherValues...)),
	mcp.WithString("emotion", mcp.Description("Emotion condition"), mcp.Enum(emotionValues...)),
	mcp.WithString("earliest_unlock", mcp.Description("Absolute earliest unlock time (RFC 3339)")),
	mcp.WithString("unlock_after", mcp.Description("Earliest unlock relative to now, e.g. 90m, 2d, 1y2mo. Exclusive with earliest_unlock")),
	mcp.WithString("mode", mcp.Description("Collision behavior when id exists (default: error)"), mcp.Enum("error", "replace")),
)

var fetchToolDef = mcp.NewTool("entry_fetch",
	mcp.WithDescription("Fetch one entry. Content is withheld while the entry is locked; the unmet conditions are listed instead."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Entry id")),
	mcp.WithBoolean("include_html", mcp.Description("Also return the content rendered as HTML (default: false)")),
)

var updateToolDef = mcp.NewTool("entry_update",
	mcp.WithDescription("Edit an entry's text or conditions. Never changes whether the entry is unlocked."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Entry id")),
	mcp.WithString("title", mcp.Description("New title")),
	mcp.WithString("content", mcp.Description("New content")),
	mcp.WithObject("geofence",
		mcp.Description("Replace the location condition"),
		mcp.Properties(geofenceProperties),
	),
	mcp.WithBoolean("clear_geofence", mcp.Description("Remove the location condition")),
	mcp.WithString("weather", mcp.Description("Weather condition; empty string removes it")),
	mcp.WithString("emotion", mcp.Description("Emotion condition; empty string removes it")),
	mcp.WithString("earliest_unlock", mcp.Description("RFC 3339 time; empty string resets to the creation date")),
	mcp.WithString("unlock_after", mcp.Description("Earliest unlock relative to now")),
)

var queryToolDef = mcp.NewTool("entry_query",
	mcp.WithDescription("List entries without content, filtered and sorted."),
	mcp.WithString("text", mcp.Description("Case-insensitive match on title, and on content of unlocked entries")),
	mcp.WithString("lock", mcp.Description("Lock filter (default: all)"), mcp.Enum("all", "locked", "unlocked")),
	mcp.WithString("emotion", mcp.Description("Only entries with this emotion condition"), mcp.Enum(emotionValues...)),
	mcp.WithString("weather", mcp.Description("Only entries with this weather condition"), mcp.Enum(weatherValues...)),
	mcp.WithString("sort", mcp.Description("Order (default: newest)"), mcp.Enum("newest", "oldest", "recently_unlocked")),
	mcp.WithNumber("limit", mcp.Description("Max results (default: 20, max: 100)")),
	mcp.WithNumber("offset", mcp.Description("Pagination offset")),
)

var clearToolDef = mcp.NewTool("entry_clear",
	mcp.WithDescription("Delete every entry. Irreversible."),
	mcp.WithBoolean("confirm", mcp.Required(), mcp.Description("Must be true")),
)

var contextUpdateToolDef = mcp.NewTool("context_update",
	mcp.WithDescription("Report new sensor readings and re-evaluate all locked entries. "+
		"Omitted readings keep their last known value. Returns the entries unlocked by this pass."),
	mcp.WithNumber("latitude", mcp.Description("Current latitude; requires longitude")),
	mcp.WithNumber("longitude", mcp.Description("Current longitude; requires latitude")),
	mcp.WithBoolean("clear_location", mcp.Description("Forget the current location")),
	mcp.WithString("permission", mcp.Description("Location permission"), mcp.Enum("notDetermined", "denied", "authorized")),
	mcp.WithString("weather", mcp.Description("Current weather"), mcp.Enum(readingWeatherValues...)),
	mcp.WithString("emotion", mcp.Description("Current emotion"), mcp.Enum(emotionValues...)),
)

var emotionGetToolDef = mcp.NewTool("emotion_get",
	mcp.WithDescription("Return the current emotion and the available choices."),
)

var emotionSetToolDef = mcp.NewTool("emotion_set",
	mcp.WithDescription("Set the current emotion and re-evaluate locked entries."),
	mcp.WithString("emotion", mcp.Required(), mcp.Description("New emotion"), mcp.Enum(emotionValues...)),
)

var demoSeedToolDef = mcp.NewTool("demo_seed",
	mcp.WithDescription("Add a set of demo entries with dates relative to now."),
	mcp.WithBoolean("replace", mcp.Description("Delete existing entries first")),
)

var statusToolDef = mcp.NewTool("status",
	mcp.WithDescription("Entry counts, current sensor context and the next time-based unlock."),
)

var historyToolDef = mcp.NewTool("unlock_history",
	mcp.WithDescription("List recorded unlock events, most recent first."),
	mcp.WithString("entry_id", mcp.Description("Only events for this entry")),
	mcp.WithNumber("limit", mcp.Description("Max results (default: 20, max: 100)")),
	mcp.WithNumber("offset", mcp.Description("Pagination offset")),
)

var exportToolDef = mcp.NewTool("entries_export",
	mcp.WithDescription("Write all entries to a JSON file in the exports directory or an allowed path."),
	mcp.WithString("path", mcp.Description("Output .json path (default: <base>/exports/entries-<timestamp>.json)")),
)

var importToolDef = mcp.NewTool("entries_import",
	mcp.WithDescription("Load entries from a JSON export file."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Input .json path")),
	mcp.WithString("mode", mcp.Description("error: import nothing on any collision (default). replace: overwrite matching ids"), mcp.Enum("error", "replace")),
)
