package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/spark/internal/app"
	"github.com/hpungsan/spark/internal/errors"
	"github.com/hpungsan/spark/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	app *app.App
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(a *app.App) *Handlers {
	return &Handlers{app: a}
}

// CreateRequest represents the arguments for entry_create.
type CreateRequest struct {
	ID             string             `json:"id,omitempty"`
	Title          string             `json:"title"`
	Content        string             `json:"content,omitempty"`
	Geofence       *ops.GeofenceInput `json:"geofence,omitempty"`
	Weather        *string            `json:"weather,omitempty"`
	Emotion        *string            `json:"emotion,omitempty"`
	EarliestUnlock *string            `json:"earliest_unlock,omitempty"`
	UnlockAfter    *string            `json:"unlock_after,omitempty"`
	Mode           string             `json:"mode,omitempty"`
}

// FetchRequest represents the arguments for entry_fetch.
type FetchRequest struct {
	ID          string `json:"id"`
	IncludeHTML bool   `json:"include_html,omitempty"`
}

// UpdateRequest represents the arguments for entry_update.
type UpdateRequest struct {
	ID             string             `json:"id"`
	Title          *string            `json:"title,omitempty"`
	Content        *string            `json:"content,omitempty"`
	Geofence       *ops.GeofenceInput `json:"geofence,omitempty"`
	ClearGeofence  bool               `json:"clear_geofence,omitempty"`
	Weather        *string            `json:"weather,omitempty"`
	Emotion        *string            `json:"emotion,omitempty"`
	EarliestUnlock *string            `json:"earliest_unlock,omitempty"`
	UnlockAfter    *string            `json:"unlock_after,omitempty"`
}

// QueryRequest represents the arguments for entry_query.
type QueryRequest struct {
	Text    string `json:"text,omitempty"`
	Lock    string `json:"lock,omitempty"`
	Emotion string `json:"emotion,omitempty"`
	Weather string `json:"weather,omitempty"`
	Sort    string `json:"sort,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	Offset  int    `json:"offset,omitempty"`
}

// ClearRequest represents the arguments for entry_clear.
type ClearRequest struct {
	Confirm bool `json:"confirm"`
}

// ContextUpdateRequest represents the arguments for context_update.
type ContextUpdateRequest struct {
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	ClearLocation bool     `json:"clear_location,omitempty"`
	Permission    *string  `json:"permission,omitempty"`
	Weather       *string  `json:"weather,omitempty"`
	Emotion       *string  `json:"emotion,omitempty"`
}

// EmotionSetRequest represents the arguments for emotion_set.
type EmotionSetRequest struct {
	Emotion string `json:"emotion"`
}

// DemoSeedRequest represents the arguments for demo_seed.
type DemoSeedRequest struct {
	Replace bool `json:"replace,omitempty"`
}

// HistoryRequest represents the arguments for unlock_history.
type HistoryRequest struct {
	EntryID string `json:"entry_id,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	Offset  int    `json:"offset,omitempty"`
}

// ExportRequest represents the arguments for entries_export.
type ExportRequest struct {
	Path string `json:"path,omitempty"`
}

// ImportRequest represents the arguments for entries_import.
type ImportRequest struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
}

// HandleCreate handles the entry_create tool call.
func (h *Handlers) HandleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Create(h.app.Store, h.app.Config, ops.CreateInput{
		ID:             input.ID,
		Title:          input.Title,
		Content:        input.Content,
		Geofence:       input.Geofence,
		Weather:        input.Weather,
		Emotion:        input.Emotion,
		EarliestUnlock: input.EarliestUnlock,
		UnlockAfter:    input.UnlockAfter,
		Mode:           ops.CreateMode(input.Mode),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFetch handles the entry_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Fetch(h.app.Store, h.app.Sensors, ops.FetchInput{
		ID:          input.ID,
		IncludeHTML: input.IncludeHTML,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleUpdate handles the entry_update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Update(h.app.Store, h.app.Config, ops.UpdateInput{
		ID:             input.ID,
		Title:          input.Title,
		Content:        input.Content,
		Geofence:       input.Geofence,
		ClearGeofence:  input.ClearGeofence,
		Weather:        input.Weather,
		Emotion:        input.Emotion,
		EarliestUnlock: input.EarliestUnlock,
		UnlockAfter:    input.UnlockAfter,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleQuery handles the entry_query tool call.
func (h *Handlers) HandleQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[QueryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Query(h.app.Store, ops.QueryInput(input))
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleClear handles the entry_clear tool call.
func (h *Handlers) HandleClear(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ClearRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Clear(h.app.Store, ops.ClearInput{Confirm: input.Confirm})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleContextUpdate handles the context_update tool call.
func (h *Handlers) HandleContextUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ContextUpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Reevaluate(h.app.Store, h.app.Sensors, ops.ReevaluateInput(input))
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleEmotionGet handles the emotion_get tool call.
func (h *Handlers) HandleEmotionGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.GetEmotion(h.app.Sensors))
}

// HandleEmotionSet handles the emotion_set tool call.
func (h *Handlers) HandleEmotionSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[EmotionSetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.SetEmotion(h.app.Store, h.app.Sensors, ops.SetEmotionInput{Emotion: input.Emotion})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDemoSeed handles the demo_seed tool call.
func (h *Handlers) HandleDemoSeed(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DemoSeedRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.SeedDemo(h.app.Store, ops.SeedDemoInput{Replace: input.Replace})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleStatus handles the status tool call.
func (h *Handlers) HandleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.Status(h.app.Store, h.app.Sensors))
}

// HandleHistory handles the unlock_history tool call.
func (h *Handlers) HandleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.History(h.app.DB, ops.HistoryInput(input))
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExport handles the entries_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(h.app.Store, h.app.Config, h.app.BaseDir, ops.ExportInput{Path: input.Path})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleImport handles the entries_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Import(h.app.Store, h.app.Config, h.app.BaseDir, ops.ImportInput{
		Path: input.Path,
		Mode: ops.ImportMode(input.Mode),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are never exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var sErr *errors.SparkError
	if stderrors.As(err, &sErr) {
		msg := sErr.Message
		if err != error(sErr) {
			// Keep the wrapping context, e.g. "entries[2]: ...".
			msg = err.Error()
		}
		errorObj := map[string]any{
			"code":    sErr.Code,
			"message": msg,
			"status":  sErr.Status,
		}
		if sErr.Code != errors.ErrInternal && sErr.Details != nil {
			errorObj["details"] = sErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
