package web

import (
	"html/template"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hpungsan/spark/internal/app"
	"github.com/hpungsan/spark/internal/entry"
	"github.com/hpungsan/spark/internal/errors"
	"github.com/hpungsan/spark/internal/ops"
)

// Handlers contains HTTP route handlers for the viewer.
type Handlers struct {
	app      *app.App
	renderer *Renderer
}

// HandleList handles GET /entries.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	input := queryInput(r)

	result, err := ops.Query(h.app.Store, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "list", ListPageData{
		PageData:   h.renderer.page("Entries", "entries"),
		Items:      result.Items,
		Pagination: result.Pagination,
		Status:     ops.Status(h.app.Store, h.app.Sensors),
		Emotions:   slices.Clone(entry.AllEmotions),
		Text:       input.Text,
		Lock:       input.Lock,
		Sort:       input.Sort,
	})
}

// HandleDetail handles GET /entries/{id}. Locked entries show their unmet
// conditions instead of the content.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	out, err := ops.Fetch(h.app.Store, h.app.Sensors, ops.FetchInput{
		ID:          chi.URLParam(r, "id"),
		IncludeHTML: true,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData:     h.renderer.page(out.Title, "entries"),
		Entry:        out,
		RenderedHTML: template.HTML(out.ContentHTML), // goldmark output, raw HTML disabled
	})
}

// HandleHistory handles GET /history.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	entryID := r.URL.Query().Get("entry_id")
	result, err := ops.History(h.app.DB, ops.HistoryInput{
		EntryID: entryID,
		Limit:   parseIntParam(r, "limit", 50),
		Offset:  parseIntParam(r, "offset", 0),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "history", HistoryPageData{
		PageData:   h.renderer.page("Unlock history", "history"),
		Items:      result.Items,
		Pagination: result.Pagination,
		EntryID:    entryID,
	})
}

// HandleSetEmotion handles POST /emotion. It records the new emotion,
// re-evaluates locked entries and returns to the list.
func (h *Handlers) HandleSetEmotion(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	out, err := ops.SetEmotion(h.app.Store, h.app.Sensors, ops.SetEmotionInput{Emotion: r.FormValue("emotion")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, out)
		return
	}
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/entries")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/entries", http.StatusSeeOther)
}

// HandleAPIStatus handles GET /api/status.
func (h *Handlers) HandleAPIStatus(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, ops.Status(h.app.Store, h.app.Sensors))
}

// HandleAPIEntries handles GET /api/entries.
func (h *Handlers) HandleAPIEntries(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Query(h.app.Store, queryInput(r))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleAPIEntry handles GET /api/entries/{id}.
func (h *Handlers) HandleAPIEntry(w http.ResponseWriter, r *http.Request) {
	out, err := ops.Fetch(h.app.Store, h.app.Sensors, ops.FetchInput{
		ID:          chi.URLParam(r, "id"),
		IncludeHTML: parseBoolParam(r, "html"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

func queryInput(r *http.Request) ops.QueryInput {
	q := r.URL.Query()
	return ops.QueryInput{
		Text:    q.Get("q"),
		Lock:    q.Get("lock"),
		Emotion: q.Get("emotion"),
		Weather: q.Get("weather"),
		Sort:    q.Get("sort"),
		Limit:   parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset:  parseIntParam(r, "offset", 0),
	}
}

// parseIntParam parses an integer query parameter, returning defaultVal if
// missing or invalid.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam returns true if the query parameter is "true" or "1".
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}
