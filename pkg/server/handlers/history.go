package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"intlab/rpncalc/pkg/history"
	"intlab/rpncalc/pkg/server/api"
)

// maxHistoryLimit caps the page size of GET /v1/history.
const maxHistoryLimit = 1000

// HistoryHandler serves GET /v1/history.
type HistoryHandler struct {
	store  history.Storage
	logger *slog.Logger
}

// NewHistoryHandler creates the handler. A nil store answers 404.
func NewHistoryHandler(store history.Storage, logger *slog.Logger) *HistoryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryHandler{store: store, logger: logger}
}

// ServeHTTP lists history records newest first.
//
// Query parameters:
//   - limit, offset: paging (limit defaults to 100, at most 1000)
//   - status: "success" or "error"
//   - kind: error kind, for example "divide_by_zero"
//   - source: "cli", "http" or "watch"
//   - since, until: RFC 3339 timestamps
//   - order: "desc" (default) or "asc"
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		api.WriteError(w, api.NewError(api.ErrorTypeNotFound, "", "history is not enabled"))
		return
	}

	query, errResp := parseHistoryQuery(r.URL.Query())
	if errResp != nil {
		api.WriteError(w, errResp)
		return
	}

	records, err := h.store.Query(r.Context(), query)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "history query failed", "error", err)
		api.WriteError(w, api.NewError(api.ErrorTypeUnavailable, "", "history store unavailable"))
		return
	}

	total, err := h.store.Count(r.Context(), query)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "history count failed", "error", err)
		api.WriteError(w, api.NewError(api.ErrorTypeUnavailable, "", "history store unavailable"))
		return
	}

	api.WriteJSON(w, http.StatusOK, api.HistoryResponse{
		Records: records,
		Total:   total,
		Limit:   query.Limit,
		Offset:  query.Offset,
	})
}

func parseHistoryQuery(values url.Values) (*history.Query, *api.ErrorResponse) {
	query := &history.Query{
		Limit:     history.DefaultQueryLimit,
		Status:    history.Status(values.Get("status")),
		ErrorKind: values.Get("kind"),
		Source:    values.Get("source"),
		SortOrder: values.Get("order"),
	}

	switch query.Status {
	case "", history.StatusSuccess, history.StatusError:
	default:
		return nil, invalidParam("status", fmt.Sprintf("unknown status %q", query.Status))
	}
	switch query.SortOrder {
	case "", history.SortAsc, history.SortDesc:
	default:
		return nil, invalidParam("order", fmt.Sprintf("unknown order %q", query.SortOrder))
	}

	var errResp *api.ErrorResponse
	if query.Limit, errResp = intParam(values, "limit", query.Limit, 1, maxHistoryLimit); errResp != nil {
		return nil, errResp
	}
	if query.Offset, errResp = intParam(values, "offset", 0, 0, -1); errResp != nil {
		return nil, errResp
	}
	if query.StartTime, errResp = timeParam(values, "since"); errResp != nil {
		return nil, errResp
	}
	if query.EndTime, errResp = timeParam(values, "until"); errResp != nil {
		return nil, errResp
	}

	return query, nil
}

// intParam parses an integer parameter in [lo, hi]; hi < 0 means no upper
// bound.
func intParam(values url.Values, name string, def, lo, hi int) (int, *api.ErrorResponse) {
	raw := values.Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || (hi >= 0 && n > hi) {
		return 0, invalidParam(name, fmt.Sprintf("invalid %s %q", name, raw))
	}
	return n, nil
}

func timeParam(values url.Values, name string) (*time.Time, *api.ErrorResponse) {
	raw := values.Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, invalidParam(name, fmt.Sprintf("%s must be an RFC 3339 timestamp", name))
	}
	return &t, nil
}

func invalidParam(param, message string) *api.ErrorResponse {
	return api.NewInvalidRequestError(api.CodeInvalidValue, param, message)
}
