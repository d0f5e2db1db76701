package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"intlab/rpncalc/pkg/engine"
	"intlab/rpncalc/pkg/history"
	"intlab/rpncalc/pkg/rpn/token"
	"intlab/rpncalc/pkg/server/api"
)

// CalculatorHandler serves the expression endpoints.
type CalculatorHandler struct {
	engine       *engine.Engine
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewCalculatorHandler creates the handler. maxBodyBytes caps request
// bodies; zero means no cap.
func NewCalculatorHandler(e *engine.Engine, maxBodyBytes int64, logger *slog.Logger) *CalculatorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CalculatorHandler{engine: e, maxBodyBytes: maxBodyBytes, logger: logger}
}

// Calculate handles POST /v1/calculate.
func (h *CalculatorHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req api.CalculateRequest
	if errResp := decodeJSON(w, r, h.maxBodyBytes, &req); errResp != nil {
		api.WriteError(w, errResp)
		return
	}
	if req.Expression == nil {
		api.WriteError(w, api.NewInvalidRequestError(api.CodeMissingField, "expression", "expression is required"))
		return
	}

	res, err := h.engine.Calculate(r.Context(), history.SourceHTTP, *req.Expression)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, api.CalculateResponse{
		Expression: res.Expression,
		Normalized: res.Normalized,
		Postfix:    res.PostfixString(),
		Result:     res.Value,
	})
}

// Convert handles POST /v1/convert.
func (h *CalculatorHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var req api.CalculateRequest
	if errResp := decodeJSON(w, r, h.maxBodyBytes, &req); errResp != nil {
		api.WriteError(w, errResp)
		return
	}
	if req.Expression == nil {
		api.WriteError(w, api.NewInvalidRequestError(api.CodeMissingField, "expression", "expression is required"))
		return
	}

	tokens, err := h.engine.Convert(r.Context(), history.SourceHTTP, *req.Expression)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, api.ConvertResponse{
		Expression: *req.Expression,
		Postfix:    token.Format(tokens),
		Tokens:     token.Texts(tokens),
	})
}

// Evaluate handles POST /v1/evaluate.
func (h *CalculatorHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req api.EvaluateRequest
	if errResp := decodeJSON(w, r, h.maxBodyBytes, &req); errResp != nil {
		api.WriteError(w, errResp)
		return
	}
	if req.Postfix == nil {
		api.WriteError(w, api.NewInvalidRequestError(api.CodeMissingField, "postfix", "postfix is required"))
		return
	}

	value, err := h.engine.EvaluatePostfix(r.Context(), history.SourceHTTP, *req.Postfix)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, api.EvaluateResponse{
		Postfix: *req.Postfix,
		Result:  value,
	})
}

func (h *CalculatorHandler) writeEngineError(w http.ResponseWriter, err error) {
	if errors.Is(err, engine.ErrExpressionTooLong) {
		api.WriteError(w, api.NewError(api.ErrorTypeTooLarge, api.CodeTooLong, err.Error()))
		return
	}

	resp := api.FromEvaluationError(err)
	if resp.Error.Type == api.ErrorTypeServerError {
		h.logger.Error("unexpected engine error", "error", err)
	}
	api.WriteError(w, resp)
}
