package api

import "intlab/rpncalc/pkg/history"

// CalculateRequest is the body of POST /v1/calculate and POST /v1/convert.
type CalculateRequest struct {
	// Expression is the infix input. It is required but may be blank,
	// which evaluates to an empty_input error.
	Expression *string `json:"expression"`
}

// CalculateResponse is the result of POST /v1/calculate.
type CalculateResponse struct {
	Expression string  `json:"expression"`
	Normalized string  `json:"normalized"`
	Postfix    string  `json:"postfix"`
	Result     float64 `json:"result"`
}

// ConvertResponse is the result of POST /v1/convert.
type ConvertResponse struct {
	Expression string   `json:"expression"`
	Postfix    string   `json:"postfix"`
	Tokens     []string `json:"tokens"`
}

// EvaluateRequest is the body of POST /v1/evaluate.
type EvaluateRequest struct {
	// Postfix is whitespace separated RPN, for example "3 4 +".
	Postfix *string `json:"postfix"`
}

// EvaluateResponse is the result of POST /v1/evaluate.
type EvaluateResponse struct {
	Postfix string  `json:"postfix"`
	Result  float64 `json:"result"`
}

// HistoryResponse is the result of GET /v1/history.
type HistoryResponse struct {
	Records []*history.Record `json:"records"`

	// Total is the number of records matching the filters, ignoring
	// limit and offset.
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}
