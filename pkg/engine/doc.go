// Package engine runs calculations for the CLI and HTTP front ends.
//
// It wraps rpn.Calculator with a span per call, evaluation metrics,
// asynchronous history recording and an input length limit. Calculator
// settings can be replaced at runtime with Apply, which serve uses for
// config hot reload.
package engine
