// Package handlers implements the rpncalc HTTP endpoints.
//
//	POST /v1/calculate  {"expression": "2*(3+4)"}  -> result and postfix
//	POST /v1/convert    {"expression": "2*(3+4)"}  -> postfix only
//	POST /v1/evaluate   {"postfix": "2 3 4 + *"}   -> result
//	GET  /v1/history    ?status=error&limit=20     -> recorded evaluations
//
// Evaluation failures answer 422 with the error kind and position.
// Malformed bodies answer 400 and oversized ones 413.
package handlers
