// Package api defines the JSON request, response and error bodies of the
// rpncalc HTTP API.
//
// Errors share one envelope:
//
//	{
//	    "error": {
//	        "message": "divide by 0",
//	        "type": "evaluation_error",
//	        "code": "divide_by_zero",
//	        "position": 2,
//	        "context": "  | 10/(5-5)\n  |   ^\n"
//	    }
//	}
package api
