/*
Package auth provides API key authentication for the rpncalc service.

Keys come from the server.auth section of the configuration. A key may be
given inline or through an environment variable:

	server:
	  auth:
	    enabled: true
	    keys:
	      - name: ci
	        key_env: RPNCALC_CI_KEY

The middleware accepts the key from the configured header (X-API-Key by
default) or from "Authorization: Bearer <key>". Rejected requests get a 401
error response. Accepted requests carry the key's info in their context:

	if info, ok := auth.GetAPIKeyInfo(r.Context()); ok {
		logger.Debug("request", "client", info.Name)
	}
*/
package auth
