/*
Package tls builds the HTTPS configuration for the rpncalc service.

# Server Configuration

	tlsConfig, err := tls.ServerConfig(ctx, &cfg.Server.TLS, logger)
	if err != nil {
		return err
	}
	ln = crypto_tls.NewListener(ln, tlsConfig)

ServerConfig returns nil when TLS is disabled. The certificate is served
through a CertificateReloader, so renewed files on disk are picked up
without a restart. Setting client_ca_file turns on mutual TLS.

# Certificate Rotation

The reloader checks the files' modification times every reload_interval.
A renewed pair that fails to load or is expired is logged and the previous
certificate stays in use.
*/
package tls
