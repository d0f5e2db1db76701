// Package security groups transport security and client authentication for
// the rpncalc service. See the tls and auth subpackages.
package security
