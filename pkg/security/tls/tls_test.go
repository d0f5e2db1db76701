package tls

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"io"
	"log/slog"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"intlab/rpncalc/pkg/config"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// writeCert writes a self-signed certificate and its key into dir.
func writeCert(t *testing.T, dir, cn string, notBefore, notAfter time.Time) (string, string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	template := &x509.Certificate{
		SerialNumber:          big.NewInt(time.Now().UnixNano()),
		Subject:               pkix.Name{CommonName: cn},
		NotBefore:             notBefore,
		NotAfter:              notAfter,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		DNSNames:              []string{"localhost"},
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("CreateCertificate: %v", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("MarshalECPrivateKey: %v", err)
	}

	certPath := filepath.Join(dir, "cert.pem")
	keyPath := filepath.Join(dir, "key.pem")
	writePEM(t, certPath, "CERTIFICATE", der)
	writePEM(t, keyPath, "EC PRIVATE KEY", keyDER)
	return certPath, keyPath
}

func writePEM(t *testing.T, path, blockType string, der []byte) {
	t.Helper()
	data := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func leafCN(t *testing.T, cert *tls.Certificate) string {
	t.Helper()
	if cert == nil {
		t.Fatal("certificate is nil")
	}
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		t.Fatalf("ParseCertificate: %v", err)
	}
	return leaf.Subject.CommonName
}

func TestServerConfig_Disabled(t *testing.T) {
	tlsConfig, err := ServerConfig(context.Background(), &config.TLSConfig{}, discard)
	if err != nil || tlsConfig != nil {
		t.Errorf("ServerConfig() = %v, %v; want nil, nil", tlsConfig, err)
	}
}

func TestServerConfig(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	certFile, keyFile := writeCert(t, dir, "rpncalc", now.Add(-time.Hour), now.Add(90*24*time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tests := []struct {
		name        string
		minVersion  string
		clientCA    string
		wantVersion uint16
		wantAuth    tls.ClientAuthType
	}{
		{"default version", "", "", tls.VersionTLS13, tls.NoClientCert},
		{"TLS 1.2", "1.2", "", tls.VersionTLS12, tls.NoClientCert},
		{"mutual TLS", "1.3", certFile, tls.VersionTLS13, tls.RequireAndVerifyClientCert},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.TLSConfig{
				Enabled:      true,
				CertFile:     certFile,
				KeyFile:      keyFile,
				MinVersion:   tt.minVersion,
				ClientCAFile: tt.clientCA,
			}
			tlsConfig, err := ServerConfig(ctx, cfg, discard)
			if err != nil {
				t.Fatalf("ServerConfig() error = %v", err)
			}
			if tlsConfig.MinVersion != tt.wantVersion {
				t.Errorf("MinVersion = %x, want %x", tlsConfig.MinVersion, tt.wantVersion)
			}
			if tlsConfig.ClientAuth != tt.wantAuth {
				t.Errorf("ClientAuth = %v, want %v", tlsConfig.ClientAuth, tt.wantAuth)
			}

			cert, err := tlsConfig.GetCertificate(&tls.ClientHelloInfo{})
			if err != nil {
				t.Fatalf("GetCertificate() error = %v", err)
			}
			if cn := leafCN(t, cert); cn != "rpncalc" {
				t.Errorf("CN = %q, want %q", cn, "rpncalc")
			}
		})
	}
}

func TestServerConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	certFile, keyFile := writeCert(t, dir, "rpncalc", now.Add(-48*time.Hour), now.Add(-24*time.Hour))

	notPEM := filepath.Join(dir, "ca.txt")
	if err := os.WriteFile(notPEM, []byte("not a certificate"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		cfg  config.TLSConfig
	}{
		{"missing cert file", config.TLSConfig{Enabled: true, KeyFile: keyFile}},
		{"missing key file", config.TLSConfig{Enabled: true, CertFile: certFile}},
		{"nonexistent files", config.TLSConfig{Enabled: true, CertFile: filepath.Join(dir, "none.pem"), KeyFile: keyFile}},
		{"expired certificate", config.TLSConfig{Enabled: true, CertFile: certFile, KeyFile: keyFile}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ServerConfig(context.Background(), &tt.cfg, discard); err == nil {
				t.Error("ServerConfig() expected error")
			}
		})
	}

	t.Run("client CA without certificates", func(t *testing.T) {
		validDir := t.TempDir()
		validCert, validKey := writeCert(t, validDir, "rpncalc", now.Add(-time.Hour), now.Add(time.Hour))
		cfg := config.TLSConfig{Enabled: true, CertFile: validCert, KeyFile: validKey, ClientCAFile: notPEM}
		if _, err := ServerConfig(context.Background(), &cfg, discard); err == nil {
			t.Error("ServerConfig() expected error")
		}
	})
}

func TestCertificateReloader_CheckReload(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	certFile, keyFile := writeCert(t, dir, "first", now.Add(-time.Hour), now.Add(24*time.Hour))

	reloader := NewCertificateReloader(certFile, keyFile, time.Hour, discard)
	if err := reloader.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if cn := leafCN(t, reloader.GetCertificate()); cn != "first" {
		t.Fatalf("CN = %q, want %q", cn, "first")
	}

	// Unchanged files are not reloaded.
	reloader.CheckReload()
	if cn := leafCN(t, reloader.GetCertificate()); cn != "first" {
		t.Errorf("CN after no-op check = %q, want %q", cn, "first")
	}

	later := now.Add(time.Minute)
	writeCert(t, dir, "second", now.Add(-time.Hour), now.Add(24*time.Hour))
	for _, f := range []string{certFile, keyFile} {
		if err := os.Chtimes(f, later, later); err != nil {
			t.Fatal(err)
		}
	}
	reloader.CheckReload()
	if cn := leafCN(t, reloader.GetCertificate()); cn != "second" {
		t.Errorf("CN after rotation = %q, want %q", cn, "second")
	}

	// A broken pair keeps the previous certificate.
	if err := os.WriteFile(certFile, []byte("garbage"), 0o600); err != nil {
		t.Fatal(err)
	}
	later = later.Add(time.Minute)
	if err := os.Chtimes(certFile, later, later); err != nil {
		t.Fatal(err)
	}
	reloader.CheckReload()
	if cn := leafCN(t, reloader.GetCertificate()); cn != "second" {
		t.Errorf("CN after failed reload = %q, want %q", cn, "second")
	}
}

func TestValidateCertificate(t *testing.T) {
	if err := ValidateCertificate(nil, time.Now()); err == nil {
		t.Error("nil certificate: expected error")
	}

	dir := t.TempDir()
	now := time.Now()
	certFile, keyFile := writeCert(t, dir, "rpncalc", now.Add(time.Hour), now.Add(48*time.Hour))
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		t.Fatal(err)
	}

	if err := ValidateCertificate(&cert, now); err == nil {
		t.Error("certificate not yet valid: expected error")
	}
	if err := ValidateCertificate(&cert, now.Add(2*time.Hour)); err != nil {
		t.Errorf("valid certificate: unexpected error %v", err)
	}
	if err := ValidateCertificate(&cert, now.Add(72*time.Hour)); err == nil {
		t.Error("expired certificate: expected error")
	}

	leaf, _ := x509.ParseCertificate(cert.Certificate[0])
	if got := DaysUntilExpiry(leaf, now.Add(time.Hour)); got != 1 {
		t.Errorf("DaysUntilExpiry() = %d, want 1", got)
	}
}
