package tls

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"
)

const defaultReloadInterval = 5 * time.Minute

// keyPair is one loaded certificate together with the modification times of
// the files it came from.
type keyPair struct {
	cert    *tls.Certificate
	leaf    *x509.Certificate
	certMod time.Time
	keyMod  time.Time
}

// CertificateReloader serves a certificate pair from disk. It polls the
// files' modification times and swaps in a new pair when either changes.
type CertificateReloader struct {
	certFile string
	keyFile  string
	interval time.Duration
	logger   *slog.Logger
	current  atomic.Pointer[keyPair]

	// now is replaceable in tests.
	now func() time.Time
}

// NewCertificateReloader creates a reloader polling every interval, or every
// five minutes when interval is not positive.
func NewCertificateReloader(certFile, keyFile string, interval time.Duration, logger *slog.Logger) *CertificateReloader {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = defaultReloadInterval
	}
	return &CertificateReloader{
		certFile: certFile,
		keyFile:  keyFile,
		interval: interval,
		logger:   logger.With("component", "tls"),
		now:      time.Now,
	}
}

// Start loads the pair and polls for changes until ctx is cancelled.
func (r *CertificateReloader) Start(ctx context.Context) error {
	kp, err := r.load()
	if err != nil {
		return err
	}
	r.install(kp, "certificate loaded")

	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.CheckReload()
			}
		}
	}()
	return nil
}

// CheckReload reloads the pair if either file is newer than the loaded one.
// A pair that fails to load or validate is logged and the old one kept.
func (r *CertificateReloader) CheckReload() {
	certMod, keyMod, err := r.modTimes()
	if err != nil {
		return
	}
	if old := r.current.Load(); old != nil && !certMod.After(old.certMod) && !keyMod.After(old.keyMod) {
		return
	}

	kp, err := r.load()
	if err != nil {
		r.logger.Error("failed to reload certificate",
			"error", err,
			"cert_file", r.certFile,
			"key_file", r.keyFile,
		)
		return
	}
	r.install(kp, "certificate reloaded")
}

// GetCertificate returns the current certificate, nil before Start.
func (r *CertificateReloader) GetCertificate() *tls.Certificate {
	if kp := r.current.Load(); kp != nil {
		return kp.cert
	}
	return nil
}

// GetCertificateFunc adapts the reloader to tls.Config.GetCertificate.
func (r *CertificateReloader) GetCertificateFunc() func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	return func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
		return r.GetCertificate(), nil
	}
}

func (r *CertificateReloader) modTimes() (certMod, keyMod time.Time, err error) {
	ci, err := os.Stat(r.certFile)
	if err != nil {
		return certMod, keyMod, err
	}
	ki, err := os.Stat(r.keyFile)
	if err != nil {
		return certMod, keyMod, err
	}
	return ci.ModTime(), ki.ModTime(), nil
}

func (r *CertificateReloader) load() (*keyPair, error) {
	certMod, keyMod, err := r.modTimes()
	if err != nil {
		return nil, err
	}
	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return nil, err
	}
	if err := ValidateCertificate(&cert, r.now()); err != nil {
		return nil, err
	}
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}
	return &keyPair{cert: &cert, leaf: leaf, certMod: certMod, keyMod: keyMod}, nil
}

func (r *CertificateReloader) install(kp *keyPair, msg string) {
	r.current.Store(kp)

	days := DaysUntilExpiry(kp.leaf, r.now())
	attrs := []any{
		"cert_file", r.certFile,
		"subject", kp.leaf.Subject.CommonName,
		"issuer", kp.leaf.Issuer.CommonName,
		"expires_at", kp.leaf.NotAfter.Format(time.RFC3339),
		"expires_in_days", days,
	}
	if days < expiryWarningDays {
		r.logger.Warn(msg+", expiring soon", attrs...)
		return
	}
	r.logger.Info(msg, attrs...)
}
