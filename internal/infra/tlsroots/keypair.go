package tlsroots

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/yndnr/devkit/internal/infra/confloader"
)

// Keypair is a certificate and key loaded from files. Reload swaps the
// pair atomically; a failed reload keeps serving the previous pair.
type Keypair struct {
	certFile string
	keyFile  string
	cert     atomic.Pointer[tls.Certificate]
	logger   *slog.Logger
}

// LoadKeypair loads certFile and keyFile. A nil logger uses slog.Default().
func LoadKeypair(certFile, keyFile string, logger *slog.Logger) (*Keypair, error) {
	if logger == nil {
		logger = slog.Default()
	}
	kp := &Keypair{
		certFile: certFile,
		keyFile:  keyFile,
		logger:   logger,
	}
	if err := kp.Reload(); err != nil {
		return nil, err
	}
	return kp, nil
}

// Reload reads the pair from disk again.
func (k *Keypair) Reload() error {
	cert, err := tls.LoadX509KeyPair(k.certFile, k.keyFile)
	if err != nil {
		return fmt.Errorf("tlsroots: load key pair: %w", err)
	}
	k.cert.Store(&cert)

	k.logger.Info("certificate loaded",
		"cert_file", k.certFile,
	)
	return nil
}

// Certificate returns the current pair.
func (k *Keypair) Certificate() *tls.Certificate {
	return k.cert.Load()
}

// GetCertificate implements tls.Config.GetCertificate.
func (k *Keypair) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	return k.cert.Load(), nil
}

// Watch registers the pair's files with w and reloads on their changes.
// Changes to other files watched by w are ignored.
func (k *Keypair) Watch(w *confloader.Watcher) error {
	own := make(map[string]struct{}, 2)
	for _, f := range []string{k.certFile, k.keyFile} {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		if err := w.Watch(abs); err != nil {
			return err
		}
		own[abs] = struct{}{}
	}

	w.OnChange(func(path string) {
		if _, ok := own[path]; !ok {
			return
		}
		if err := k.Reload(); err != nil {
			k.logger.Error("certificate reload failed, keeping previous",
				"cert_file", k.certFile,
				"key_file", k.keyFile,
				"error", err,
			)
		}
	})
	return nil
}
