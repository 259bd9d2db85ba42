// Package profile holds the runtime configuration resolved from flags and
// TIMENLU_* environment variables.
package profile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Profile is the configuration to start the CLI or server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for the HTTP server
	Addr string
	// Port is the binding port for the HTTP server
	Port int
	// Language selects the grammar: "chinese" or "english"
	Language string
	// CacheDir is where the compiled grammar artifact lives
	CacheDir string
	// OverwriteCache forces grammar recompilation
	OverwriteCache bool
	// Version is the build version
	Version string
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// Validate normalizes and checks the profile; it is called once at startup
// and failures are fatal.
func (p *Profile) Validate() error {
	if p.Mode != "prod" && p.Mode != "dev" {
		p.Mode = "dev"
	}
	if p.Language != "chinese" && p.Language != "english" {
		return errors.Errorf("unsupported language %q (want chinese or english)", p.Language)
	}
	if p.Port < 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}
	if p.CacheDir != "" {
		abs, err := filepath.Abs(p.CacheDir)
		if err != nil {
			return errors.Wrapf(err, "resolve cache dir %q", p.CacheDir)
		}
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return errors.Wrapf(err, "create cache dir %q", abs)
		}
		p.CacheDir = abs
	}
	return nil
}

// ListenAddr returns the host:port the server binds to.
func (p *Profile) ListenAddr() string {
	return fmt.Sprintf("%s:%d", p.Addr, p.Port)
}

// FromViper builds a profile from the bound flag/env state.
func FromViper(version string) (*Profile, error) {
	p := &Profile{
		Mode:           viper.GetString("mode"),
		Addr:           viper.GetString("addr"),
		Port:           viper.GetInt("port"),
		Language:       viper.GetString("language"),
		CacheDir:       viper.GetString("cache-dir"),
		OverwriteCache: viper.GetBool("overwrite-cache"),
		Version:        version,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
