package config

import (
	"encoding/hex"
	"fmt"
	"net"
	"strings"

	"github.com/bidolabs/bidopool-go/identity"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if err := validateAddr(cfg.ListenAddr); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidListenAddr, err)
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if cfg.Owner == "" {
		return ErrMissingOwner
	}
	if _, err := identity.FromHex(cfg.Owner); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOwner, err)
	}

	// Token hash and salt come as a pair.
	if (cfg.AdminTokenHash == "") != (cfg.AdminTokenSalt == "") {
		return ErrPartialAdminToken
	}
	if cfg.AdminTokenHash != "" {
		if _, err := hex.DecodeString(cfg.AdminTokenHash); err != nil {
			return fmt.Errorf("%w: hash: %w", ErrInvalidAdminToken, err)
		}
		if _, err := hex.DecodeString(cfg.AdminTokenSalt); err != nil {
			return fmt.Errorf("%w: salt: %w", ErrInvalidAdminToken, err)
		}
	}

	return nil
}

// validateAddr checks that addr is a valid host:port address.
func validateAddr(addr string) error {
	_, _, err := net.SplitHostPort(addr)
	return err
}
