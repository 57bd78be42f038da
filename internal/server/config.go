package server

import (
	"time"

	"github.com/slatelisp/nrepld/internal/protocol/bencode"
)

// ServiceConfig carries runtime settings for one Service.
type ServiceConfig struct {
	// ListenAddr is the protocol listener address.
	ListenAddr string
	// AdminListenAddr enables the HTTP admin surface when non-empty.
	AdminListenAddr string
	// ReadTimeout bounds one request read. Zero lets requests arrive
	// arbitrarily late, which suits trusted local tooling.
	ReadTimeout time.Duration
	// WriteTimeout bounds one reply write.
	WriteTimeout time.Duration
	// Limits bounds decoded request sizes.
	Limits bencode.Limits
}

// DefaultServiceConfig returns settings for local tooling use.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		ListenAddr:      "127.0.0.1:5555",
		AdminListenAddr: "",
		ReadTimeout:     0,
		WriteTimeout:    10 * time.Second,
		Limits:          bencode.DefaultLimits(),
	}
}
