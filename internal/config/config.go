// Package config loads the kernel's boot-time configuration from an
// INI-style file, the same way the broader ingestion pack loads its
// configuration via gcfg.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	"github.com/gravwell/gcfg"
)

// maxConfigSize bounds how much of a boot config file we will read; a
// microkernel boot file is tiny, so this is generous headroom, not a
// meaningful limit in practice.
const maxConfigSize int64 = 1 << 20

var (
	ErrConfigFileTooLarge = errors.New("config: file is too large")
	ErrFailedFileRead     = errors.New("config: failed to read entire file")
)

// Boot holds every tunable read from the boot configuration file.
type Boot struct {
	Kernel struct {
		TickIntervalMS          int
		LogLevel                string
		CapabilityTableCapacity int
		HandlerTableCapacity    int
		MailboxCapacity         int
		HistorySize             int
		WatchdogPollIntervalMS  int
	}
}

// Default returns a Boot populated with the kernel's built-in defaults,
// used when no boot file is supplied.
func Default() *Boot {
	b := &Boot{}
	b.Kernel.TickIntervalMS = 10
	b.Kernel.LogLevel = "info"
	b.Kernel.CapabilityTableCapacity = 4096
	b.Kernel.HandlerTableCapacity = 128
	b.Kernel.MailboxCapacity = 16
	b.Kernel.HistorySize = 64
	b.Kernel.WatchdogPollIntervalMS = 50
	return b
}

// TickInterval returns the configured scheduler tick as a time.Duration.
func (b *Boot) TickInterval() time.Duration {
	return time.Duration(b.Kernel.TickIntervalMS) * time.Millisecond
}

// WatchdogPollInterval returns the configured watchdog poll rate.
func (b *Boot) WatchdogPollInterval() time.Duration {
	return time.Duration(b.Kernel.WatchdogPollIntervalMS) * time.Millisecond
}

// LoadFile reads and parses a boot configuration file at p, starting
// from the built-in defaults and overriding any field present in the
// file.
func LoadFile(p string) (*Boot, error) {
	fin, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer fin.Close()

	fi, err := fin.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() > maxConfigSize {
		return nil, ErrConfigFileTooLarge
	}

	bb := bytes.NewBuffer(nil)
	n, err := io.Copy(bb, fin)
	if err != nil {
		return nil, err
	}
	if n != fi.Size() {
		return nil, ErrFailedFileRead
	}

	return LoadBytes(bb.Bytes())
}

// LoadBytes parses the contents of b into a Boot, starting from defaults.
func LoadBytes(b []byte) (*Boot, error) {
	if int64(len(b)) > maxConfigSize {
		return nil, ErrConfigFileTooLarge
	}
	boot := Default()
	if err := gcfg.ReadStringInto(boot, string(b)); err != nil {
		return nil, err
	}
	return boot, nil
}
