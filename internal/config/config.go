// Package config holds the run-time options for a conversion: which file
// to read, which lock-loss inference mode to use, and the GPS week
// rollover offset. It's deliberately small - this repository has no
// persistent configuration file, every run is driven entirely from CLI
// flags - but the fields are validated the same way a larger config
// struct would be.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// LLIMode selects which lock-tracker algorithm a conversion run uses.
type LLIMode string

const (
	LLIModeStandard LLIMode = "standard"
	LLIModeRTKLIB   LLIMode = "rtklib"
)

// Config holds one conversion run's options.
type Config struct {
	// InputPath is the RTCM3 capture file to convert.
	InputPath string `validate:"required"`

	// Gzip indicates InputPath is gzip-compressed and should be
	// decompressed before framing.
	Gzip bool

	// LLIMode selects the lock-tracker algorithm.
	LLIMode LLIMode `validate:"required,oneof=standard rtklib"`

	// WeekRolloverOffset is added to the 10-bit GPS week number read off
	// ephemeris messages. Zero means "use the decoder's default".
	WeekRolloverOffset uint64 `validate:"gte=0"`
}

// validate caches the struct field metadata validator builds on first use,
// the same way the rest of the ecosystem's validator callers do.
var validate = validator.New()

// Validate checks that c is well formed, returning the first violation
// found.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// OutputPath derives the RINEX observation file path for c's input: the
// input path with ".rnx" appended, or ".rtklib.rnx" when the simplified
// LLI mode is selected, so the two modes never collide on disk.
func (c *Config) OutputPath() string {
	if c.LLIMode == LLIModeRTKLIB {
		return c.InputPath + ".rtklib.rnx"
	}
	return c.InputPath + ".rnx"
}
