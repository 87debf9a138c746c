package config

import (
	"errors"
	"time"
)

// Log levels as configured in LOG_LEVEL.
const (
	DEBUG_LEVEL = iota
	INFO_LEVEL
	WARN_LEVEL
	ERROR_LEVEL
	FATAL_LEVEL
)

var (
	ErrInvalidLevel      = errors.New("log level must be between 0 (debug) and 4 (fatal)")
	ErrInvalidTimeFormat = errors.New("log time format is empty")
)

type Configuration struct {
	Level      int
	TimeFormat string
	// File enables a rotated log file next to the console output.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func (c *Configuration) Validate() error {
	if c.Level < DEBUG_LEVEL || c.Level > FATAL_LEVEL {
		return ErrInvalidLevel
	}
	if c.TimeFormat == "" {
		return ErrInvalidTimeFormat
	}
	if _, err := time.Parse(c.TimeFormat, time.Now().Format(c.TimeFormat)); err != nil {
		return err
	}
	return nil
}
