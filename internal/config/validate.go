package config

import (
	"errors"
	"fmt"
	"strings"
)

var knownFileTypes = map[string]struct{}{
	"BINARY":   {},
	"MOTOROLA": {},
	"AIFF":     {},
	"WAVE":     {},
	"MP3":      {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateCue(); err != nil {
		return err
	}
	if err := c.validateCopy(); err != nil {
		return err
	}
	if c.Watch.SettleSeconds < 0 {
		return errors.New("watch.settle_seconds must be zero or positive")
	}
	return c.validateLogging()
}

func (c *Config) validateOutput() error {
	if strings.ContainsAny(c.Output.DirName, `/\`) || c.Output.DirName == "." || c.Output.DirName == ".." {
		return fmt.Errorf("output.dir_name %q must be a single directory name", c.Output.DirName)
	}
	if _, ok := knownFileTypes[c.Output.FileType]; !ok {
		return fmt.Errorf("output.file_type %q is not one of BINARY, MOTOROLA, AIFF, WAVE, MP3", c.Output.FileType)
	}
	return nil
}

func (c *Config) validateCue() error {
	switch c.Cue.Encoding {
	case EncodingAuto, EncodingUTF8, EncodingShiftJIS, EncodingGBK:
		return nil
	default:
		return fmt.Errorf("cue.encoding %q must be auto, utf-8, shift-jis or gbk", c.Cue.Encoding)
	}
}

func (c *Config) validateCopy() error {
	if c.Copy.BufferKiB <= 0 {
		return errors.New("copy.buffer_kib must be positive")
	}
	if c.Copy.BufferKiB > maxCopyBufferKiB {
		return fmt.Errorf("copy.buffer_kib must not exceed %d", maxCopyBufferKiB)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn or error", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be >= 0")
	}
	return nil
}
