package config

import (
	"errors"
	"fmt"
)

// ffmpeg rejects CRF values outside this range for the encoders we target.
const maxCRF = 51

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTranscode(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.LibraryDir == "" {
		return errors.New("paths.library_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateTranscode() error {
	if c.Transcode.TargetHeight < 2 {
		return errors.New("transcode.target_height must be at least 2")
	}
	if c.Transcode.TargetHeight%2 != 0 {
		return errors.New("transcode.target_height must be even")
	}
	if c.Transcode.CRF < 0 || c.Transcode.CRF > maxCRF {
		return fmt.Errorf("transcode.crf must be between 0 and %d", maxCRF)
	}
	if c.Transcode.Encoder == "" {
		return errors.New("transcode.encoder must be set")
	}
	if c.Transcode.Preset == "" {
		return errors.New("transcode.preset must be set")
	}
	if c.Transcode.DurationToleranceSeconds <= 0 {
		return errors.New("transcode.duration_tolerance_seconds must be positive")
	}
	return nil
}
