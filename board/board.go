// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package board builds the backend selected by the configuration.
//
// Callers hold the returned pigpio.Board and never branch on which backend
// provides it.  Operations a backend cannot perform return errors satisfying
// errors.Is(err, pigpio.ErrNotSupported).
package board

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/warthog618/go-pigpio"
	"github.com/warthog618/go-pigpio/internal/config"
	"github.com/warthog618/go-pigpio/internal/logging"
	"github.com/warthog618/go-pigpio/native"
	"github.com/warthog618/go-pigpio/pipe"
)

// Open constructs the backend named by cfg.Backend.
//
// A nil logger discards the backend logs.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pigpio.Board, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger = logging.NewComponentLogger(logger, cfg.Backend)
	var b *pigpio.Board
	var err error
	switch cfg.Backend {
	case config.BackendPipe:
		b, err = openPipe(cfg.Pipe, logger)
	case config.BackendNative:
		b, err = openNative(cfg.Native, logger)
	default:
		return nil, errors.Errorf("unsupported backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("board open")
	return b, nil
}

func openPipe(cfg config.Pipe, logger *slog.Logger) (*pigpio.Board, error) {
	p := pipe.Paths{
		Command: cfg.CommandPath,
		Result:  cfg.ResultPath,
		Error:   cfg.ErrorPath,
	}
	return pipe.Open(p,
		pipe.WithTimeout(cfg.Timeout()),
		pipe.WithLogger(logger))
}

func openNative(cfg config.Native, logger *slog.Logger) (*pigpio.Board, error) {
	return native.Open(
		native.WithChip(cfg.Chip),
		native.WithConsumer(cfg.Consumer),
		native.WithI2CPrefix(cfg.I2CPrefix),
		native.WithCPUInfo(cfg.CPUInfo),
		native.WithStopTimeout(cfg.StopTimeout()),
		native.WithLogger(logger))
}
