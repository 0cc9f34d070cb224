// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/warthog618/go-pigpio"
	"github.com/warthog618/go-pigpio/board"
	"github.com/warthog618/go-pigpio/internal/config"
	"github.com/warthog618/go-pigpio/internal/logging"
)

// commandContext lazily loads the configuration and opens the board shared
// by a single invocation.
type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	logger     *slog.Logger
	configErr  error

	board *pigpio.Board
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		level := cfg.Logging.Level
		if c.logLevelFlag != nil && *c.logLevelFlag != "" {
			level = *c.logLevelFlag
		}
		logger, err := logging.New(logging.Options{
			Level:  level,
			Format: cfg.Logging.Format,
			Output: os.Stderr,
		})
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.logger = logger
	})
	return c.config, c.configErr
}

// ensureBoard opens the configured backend, once.
func (c *commandContext) ensureBoard(ctx context.Context) (*pigpio.Board, error) {
	if c.board != nil {
		return c.board, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	b, err := board.Open(ctx, cfg, c.logger)
	if err != nil {
		return nil, err
	}
	c.board = b
	return b, nil
}

func (c *commandContext) close() error {
	if c.board == nil {
		return nil
	}
	b := c.board
	c.board = nil
	return b.Close()
}
