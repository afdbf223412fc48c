// Copyright 2023 Greenmask
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd_runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const stderrTailSize = 5

// Run - runs the external command and forwards every stdout and stderr line into the logger. When the command
// fails the last stderr lines are attached to the returned error
func Run(ctx context.Context, logger *zerolog.Logger, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)

	errReader, errWriter := io.Pipe()
	defer errReader.Close()
	outReader, outWriter := io.Pipe()
	defer outReader.Close()

	cmd.Stderr = errWriter
	cmd.Stdout = outWriter
	logger.Debug().Str("Executable", name).Strs("Args", args).Msg("running external command")
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("external command runtime error: %w", err)
	}

	stderrTail := &lineTail{size: stderrTailSize}
	eg := &errgroup.Group{}

	eg.Go(func() error {
		return forward(errReader, func(line string) {
			stderrTail.push(line)
			logger.Warn().Str("Executable", name).Str("Stderr", line).Msg("stderr forwarding")
		})
	})

	eg.Go(func() error {
		return forward(outReader, func(line string) {
			logger.Debug().Str("Executable", name).Str("Stdout", line).Msg("stdout forwarding")
		})
	})

	eg.Go(func() error {
		defer outWriter.Close()
		defer errWriter.Close()
		if err := cmd.Wait(); err != nil {
			return fmt.Errorf("external command runtime error: %w", err)
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		if lines := stderrTail.lines(); len(lines) > 0 {
			return fmt.Errorf("cannot execute command %s (%s): %w", name, strings.Join(lines, "; "), err)
		}
		return fmt.Errorf("cannot execute command %s: %w", name, err)
	}
	return nil
}

// forward - reads the stream until EOF. The writer side is closed once the command exits, including the
// cancellation case, so the context is not checked here
func forward(r io.Reader, handle func(line string)) error {
	lineScanner := bufio.NewReader(r)
	for {
		line, _, err := lineScanner.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		handle(string(line))
	}
}

// lineTail - keeps the last N lines written into it
type lineTail struct {
	mx    sync.Mutex
	size  int
	items []string
}

func (lt *lineTail) push(line string) {
	lt.mx.Lock()
	defer lt.mx.Unlock()
	lt.items = append(lt.items, line)
	if len(lt.items) > lt.size {
		lt.items = lt.items[len(lt.items)-lt.size:]
	}
}

func (lt *lineTail) lines() []string {
	lt.mx.Lock()
	defer lt.mx.Unlock()
	return append([]string(nil), lt.items...)
}
