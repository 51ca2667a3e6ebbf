// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package exec

import (
	"context"
	"fmt"
)

type SequentialProcesses struct {
	sequence []*Process
}

// NewSequential returns a newly generated SequentialProcesses structure with
// the provided processes
func NewSequential(sequence ...*Process) (*SequentialProcesses, error) {
	if len(sequence) == 0 {
		return nil, fmt.Errorf("cannot run an empty sequence of processes")
	}

	return &SequentialProcesses{
		sequence: sequence,
	}, nil
}

// Processes returns the processes in the order they will be started
func (sq *SequentialProcesses) Processes() []*Process {
	return sq.sequence
}

// StartAndWait sequentially starts the list of processes and waits for it to
// complete before starting the next.  The first failure stops the sequence.
func (sq *SequentialProcesses) StartAndWait(ctx context.Context) error {
	for _, process := range sq.sequence {
		if err := process.StartAndWait(ctx); err != nil {
			return fmt.Errorf("%s: %w", process.Cmdline(), err)
		}
	}

	return nil
}
