package vina

import (
	"bytes"
	"context"
	"os/exec"
)

// Runner executes an engine binary and returns its captured output.
type Runner interface {
	Run(ctx context.Context, binary string, args []string) (stdout, stderr []byte, err error)
}

// ExecRunner runs binaries with os/exec.
type ExecRunner struct {
	// Dir is the working directory of the child; empty inherits ours.
	Dir string
}

// Run starts binary and waits for it.  The call blocks until the engine
// exits; cancelling ctx kills the child.
func (r ExecRunner) Run(ctx context.Context, binary string, args []string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = r.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

//Personal.AI order the ending
