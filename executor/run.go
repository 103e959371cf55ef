// Package executor shells out to kafka-reassign-partitions.sh to
// execute a reassignment document and polls it to completion. It
// never decides what to reassign; it only drives the external tool
// and reports what it said.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Throttle bounds the replication bandwidth kafka-reassign-partitions.sh
// is allowed to use while executing a reassignment, in bytes/sec. Zero
// means unthrottled.
type Throttle int64

// Run invokes `scriptPath --zookeeper zkAddr --reassignment-json-file
// planPath --execute [--throttle bytes]` and returns an error if the
// tool's own stderr or stdout mentions an exception, mirroring
// exec_reassign's scan of the subprocess output for the string
// "Exception" rather than trusting the exit code alone: the tool has
// historically exited 0 while still reporting a partial failure on
// stdout.
func Run(ctx context.Context, scriptPath, zkAddr, planPath string, throttle Throttle) error {
	args := []string{
		"--zookeeper", zkAddr,
		"--reassignment-json-file", planPath,
		"--execute",
	}
	if throttle > 0 {
		args = append(args, "--throttle", fmt.Sprintf("%d", throttle))
	}

	cmd := exec.CommandContext(ctx, scriptPath, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("executor: %s: %w: %s", scriptPath, err, out.String())
	}
	if strings.Contains(out.String(), "Exception") {
		return fmt.Errorf("executor: %s reported an exception: %s", scriptPath, out.String())
	}
	return nil
}

// Verify invokes the same tool with --verify instead of --execute, and
// returns its raw combined output for Status to parse.
func Verify(ctx context.Context, scriptPath, zkAddr, planPath string) (string, error) {
	cmd := exec.CommandContext(ctx, scriptPath,
		"--zookeeper", zkAddr,
		"--reassignment-json-file", planPath,
		"--verify",
	)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return out.String(), fmt.Errorf("executor: %s: %w", scriptPath, err)
	}
	return out.String(), nil
}
