package executor

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"
)

// Result represents the outcome of a command execution.
// ExitCode is -1 when the process was killed or never reported one.
type Result struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	Truncated bool
	TimedOut  bool
}

// Options bounds a single execution.
type Options struct {
	MaxOutputBytes int64
	// Grace is how long an interrupted process gets before it is killed,
	// and how long Wait keeps draining pipes held open by descendants.
	Grace time.Duration
}

// OSCommandExecutor runs argv vectors directly through os/exec. It never
// invokes a shell interpreter.
type OSCommandExecutor struct {
	opts Options
}

// NewOSCommandExecutor creates an executor with the given limits.
func NewOSCommandExecutor(opts Options) *OSCommandExecutor {
	if opts.MaxOutputBytes <= 0 {
		panic("MaxOutputBytes must be positive")
	}
	if opts.Grace <= 0 {
		opts.Grace = time.Second
	}
	return &OSCommandExecutor{opts: opts}
}

// RunWithTimeout starts argv in dir with env and waits for it to exit.
// Both output streams are fully drained before the exit code is read. On
// Unix the command leads its own process group, and interrupts and kills
// reach every process in it.
//
// A non-zero exit is reported through Result.ExitCode, not as an error.
// On timeout the process is interrupted, then killed after the grace
// period; the partial output is returned together with ErrTimeout.
// Cancelling ctx kills the process and returns ctx.Err().
func (e *OSCommandExecutor) RunWithTimeout(ctx context.Context, argv []string, dir string, env []string, timeout time.Duration) (*Result, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, os.ErrInvalid
	}

	stdout := newCollector(int(e.opts.MaxOutputBytes), 8000)
	stderr := newCollector(int(e.opts.MaxOutputBytes), 8000)

	// Not CommandContext: timeouts get an interrupt before the kill.
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdin = nil
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = e.opts.Grace
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return nil, &CommandError{Cmd: argv[0], Stage: "start", Cause: err}
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var runErr error
	timedOut := false
	select {
	case err := <-done:
		runErr = err
	case <-ctx.Done():
		killGroup(cmd)
		<-done
		runErr = ctx.Err()
	case <-timer.C:
		timedOut = true
		e.interrupt(cmd, done)
		runErr = ErrTimeout
	}

	res := &Result{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		ExitCode:  exitCode(cmd),
		Truncated: stdout.Truncated() || stderr.Truncated(),
		TimedOut:  timedOut,
	}
	if timedOut {
		res.ExitCode = -1
	}

	var exitErr *exec.ExitError
	switch {
	case runErr == nil, errors.As(runErr, &exitErr), errors.Is(runErr, exec.ErrWaitDelay):
		return res, nil
	default:
		return res, runErr
	}
}

// interrupt asks the process to stop and kills it if it has not exited
// within the grace period. It returns once Wait has returned.
func (e *OSCommandExecutor) interrupt(cmd *exec.Cmd, done <-chan error) {
	if interruptGroup(cmd) != nil {
		killGroup(cmd)
		<-done
		return
	}

	grace := time.NewTimer(e.opts.Grace)
	defer grace.Stop()
	select {
	case <-done:
		// Background jobs ignore the interrupt and outlive the leader.
		killGroup(cmd)
	case <-grace.C:
		killGroup(cmd)
		<-done
	}
}

func exitCode(cmd *exec.Cmd) int {
	if cmd.ProcessState == nil {
		return -1
	}
	return cmd.ProcessState.ExitCode()
}
