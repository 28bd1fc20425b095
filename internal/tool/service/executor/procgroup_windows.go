//go:build windows

package executor

import (
	"errors"
	"os/exec"
)

var errNoInterrupt = errors.New("interrupt is not supported on windows")

func setProcessGroup(cmd *exec.Cmd) {}

func interruptGroup(cmd *exec.Cmd) error { return errNoInterrupt }

func killGroup(cmd *exec.Cmd) {
	_ = cmd.Process.Kill()
}
