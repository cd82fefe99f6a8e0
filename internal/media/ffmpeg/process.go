package ffmpeg

import (
	"bytes"
	"os/exec"
	"strings"
	"sync"
	"syscall"
)

const stderrTailLimit = 4 * 1024

// tailBuffer keeps the last few KiB a helper process wrote to stderr.
type tailBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf.Write(p)
	if extra := t.buf.Len() - stderrTailLimit; extra > 0 {
		t.buf.Next(extra)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.TrimSpace(t.buf.String())
}

func newCommand(binary string, args ...string) (*exec.Cmd, *tailBuffer) {
	cmd := exec.Command(binary, args...) //nolint:gosec
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	stderr := &tailBuffer{}
	cmd.Stderr = stderr
	return cmd, stderr
}

// withStderr appends the captured stderr to msg when there is any.
func withStderr(msg string, stderr *tailBuffer) string {
	if tail := stderr.String(); tail != "" {
		return msg + ": " + tail
	}
	return msg
}
