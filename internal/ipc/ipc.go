// Package ipc provides the local Unix-socket channel between the clipdiff
// CLI entry points (open, focus, status) and running agent processes, plus
// the on-disk agent registry that routes a URI request to the currently
// focused window.
//
// Each agent listens on its own socket under the runtime directory and
// maintains a registry entry beside it. The registry is advisory: entries
// whose socket no longer answers a dial belong to dead agents and are
// skipped.
package ipc

import (
	"net"
	"os"
	"path/filepath"
	"time"
)

// DialTimeout bounds the liveness probe and CLI request dials.
const DialTimeout = 2 * time.Second

// RuntimeDir returns the directory holding agent sockets and registry
// entries.
//
//   - $CLIPDIFF_RUNTIME_DIR when set
//   - $XDG_RUNTIME_DIR/clipdiff (Linux)
//   - $TMPDIR/clipdiff otherwise
func RuntimeDir() string {
	if s := os.Getenv("CLIPDIFF_RUNTIME_DIR"); s != "" {
		return s
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "clipdiff")
	}
	return filepath.Join(os.TempDir(), "clipdiff")
}

// SocketPath returns the socket path for the agent with the given id.
func SocketPath(dir, id string) string {
	return filepath.Join(dir, "agent-"+id+".sock")
}

// Listen creates a net.Listener on the agent's socket, removing any stale
// socket file from a previous (crashed) run first.
func Listen(dir, id string) (net.Listener, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	path := SocketPath(dir, id)
	_ = os.Remove(path)
	return net.Listen("unix", path)
}

// Dial connects to an agent socket.
func Dial(socket string) (net.Conn, error) {
	return net.DialTimeout("unix", socket, DialTimeout)
}

// probe reports whether anything is listening on socket. A cheap
// dial-and-close; no data is exchanged.
func probe(socket string) bool {
	c, err := Dial(socket)
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}
