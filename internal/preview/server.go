// Package preview serves a built bundle over loopback HTTP for
// inspection before deployment.
package preview

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
)

// Info describes a running preview server.
type Info struct {
	Port int
	URL  string
}

// Manager owns at most one preview server. Starting while one is
// running supersedes it; stopping when none is running is a no-op.
type Manager struct {
	// Host is the bind address; loopback only.
	Host string
	// StartPort is the first port tried.
	StartPort int
	// MaxAttempts is how many consecutive ports are tried when the
	// start port is taken.
	MaxAttempts int

	mu  sync.Mutex
	srv *echo.Echo
	ln  net.Listener
}

// NewManager returns a Manager with the default port policy.
func NewManager() *Manager {
	return &Manager{Host: "127.0.0.1", StartPort: 8080, MaxAttempts: 20}
}

// Start serves the bundle at distDir. It refuses to start when the
// bundle does not exist, and scans forward from StartPort while the
// port is already in use; any other bind error is immediately fatal.
func (m *Manager) Start(distDir string) (Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()

	fi, err := os.Stat(distDir)
	if err != nil || !fi.IsDir() {
		return Info{}, fmt.Errorf("bundle directory %s not found — build the site first", distDir)
	}
	root, err := filepath.Abs(distDir)
	if err != nil {
		return Info{}, err
	}

	ln, port, err := m.listen()
	if err != nil {
		return Info{}, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/*", serveBundle(root))
	e.Listener = ln

	m.srv = e
	m.ln = ln
	go func() {
		// Shutdown reports http.ErrServerClosed through Start.
		_ = e.Start("")
	}()

	return Info{Port: port, URL: fmt.Sprintf("http://%s:%d", m.Host, port)}, nil
}

// Stop shuts the running server down, if any.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

func (m *Manager) stopLocked() {
	if m.srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = m.srv.Shutdown(ctx)
	// The serve goroutine may not have picked up the listener yet, in
	// which case Shutdown has nothing to close. Close it directly so
	// the port is free by the time this returns.
	if m.ln != nil {
		_ = m.ln.Close()
		m.ln = nil
	}
	m.srv = nil
}

// listen binds the first free port in the scan range.
func (m *Manager) listen() (net.Listener, int, error) {
	for i := 0; i < m.MaxAttempts; i++ {
		port := m.StartPort + i
		ln, err := net.Listen("tcp", net.JoinHostPort(m.Host, strconv.Itoa(port)))
		if err == nil {
			return ln, port, nil
		}
		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, 0, fmt.Errorf("binding preview server: %w", err)
		}
	}
	return nil, 0, fmt.Errorf("no free port between %d and %d",
		m.StartPort, m.StartPort+m.MaxAttempts-1)
}

var contentTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".json": "application/json",
	".svg":  "image/svg+xml",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// serveBundle maps request paths onto bundle files. A resolved path
// that escapes the bundle root is forbidden; an unreadable file is not
// found; unknown extensions fall back to a generic binary type.
func serveBundle(root string) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqPath := c.Request().URL.Path
		if reqPath == "/" {
			reqPath = "/index.html"
		}
		resolved, err := filepath.Abs(filepath.Join(root, filepath.FromSlash(reqPath)))
		if err != nil || !withinRoot(root, resolved) {
			return c.String(http.StatusForbidden, "Forbidden")
		}
		data, err := os.ReadFile(resolved)
		if err != nil {
			return c.String(http.StatusNotFound, "Not Found")
		}
		ct, ok := contentTypes[strings.ToLower(filepath.Ext(resolved))]
		if !ok {
			ct = "application/octet-stream"
		}
		return c.Blob(http.StatusOK, ct, data)
	}
}

func withinRoot(root, resolved string) bool {
	return resolved == root || strings.HasPrefix(resolved, root+string(os.PathSeparator))
}
