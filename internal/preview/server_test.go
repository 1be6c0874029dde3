package preview_test

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"shelfsite/internal/preview"
)

// newBundle writes a minimal built bundle.
func newBundle(t *testing.T) string {
	t.Helper()
	dist := filepath.Join(t.TempDir(), "dist")
	if err := os.MkdirAll(filepath.Join(dist, "books"), 0755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"index.html":       "<html>preview</html>",
		"app.js":           "// app",
		"books/index.json": "[]\n",
		"data.bin":         "\x00\x01",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dist, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dist
}

func newManager(port int) *preview.Manager {
	m := preview.NewManager()
	m.StartPort = port
	m.MaxAttempts = 20
	return m
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestStart_MissingBundle(t *testing.T) {
	m := newManager(42400)
	if _, err := m.Start(filepath.Join(t.TempDir(), "dist")); err == nil {
		t.Fatal("expected error for missing bundle directory")
	}
}

func TestServe_RootAndContentTypes(t *testing.T) {
	m := newManager(42420)
	info, err := m.Start(newBundle(t))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer m.Stop()

	resp, body := get(t, info.URL+"/")
	if resp.StatusCode != http.StatusOK || body != "<html>preview</html>" {
		t.Errorf("root: %d %q", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("root content type = %q", ct)
	}

	resp, _ = get(t, info.URL+"/books/index.json")
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Errorf("json content type = %q", ct)
	}

	resp, _ = get(t, info.URL+"/data.bin")
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/octet-stream") {
		t.Errorf("unknown extension content type = %q", ct)
	}

	resp, _ = get(t, info.URL+"/missing.css")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing file: %d", resp.StatusCode)
	}
}

func TestServe_PathTraversalForbidden(t *testing.T) {
	dist := newBundle(t)
	// A real file one level above the bundle root.
	secret := filepath.Join(filepath.Dir(dist), "secret.txt")
	if err := os.WriteFile(secret, []byte("do not serve"), 0644); err != nil {
		t.Fatal(err)
	}

	m := newManager(42440)
	info, err := m.Start(dist)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer m.Stop()

	// http.Client cleans dot segments, so speak raw HTTP.
	conn, err := net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", info.Port))
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	fmt.Fprintf(conn, "GET /../secret.txt HTTP/1.1\r\nHost: 127.0.0.1\r\nConnection: close\r\n\r\n")
	resp, err := http.ReadResponse(bufio.NewReader(conn), nil)
	if err != nil {
		t.Fatalf("reading raw response: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("traversal request: %d, want 403", resp.StatusCode)
	}
	if strings.Contains(string(body), "do not serve") {
		t.Error("file outside the bundle root was served")
	}
}

func TestStart_PortScan(t *testing.T) {
	base := 42460
	// Occupy the start port so the manager has to scan forward.
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", base))
	if err != nil {
		t.Skipf("cannot bind %d: %v", base, err)
	}
	defer ln.Close()

	m := newManager(base)
	info, err := m.Start(newBundle(t))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer m.Stop()
	if info.Port != base+1 {
		t.Errorf("port = %d, want %d", info.Port, base+1)
	}
}

func TestStart_PortRangeExhausted(t *testing.T) {
	base := 42480
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", base))
	if err != nil {
		t.Skipf("cannot bind %d: %v", base, err)
	}
	defer ln.Close()

	m := newManager(base)
	m.MaxAttempts = 1
	if _, err := m.Start(newBundle(t)); err == nil {
		t.Fatal("expected error when every port in range is taken")
	}
}

func TestStart_SecondSupersedesFirst(t *testing.T) {
	dist := newBundle(t)
	m := newManager(42500)
	// Only one port available: a second Start can only succeed if the
	// first server was stopped.
	m.MaxAttempts = 1

	info1, err := m.Start(dist)
	if err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if resp, _ := get(t, info1.URL+"/"); resp.StatusCode != http.StatusOK {
		t.Fatalf("first server not serving: %d", resp.StatusCode)
	}

	info2, err := m.Start(dist)
	if err != nil {
		t.Fatalf("second Start: %v", err)
	}
	defer m.Stop()
	if resp, _ := get(t, info2.URL+"/"); resp.StatusCode != http.StatusOK {
		t.Errorf("second server not serving: %d", resp.StatusCode)
	}
}

func TestStart_SecondSupersedesFirstImmediately(t *testing.T) {
	dist := newBundle(t)
	m := newManager(42560)
	m.MaxAttempts = 1

	// No request between the two starts: the second bind must not
	// depend on the first serve goroutine having been scheduled.
	if _, err := m.Start(dist); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	info, err := m.Start(dist)
	if err != nil {
		t.Fatalf("second Start: %v", err)
	}
	defer m.Stop()
	if resp, _ := get(t, info.URL+"/"); resp.StatusCode != http.StatusOK {
		t.Errorf("second server not serving: %d", resp.StatusCode)
	}
}

func TestStop_NoServerIsNoop(t *testing.T) {
	m := newManager(42520)
	m.Stop() // nothing running
	m.Stop()
}

func TestStop_ReleasesPort(t *testing.T) {
	m := newManager(42540)
	info, err := m.Start(newBundle(t))
	if err != nil {
		t.Fatal(err)
	}
	m.Stop()

	// The port should be free again shortly after Stop returns.
	deadline := time.Now().Add(2 * time.Second)
	for {
		ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", info.Port))
		if err == nil {
			ln.Close()
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("port %d still bound after Stop: %v", info.Port, err)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

