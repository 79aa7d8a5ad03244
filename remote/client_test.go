package remote

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"goshell/shell"
	"goshell/util"
)

// scriptStep is one line of simulated operator input, typed after a
// delay.
type scriptStep struct {
	delay time.Duration
	line  string
}

// scriptReader feeds scripted lines with pauses, standing in for an
// interactive operator.
type scriptReader struct {
	steps []scriptStep
	cur   []byte
}

func (s *scriptReader) Read(p []byte) (int, error) {
	for len(s.cur) == 0 {
		if len(s.steps) == 0 {
			return 0, io.EOF
		}
		step := s.steps[0]
		s.steps = s.steps[1:]
		time.Sleep(step.delay)
		s.cur = []byte(step.line + "\n")
	}
	n := copy(p, s.cur)
	s.cur = s.cur[n:]
	return n, nil
}

// connectScripted hosts a shell, connects a client driven by steps, and
// returns the client's terminal output once the session ends.
func connectScripted(t *testing.T, hostDir string, steps []scriptStep) (string, *shell.Environment, string) {
	t.Helper()

	server, client, cfg := testStack(t, hostDir)
	port := freePort(t)
	if err := server.Start(port, cfg.Password); err != nil {
		t.Fatal(err)
	}

	out := &bytes.Buffer{}
	env := shell.NewEnvironment(&scriptReader{steps: steps}, out, t.TempDir())

	done := make(chan error, 1)
	go func() { done <- client.Connect(env, "127.0.0.1", port) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Connect: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("session did not end")
	}
	return out.String(), env, cfg.DownloadDir
}

// TestClientSession verifies a scripted session: greeting, remote pwd,
// clean disconnect on exit.
func TestClientSession(t *testing.T) {
	hostDir := t.TempDir()
	out, env, _ := connectScripted(t, hostDir, []scriptStep{
		{0, "pwd"},
		{700 * time.Millisecond, "exit"},
	})

	if !strings.Contains(out, "Connected to 127.0.0.1:") {
		t.Errorf("output missing connect banner:\n%s", out)
	}
	if !strings.Contains(out, "Connected to goshell host") {
		t.Errorf("output missing host greeting:\n%s", out)
	}
	if !strings.Contains(out, hostDir) {
		t.Errorf("output missing remote pwd result:\n%s", out)
	}
	if !strings.Contains(out, "Disconnected from") {
		t.Errorf("output missing disconnect notice:\n%s", out)
	}
	if env.IsConnected() {
		t.Error("environment still connected after session end")
	}
}

// TestClientDownload verifies an end-to-end encrypted download into the
// configured download directory.
func TestClientDownload(t *testing.T) {
	hostDir := t.TempDir()
	content := patternBytes(5000)
	if err := os.WriteFile(filepath.Join(hostDir, "data.bin"), content, 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, downloadDir := connectScripted(t, hostDir, []scriptStep{
		{0, "download data.bin"},
		{1500 * time.Millisecond, "exit"},
	})

	if !strings.Contains(out, "Finished downloading data.bin") {
		t.Errorf("output missing completion notice:\n%s", out)
	}
	got, err := os.ReadFile(filepath.Join(downloadDir, "data.bin"))
	if err != nil {
		t.Fatalf("downloaded file: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("downloaded %d bytes, content mismatch", len(got))
	}
}

// TestClientUpload verifies the host pulls a client file into its
// current directory.
func TestClientUpload(t *testing.T) {
	hostDir := t.TempDir()
	content := patternBytes(3000)
	clientFile := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(clientFile, content, 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, _ = connectScripted(t, hostDir, []scriptStep{
		{0, "upload " + clientFile},
		{1500 * time.Millisecond, "exit"},
	})

	wantSum, err := util.FileChecksum(clientFile)
	if err != nil {
		t.Fatal(err)
	}
	gotSum, err := util.FileChecksum(filepath.Join(hostDir, "notes.txt"))
	if err != nil {
		t.Fatalf("uploaded file: %v", err)
	}
	if gotSum != wantSum {
		t.Error("uploaded file checksum mismatch")
	}
}

// TestSessionTeardownReleasesGoroutines verifies a full
// host/connect/exit cycle leaves no goroutines behind: after the
// session ends and the host port is stopped, the process goroutine
// count returns to its pre-test baseline.
func TestSessionTeardownReleasesGoroutines(t *testing.T) {
	server, client, cfg := testStack(t, t.TempDir())
	port := freePort(t)

	baseline := runtime.NumGoroutine()

	if err := server.Start(port, cfg.Password); err != nil {
		t.Fatal(err)
	}

	env := shell.NewEnvironment(&scriptReader{steps: []scriptStep{
		{0, "pwd"},
		{300 * time.Millisecond, "exit"},
	}}, &bytes.Buffer{}, t.TempDir())
	if err := client.Connect(env, "127.0.0.1", port); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if err := server.Stop(port); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		if n := runtime.NumGoroutine(); n <= baseline {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("goroutines = %d, baseline %d: session left goroutines running",
				runtime.NumGoroutine(), baseline)
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// TestClientDownloadMissingFile verifies a bad download path is
// reported over the text channel and the session survives.
func TestClientDownloadMissingFile(t *testing.T) {
	hostDir := t.TempDir()
	out, _, _ := connectScripted(t, hostDir, []scriptStep{
		{0, "download does-not-exist.bin"},
		{700 * time.Millisecond, "pwd"},
		{500 * time.Millisecond, "exit"},
	})

	if !strings.Contains(out, "download:") {
		t.Errorf("output missing download error:\n%s", out)
	}
	if !strings.Contains(out, hostDir) {
		t.Errorf("session did not survive the failed download:\n%s", out)
	}
}
