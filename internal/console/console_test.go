package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Hara602/folderSentry/internal/watcher"
)

type fakeController struct {
	status   watcher.Status
	startErr error
	calls    []string
}

func (f *fakeController) Configure(path string) error {
	f.calls = append(f.calls, "configure "+path)
	f.status.Path = path
	return nil
}

func (f *fakeController) Start() error {
	f.calls = append(f.calls, "start")
	if f.startErr != nil {
		return f.startErr
	}
	f.status.State = watcher.Working
	return nil
}

func (f *fakeController) Stop() error {
	f.calls = append(f.calls, "stop")
	if f.status.State != watcher.Working {
		return watcher.ErrNotWorking
	}
	f.status.State = watcher.Waiting
	return nil
}

func (f *fakeController) Status() watcher.Status { return f.status }

func TestExec(t *testing.T) {
	ctl := &fakeController{}
	var out bytes.Buffer
	c := New(ctl, &out)

	for _, line := range []string{"dir /srv/in", "start", "status", "stop"} {
		if err := c.Exec(line); err != nil {
			t.Fatalf("Exec(%q): %v", line, err)
		}
	}

	wantCalls := []string{"configure /srv/in", "start", "stop"}
	if strings.Join(ctl.calls, ",") != strings.Join(wantCalls, ",") {
		t.Errorf("calls = %v, want %v", ctl.calls, wantCalls)
	}
	wantOut := "[idle] /srv/in\n[working] /srv/in\n[working] /srv/in\n[waiting] /srv/in\n"
	if out.String() != wantOut {
		t.Errorf("output = %q, want %q", out.String(), wantOut)
	}
}

func TestExecStartWithPath(t *testing.T) {
	ctl := &fakeController{}
	c := New(ctl, &bytes.Buffer{})
	if err := c.Exec("start /tmp/x y"); err != nil {
		t.Fatal(err)
	}
	if ctl.status.Path != "/tmp/x y" {
		t.Errorf("path = %q", ctl.status.Path)
	}
}

func TestExecErrors(t *testing.T) {
	ctl := &fakeController{startErr: watcher.ErrNotDirectory}
	var out bytes.Buffer
	c := New(ctl, &out)

	if err := c.Exec("start"); !errors.Is(err, watcher.ErrNotDirectory) {
		t.Errorf("start err = %v", err)
	}
	if !strings.Contains(out.String(), "error: target folder does not exist") {
		t.Errorf("output = %q", out.String())
	}
	if err := c.Exec("stop"); !errors.Is(err, watcher.ErrNotWorking) {
		t.Errorf("stop err = %v", err)
	}
	if err := c.Exec("dir"); err == nil {
		t.Error("dir without argument should fail")
	}
	if err := c.Exec("frobnicate"); err == nil {
		t.Error("unknown command should fail")
	}
	if err := c.Exec("   "); err != nil {
		t.Errorf("blank line err = %v", err)
	}
}

func TestRun(t *testing.T) {
	ctl := &fakeController{}
	var out bytes.Buffer
	c := New(ctl, &out)

	err := c.Run(context.Background(), strings.NewReader("dir /a\nstart\nquit\nstop\n"))
	if !errors.Is(err, ErrQuit) {
		t.Fatalf("Run err = %v, want ErrQuit", err)
	}
	if len(ctl.calls) != 2 {
		t.Fatalf("commands after quit were executed: %v", ctl.calls)
	}
}

func TestRunEOF(t *testing.T) {
	c := New(&fakeController{}, &bytes.Buffer{})
	if err := c.Run(context.Background(), strings.NewReader("status\n")); err != nil {
		t.Fatalf("Run err = %v, want nil at EOF", err)
	}
}
