package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Hara602/folderSentry/internal/watcher"
)

// Controller 控制台驱动的会话操作
type Controller interface {
	Configure(path string) error
	Start() error
	Stop() error
	Status() watcher.Status
}

// ErrQuit 用户输入 quit
var ErrQuit = errors.New("quit")

const help = `commands:
  dir <path>     set the folder to watch
  start [path]   start watching (optionally setting the folder first)
  stop           stop watching and forget the snapshot
  status         show current state
  quit           exit (watching resumes on next launch)`

// Console 逐行读取命令
type Console struct {
	ctl Controller
	out io.Writer
}

func New(ctl Controller, out io.Writer) *Console {
	return &Console{ctl: ctl, out: out}
}

// Run 直到 EOF、quit 或 ctx 取消；quit 时返回 ErrQuit，EOF 返回 nil
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := c.Exec(line); errors.Is(err, ErrQuit) {
				return ErrQuit
			}
		}
	}
}

// Exec 执行一条命令，结果写到 out
func (c *Console) Exec(line string) error {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
		return nil
	case "dir", "path":
		if arg == "" {
			return c.fail(errors.New("usage: dir <path>"))
		}
		if err := c.ctl.Configure(arg); err != nil {
			return c.fail(err)
		}
		c.printStatus()
	case "start":
		if arg != "" {
			if err := c.ctl.Configure(arg); err != nil {
				return c.fail(err)
			}
		}
		if err := c.ctl.Start(); err != nil {
			return c.fail(err)
		}
		c.printStatus()
	case "stop":
		if err := c.ctl.Stop(); err != nil {
			return c.fail(err)
		}
		c.printStatus()
	case "status":
		c.printStatus()
	case "help", "?":
		fmt.Fprintln(c.out, help)
	case "quit", "exit":
		return ErrQuit
	default:
		return c.fail(fmt.Errorf("unknown command %q (try help)", cmd))
	}
	return nil
}

func (c *Console) fail(err error) error {
	fmt.Fprintf(c.out, "error: %v\n", err)
	return err
}

func (c *Console) printStatus() {
	st := c.ctl.Status()
	path := st.Path
	if path == "" {
		path = "-"
	}
	fmt.Fprintf(c.out, "[%s] %s\n", st.State, path)
}
