// Command agent 轮询监控一个文件夹，报告新增和大小变化的文件。
//
// Usage:
//
//	agent [-config folderSentry.yaml] [-dir /path/to/folder]
//	agent history [-n 20]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Hara602/folderSentry/internal/analysis"
	"github.com/Hara602/folderSentry/internal/config"
	"github.com/Hara602/folderSentry/internal/console"
	"github.com/Hara602/folderSentry/internal/journal"
	"github.com/Hara602/folderSentry/internal/monitor"
	"github.com/Hara602/folderSentry/internal/report"
	"github.com/Hara602/folderSentry/internal/store"
	"github.com/Hara602/folderSentry/internal/sysutil"
	"github.com/Hara602/folderSentry/internal/watcher"
	"go.uber.org/zap"
)

type flags struct {
	config   string
	dir      string
	interval time.Duration
	logLevel string
	stateDir string
}

func (f *flags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.config, "config", "", "path to YAML config file")
	fs.StringVar(&f.stateDir, "state-dir", "", "directory holding the persisted artifacts")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "history" {
		if err := runHistory(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "history:", err)
			os.Exit(1)
		}
		return
	}

	var f flags
	f.register(flag.CommandLine)
	flag.StringVar(&f.dir, "dir", "", "folder to watch (starts watching unless already resumed)")
	flag.DurationVar(&f.interval, "interval", 0, "polling interval (default 60s)")
	flag.Parse()

	cfg, err := loadConfig(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// 初始化日志
	sysutil.InitLogger(cfg.LogLevel)
	defer sysutil.Log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, f.dir); err != nil {
		sysutil.Log.Error("agent: fatal", zap.Error(err))
		os.Exit(1)
	}
}

func loadConfig(f flags) (*config.Config, error) {
	cfg, err := config.LoadFile(f.config)
	if err != nil {
		return nil, err
	}
	if f.stateDir != "" {
		cfg.StateDir = f.stateDir
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.interval > 0 {
		cfg.Interval = f.interval
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config, dir string) error {
	// 单实例：拿不到锁直接退出，不算错误
	lock, err := sysutil.AcquireInstanceLock(cfg.StateDir, cfg.LockName)
	if errors.Is(err, sysutil.ErrAlreadyRunning) {
		sysutil.Log.Info("Another instance is running, exiting", zap.String("lock", cfg.LockName))
		return nil
	}
	if err != nil {
		return err
	}
	defer lock.Release()

	sysutil.Log.Info("🛡️ Folder Sentry Agent Starting...", zap.String("state", cfg.StateDir))

	st, err := store.Open(cfg.StateDir)
	if err != nil {
		return err
	}

	// 通知输出：控制台 + 日志 (+ 历史库)
	sinks := report.Multi{
		report.NewConsole(os.Stdout, cfg.Language),
		report.Logger{Log: sysutil.Log.Named("notice")},
	}
	if cfg.JournalEnabled() {
		j, err := journal.Open(cfg.JournalFile(), sysutil.Log.Named("journal"))
		if err != nil {
			return err
		}
		defer j.Close()
		sinks = append(sinks, j)
	}
	var notifier report.Notifier = sinks
	if cfg.InspectEnabled() {
		notifier = &analysis.Annotator{
			Inspector: analysis.NewTypeInspector(),
			Next:      sinks,
			Log:       sysutil.Log.Named("filetype"),
		}
	}

	// 初始化核心模块 (依赖注入)
	session := watcher.New(watcher.Options{
		Store:    st,
		Scanner:  monitor.New(sysutil.Log.Named("monitor")),
		Notifier: notifier,
		Interval: cfg.Interval,
		Log:      sysutil.Log.Named("session"),
	})
	if err := session.Restore(); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	// 退出时不删除制品，下次启动自动恢复
	defer session.Close()

	status := session.Status()
	sysutil.Log.Info("Session restored",
		zap.Stringer("state", status.State),
		zap.String("path", status.Path),
		zap.Bool("resumed", status.Resumed))

	if dir != "" && status.State != watcher.Working {
		if err := session.Configure(dir); err != nil {
			return err
		}
		if err := session.Start(); err != nil {
			return err
		}
	}

	con := console.New(session, os.Stdout)
	if !session.Resumed() {
		con.Exec("help")
	}

	conErr := make(chan error, 1)
	go func() { conErr <- con.Run(ctx, os.Stdin) }()

	select {
	case <-ctx.Done():
	case err := <-conErr:
		if !errors.Is(err, console.ErrQuit) {
			// stdin 关闭 (后台运行)，继续等信号
			<-ctx.Done()
		}
	}
	sysutil.Log.Info("Shutting down...")
	return nil
}

func runHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	var f flags
	f.register(fs)
	limit := fs.Int("n", 20, "number of entries to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	j, err := journal.Open(cfg.JournalFile(), nil)
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.Recent(context.Background(), *limit)
	if err != nil {
		return err
	}
	labels := report.LabelsFor(cfg.Language)
	for _, e := range entries {
		line := labels.Line(e.Notice())
		fmt.Printf("%s  %s  %s\n", e.ObservedAt.Local().Format(time.DateTime), e.Dir, line)
	}
	return nil
}
