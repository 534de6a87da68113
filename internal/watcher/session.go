package watcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Hara602/folderSentry/internal/analysis"
	"github.com/Hara602/folderSentry/internal/config"
	"github.com/Hara602/folderSentry/internal/model"
	"github.com/Hara602/folderSentry/internal/monitor"
	"github.com/Hara602/folderSentry/internal/report"
	"go.uber.org/zap"
)

var (
	ErrNotDirectory   = errors.New("target folder does not exist")
	ErrAlreadyWorking = errors.New("already watching")
	ErrNotWorking     = errors.New("not watching")
	ErrClosed         = errors.New("session closed")
)

// Options 会话依赖 (依赖注入)
type Options struct {
	Store    ArtifactStore
	Scanner  monitor.Scanner
	Notifier report.Notifier
	Interval time.Duration
	Log      *zap.Logger
	Now      func() time.Time
}

// Session 监控会话状态机：Idle / Waiting / Working。
// prev 只在 Tick、Start、Stop 中访问，全部在 mu 下串行执行。
// Notifier 在锁外同步调用，不能在回调里再调用 Session 的方法。
type Session struct {
	store    ArtifactStore
	scanner  monitor.Scanner
	notifier report.Notifier
	interval time.Duration
	log      *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	state   State
	path    string
	prev    model.Snapshot
	resumed bool
	closed  bool

	// 定时器 goroutine，Working 时非 nil
	stop chan struct{}
	done chan struct{}
}

func New(opts Options) *Session {
	s := &Session{
		store:    opts.Store,
		scanner:  opts.Scanner,
		notifier: opts.Notifier,
		interval: opts.Interval,
		log:      opts.Log,
		now:      opts.Now,
	}
	if s.notifier == nil {
		s.notifier = report.Discard
	}
	if s.interval <= 0 {
		s.interval = config.DefaultInterval
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.scanner == nil {
		s.scanner = monitor.New(s.log.Named("monitor"))
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Restore 进程启动时调用一次，根据两个制品是否存在决定初始状态：
//
//	path 不存在                   -> Idle
//	path 存在但不是目录           -> Idle (保留路径作为上次的值)
//	path 有效，snapshot 不存在    -> Waiting
//	path 有效，snapshot 存在      -> Working (自动恢复)
//
// 制品损坏时返回包含 store.ErrCorrupt 的错误。
func (s *Session) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.state == Working {
		return ErrAlreadyWorking
	}

	path, found, err := s.store.LoadPath()
	if err != nil {
		return fmt.Errorf("load path: %w", err)
	}
	if !found {
		s.state = Idle
		return nil
	}
	s.path = path

	if !isDir(path) {
		s.log.Warn("last watched folder is gone", zap.String("path", path))
		s.state = Idle
		return nil
	}

	snap, found, err := s.store.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if !found {
		s.state = Waiting
		return nil
	}

	// 两个制品都在：上次没有正常 Stop，直接恢复监控
	s.prev = snap
	s.state = Working
	s.resumed = true
	s.startLoopLocked()
	s.log.Info("▶️ Resumed watching",
		zap.String("path", path),
		zap.Int("files", len(snap)))
	return nil
}

// Configure 设置目标路径 (对应 UI 的路径输入)，Working 时不允许修改
func (s *Session) Configure(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.state == Working {
		return ErrAlreadyWorking
	}
	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	s.path = path
	return nil
}

// Start Idle/Waiting -> Working。
// 目标不是已存在的目录时返回 ErrNotDirectory，状态不变。
func (s *Session) Start() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state == Working {
		s.mu.Unlock()
		return ErrAlreadyWorking
	}
	if s.path == "" || !isDir(s.path) {
		path := s.path
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrNotDirectory, path)
	}
	if err := s.store.SavePath(s.path); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("save path: %w", err)
	}

	s.state = Working
	s.resumed = false
	// 立即执行一次，保证定时器触发前 snapshot 制品已经存在
	r := s.tickLocked()
	s.startLoopLocked()
	s.log.Info("▶️ Watching started",
		zap.String("path", s.path),
		zap.Duration("interval", s.interval))
	s.mu.Unlock()

	s.publish(r)
	return nil
}

// Stop Working -> Waiting：停止定时器，清空 prev，删除 snapshot 制品。
// path 制品保留，下次启动时路径仍然预填。返回后不会再有 Tick。
func (s *Session) Stop() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state != Working {
		s.mu.Unlock()
		return ErrNotWorking
	}
	done := s.stopLoopLocked()
	s.state = Waiting
	s.resumed = false
	s.prev = nil
	if err := s.store.DeleteSnapshot(); err != nil {
		s.log.Error("delete snapshot failed", zap.Error(err))
	}
	s.log.Info("⏹️ Watching stopped", zap.String("path", s.path))
	s.mu.Unlock()

	<-done
	return nil
}

// Tick 采集 -> 比较 -> 持久化 -> 替换 prev -> 通知。
// 非 Working 状态下什么都不做。
func (s *Session) Tick() {
	s.mu.Lock()
	if s.closed || s.state != Working {
		s.mu.Unlock()
		return
	}
	r := s.tickLocked()
	s.mu.Unlock()
	s.publish(r)
}

// Close 进程退出时调用：停止定时器但不动制品，
// 下次启动会因为两个制品都在而自动恢复。
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	done := s.stopLoopLocked()
	s.mu.Unlock()
	<-done
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Path 当前 (或上次已知) 的目标路径
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Resumed 启动时是否自动恢复 (UI 据此决定是否最小化启动)
func (s *Session) Resumed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resumed
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{State: s.state, Path: s.path, Resumed: s.resumed, Files: len(s.prev)}
}

func (s *Session) tickLocked() model.TickReport {
	current := s.scanner.Capture(s.path)
	notices := analysis.Diff(s.prev, current)

	if err := s.store.SaveSnapshot(current); err != nil {
		s.log.Error("save snapshot failed", zap.String("path", s.path), zap.Error(err))
	}
	s.prev = current

	s.log.Debug("tick",
		zap.String("path", s.path),
		zap.Int("files", len(current)),
		zap.Int("notices", len(notices)))
	return model.TickReport{Dir: s.path, Notices: notices, TimeStamp: s.now()}
}

func (s *Session) publish(r model.TickReport) {
	if len(r.Notices) == 0 {
		return
	}
	s.notifier.Notify(r)
}

func (s *Session) startLoopLocked() {
	stop := make(chan struct{})
	done := make(chan struct{})
	s.stop, s.done = stop, done
	go s.loop(stop, done)
}

// stopLoopLocked 通知 goroutine 退出，调用方在释放锁后等待 done
func (s *Session) stopLoopLocked() chan struct{} {
	done := s.done
	if s.stop == nil {
		// 已经停止，返回一个关闭的 done
		done = make(chan struct{})
		close(done)
		return done
	}
	close(s.stop)
	s.stop, s.done = nil, nil
	return done
}

func (s *Session) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			// 等锁期间可能已经 Stop
			if s.stop != stop || s.state != Working {
				s.mu.Unlock()
				return
			}
			r := s.tickLocked()
			s.mu.Unlock()
			s.publish(r)
		}
	}
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
