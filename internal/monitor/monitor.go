package monitor

import (
	"os"
	"path/filepath"

	"github.com/Hara602/folderSentry/internal/model"
	"go.uber.org/zap"
)

// Scanner 采集目录快照
type Scanner interface {
	Capture(dir string) model.Snapshot
}

type dirScanner struct {
	log *zap.Logger
}

func New(log *zap.Logger) Scanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &dirScanner{log: log}
}

// Capture 只枚举 dir 下一层的普通文件，记录文件名和当前大小。
// 任何访问错误都返回空快照而不是错误：这一轮视为"什么都没看到"。
func (s *dirScanner) Capture(dir string) model.Snapshot {
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.log.Debug("capture failed, using empty snapshot", zap.String("dir", dir), zap.Error(err))
		return model.Snapshot{}
	}

	snap := make(model.Snapshot, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		// 重新 Stat，跟随符号链接并拿到此刻的大小
		fi, err := os.Stat(filepath.Join(dir, e.Name()))
		if os.IsNotExist(err) {
			// 枚举之后被删除，或是悬空链接
			continue
		}
		if err != nil {
			s.log.Debug("stat failed, using empty snapshot",
				zap.String("dir", dir),
				zap.String("file", e.Name()),
				zap.Error(err))
			return model.Snapshot{}
		}
		if !fi.Mode().IsRegular() {
			continue
		}
		snap = append(snap, model.FileRecord{Name: e.Name(), Size: fi.Size()})
	}
	return snap
}
