package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Hara602/folderSentry/internal/model"
)

const (
	PathFile     = "path.json"
	SnapshotFile = "snapshot.json"
)

// ErrCorrupt 制品存在但无法解析 (例如写入时进程被杀)
var ErrCorrupt = errors.New("store: corrupt artifact")

// Store 持久化监控路径和最近一次快照。
// 快照文件是否存在本身就是信号：Stop 时删除，崩溃时保留。
type Store struct {
	dir string
}

// Open 创建状态目录
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) SavePath(path string) error {
	return s.writeJSON(PathFile, path)
}

// LoadPath 文件不存在时 found 为 false，不是错误
func (s *Store) LoadPath() (path string, found bool, err error) {
	found, err = s.readJSON(PathFile, &path)
	return path, found, err
}

func (s *Store) SaveSnapshot(snap model.Snapshot) error {
	if snap == nil {
		snap = model.Snapshot{}
	}
	return s.writeJSON(SnapshotFile, snap)
}

func (s *Store) LoadSnapshot() (snap model.Snapshot, found bool, err error) {
	found, err = s.readJSON(SnapshotFile, &snap)
	if found && snap == nil {
		snap = model.Snapshot{}
	}
	return snap, found, err
}

// DeleteSnapshot 文件本来就不存在也算成功
func (s *Store) DeleteSnapshot() error {
	err := os.Remove(filepath.Join(s.dir, SnapshotFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

func (s *Store) HasSnapshot() bool {
	_, err := os.Stat(filepath.Join(s.dir, SnapshotFile))
	return err == nil
}

// writeJSON 先写临时文件再 rename，读者不会看到写了一半的制品
func (s *Store) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, "tmp-*-"+name)
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // rename 成功后这里是 no-op

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

func (s *Store) readJSON(name string, v any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrCorrupt, name, err)
	}
	return true, nil
}
