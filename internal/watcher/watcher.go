package watcher

import (
	"github.com/Hara602/folderSentry/internal/model"
)

// State 监控会话状态
type State int

const (
	Idle    State = iota // 从未配置
	Waiting              // 已配置，未轮询
	Working              // 正在按固定间隔轮询
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Waiting:
		return "waiting"
	case Working:
		return "working"
	}
	return "unknown"
}

// ArtifactStore 持久化监控路径和最近快照，found=false 表示制品不存在
type ArtifactStore interface {
	SavePath(path string) error
	LoadPath() (string, bool, error)
	SaveSnapshot(snap model.Snapshot) error
	LoadSnapshot() (model.Snapshot, bool, error)
	DeleteSnapshot() error
}

// Status 提供给 UI 协作者的只读视图
type Status struct {
	State   State
	Path    string
	Resumed bool
	Files   int // 上一次快照中的文件数
}
