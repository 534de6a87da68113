package model

// FileRecord 快照中的一个文件
type FileRecord struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Snapshot 某一时刻目录下顶层文件的集合。
// 每次采集都生成新的 Snapshot，不在原地修改。
type Snapshot []FileRecord

// IsEmpty 空快照 (采集失败或目录为空)
func (s Snapshot) IsEmpty() bool {
	return len(s) == 0
}

// Index 按文件名建立索引
func (s Snapshot) Index() map[string]FileRecord {
	idx := make(map[string]FileRecord, len(s))
	for _, r := range s {
		idx[r.Name] = r
	}
	return idx
}

// Clone 返回独立副本，避免跨组件共享底层数组
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}
