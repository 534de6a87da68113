package model

import "time"

// NoticeKind 变更类型
type NoticeKind string

const (
	NoticeNew     NoticeKind = "new"
	NoticeUpdated NoticeKind = "updated"
)

// Notice 一条文件变更通知
type Notice struct {
	Kind NoticeKind
	Name string // 文件名 (不含目录)

	// 以下字段由 analysis 包在通知前补充，Diff 不填写
	FileType   string // e.g. "pdf", "unknown"
	Suspicious bool   // 扩展名与文件头不符
}

// NewNotice 构造 New 通知
func NewNotice(name string) Notice {
	return Notice{Kind: NoticeNew, Name: name}
}

// UpdatedNotice 构造 Updated 通知
func UpdatedNotice(name string) Notice {
	return Notice{Kind: NoticeUpdated, Name: name}
}

// TickReport 一次 Tick 的结果，推送给外部协作者
type TickReport struct {
	Dir       string
	Notices   []Notice
	TimeStamp time.Time
}
