package report

import "github.com/Hara602/folderSentry/internal/model"

// Notifier 接收每次 Tick 的变更通知 (只在有通知时调用)
type Notifier interface {
	Notify(r model.TickReport)
}

// NotifierFunc 函数适配器
type NotifierFunc func(r model.TickReport)

func (f NotifierFunc) Notify(r model.TickReport) { f(r) }

// Multi 依次转发给多个 Notifier
type Multi []Notifier

func (m Multi) Notify(r model.TickReport) {
	for _, n := range m {
		if n != nil {
			n.Notify(r)
		}
	}
}

// Discard 丢弃所有通知
var Discard Notifier = NotifierFunc(func(model.TickReport) {})
