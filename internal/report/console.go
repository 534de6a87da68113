package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/Hara602/folderSentry/internal/model"
	"go.uber.org/zap"
)

// Console 每条通知输出一行
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	labels Labels
}

func NewConsole(w io.Writer, lang string) *Console {
	return &Console{w: w, labels: LabelsFor(lang)}
}

func (c *Console) Notify(r model.TickReport) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range r.Notices {
		fmt.Fprintln(c.w, c.labels.Line(n))
	}
}

// Logger 把通知写进 zap 日志
type Logger struct {
	Log *zap.Logger
}

func (l Logger) Notify(r model.TickReport) {
	for _, n := range r.Notices {
		l.Log.Info("📂 File change",
			zap.String("kind", string(n.Kind)),
			zap.String("file", n.Name),
			zap.String("dir", r.Dir),
			zap.String("type", n.FileType),
		)
	}
}
