package report

import (
	"fmt"

	"github.com/Hara602/folderSentry/internal/model"
)

// Labels 通知前缀，按语言区分
type Labels struct {
	New     string
	Updated string
}

var labels = map[string]Labels{
	"en": {New: "New: ", Updated: "Updated: "},
	"ja": {New: "新規：　", Updated: "更新：　"},
}

// LabelsFor 未知语言回退到英文
func LabelsFor(lang string) Labels {
	if l, ok := labels[lang]; ok {
		return l
	}
	return labels["en"]
}

// Line 渲染单条通知
func (l Labels) Line(n model.Notice) string {
	prefix := l.New
	if n.Kind == model.NoticeUpdated {
		prefix = l.Updated
	}
	line := prefix + n.Name
	if n.Suspicious {
		line += fmt.Sprintf(" [!%s]", n.FileType)
	}
	return line
}
