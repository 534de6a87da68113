package analysis

import "github.com/Hara602/folderSentry/internal/model"

// Diff 比较前后两个快照，按 current 的顺序输出 New / Updated 通知。
// previous 为空时不输出任何通知 (没有基线)。删除不报告。
func Diff(previous, current model.Snapshot) []model.Notice {
	if previous.IsEmpty() {
		return nil
	}
	before := previous.Index()

	var notices []model.Notice
	for _, c := range current {
		p, ok := before[c.Name]
		switch {
		case !ok:
			notices = append(notices, model.NewNotice(c.Name))
		case p.Size != c.Size:
			notices = append(notices, model.UpdatedNotice(c.Name))
		}
	}
	return notices
}
