package analysis

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Hara602/folderSentry/internal/model"
	"github.com/Hara602/folderSentry/internal/report"
	"github.com/h2non/filetype"
	"go.uber.org/zap"
)

// headerSize filetype 库建议读取的文件头长度
const headerSize = 262

// Result 文件类型检测结果
type Result struct {
	RealExt     string // 根据文件头判断的类型
	DeclaredExt string // 文件名上的后缀
	Masquerade  bool   // 后缀与文件头不兼容
}

// TypeInspector 通过文件头识别真实类型
type TypeInspector struct {
	// realExt -> 允许的后缀集合
	aliases map[string]map[string]bool
	mu      sync.RWMutex
}

func NewTypeInspector() *TypeInspector {
	t := &TypeInspector{aliases: make(map[string]map[string]bool)}
	t.initRules()
	return t
}

// initRules 合法的"表里不一"
func (t *TypeInspector) initRules() {
	// ZIP 家族：Office / Java / Android 等本质都是 zip
	t.Allow("zip",
		"docx", "docm", "dotx", "dotm",
		"xlsx", "xlsm", "xltx", "xltm",
		"pptx", "pptm", "potx", "potm",
		"jar", "war", "ear", "apk",
		"odt", "ods", "odp",
		"crx", "whl", "nupkg",
	)
	t.Allow("xml", "svg", "html", "htm", "kml", "dae", "plist", "config")
	t.Allow("mp4", "m4v", "mov", "qt")
	t.Allow("mov", "qt", "mp4")
	t.Allow("ogg", "ogv", "oga", "spx")
	t.Allow("jpg", "jpeg", "jpe", "jfif")
	t.Allow("tif", "tiff")
	t.Allow("exe", "dll", "sys", "scr", "cpl", "ocx")
	t.Allow("gz", "gzip", "tgz")
}

// Allow 登记 realExt 可以使用的后缀
func (t *TypeInspector) Allow(realExt string, exts ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	set, ok := t.aliases[realExt]
	if !ok {
		set = map[string]bool{realExt: true}
		t.aliases[realExt] = set
	}
	for _, ext := range exts {
		set[ext] = true
	}
}

// Inspect 读取文件头并与后缀比对
func (t *TypeInspector) Inspect(path string) (Result, error) {
	declared := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	res := Result{RealExt: "unknown", DeclaredExt: declared}

	f, err := os.Open(path)
	if err != nil {
		return res, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, headerSize)
	n, err := io.ReadFull(f, head)
	if n == 0 {
		// 空文件没有 magic bytes
		if err == io.EOF {
			return res, nil
		}
		return res, fmt.Errorf("read header %s: %w", path, err)
	}

	kind, _ := filetype.Match(head[:n])
	if kind == filetype.Unknown {
		// 文本文件大多走到这里，默认信任
		return res, nil
	}
	res.RealExt = kind.Extension

	// 没有后缀或完全一致
	if declared == "" || declared == res.RealExt {
		return res, nil
	}

	t.mu.RLock()
	allowed := t.aliases[res.RealExt][declared]
	t.mu.RUnlock()
	res.Masquerade = !allowed
	return res, nil
}

// Annotator 在通知送出前补充文件类型信息
type Annotator struct {
	Inspector *TypeInspector
	Next      report.Notifier
	Log       *zap.Logger
}

func (a *Annotator) Notify(r model.TickReport) {
	log := a.Log
	if log == nil {
		log = zap.NewNop()
	}
	annotated := make([]model.Notice, len(r.Notices))
	for i, n := range r.Notices {
		res, err := a.Inspector.Inspect(filepath.Join(r.Dir, n.Name))
		if err != nil {
			// 文件可能已经被删掉，保留原通知
			log.Debug("filetype inspect failed", zap.String("file", n.Name), zap.Error(err))
		}
		n.FileType = res.RealExt
		n.Suspicious = res.Masquerade
		if n.Suspicious {
			log.Warn("🚨 masquerade file",
				zap.String("file", n.Name),
				zap.String("header", res.RealExt),
				zap.String("ext", res.DeclaredExt))
		}
		annotated[i] = n
	}
	r.Notices = annotated
	a.Next.Notify(r)
}
