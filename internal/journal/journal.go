package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Hara602/folderSentry/internal/model"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS notices (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	dir TEXT NOT NULL,
	kind TEXT NOT NULL,
	name TEXT NOT NULL,
	file_type TEXT,
	suspicious INTEGER NOT NULL DEFAULT 0,
	observed_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notices_observed ON notices(observed_at);
`

// Entry 一条历史通知
type Entry struct {
	ID         int64
	Dir        string
	Kind       model.NoticeKind
	Name       string
	FileType   string
	Suspicious bool
	ObservedAt time.Time
}

// Notice 还原成通知，用于渲染
func (e Entry) Notice() model.Notice {
	return model.Notice{Kind: e.Kind, Name: e.Name, FileType: e.FileType, Suspicious: e.Suspicious}
}

// Journal 把每次 Tick 的通知记录到 SQLite
type Journal struct {
	db  *sql.DB
	log *zap.Logger
}

// Open 打开数据库并初始化表结构
func Open(dbPath string, log *zap.Logger) (*Journal, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// 只有 watcher 一个写者
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &Journal{db: db, log: log}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Record 在一个事务里写入一批通知
func (j *Journal) Record(ctx context.Context, r model.TickReport) error {
	if len(r.Notices) == 0 {
		return nil
	}
	at := r.TimeStamp
	if at.IsZero() {
		at = time.Now()
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO notices(dir, kind, name, file_type, suspicious, observed_at) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, n := range r.Notices {
		if _, err := stmt.ExecContext(ctx, r.Dir, string(n.Kind), n.Name, n.FileType, n.Suspicious, at.UTC()); err != nil {
			return fmt.Errorf("insert %s: %w", n.Name, err)
		}
	}
	return tx.Commit()
}

// Notify 实现 report.Notifier；写库失败只记日志
func (j *Journal) Notify(r model.TickReport) {
	if err := j.Record(context.Background(), r); err != nil {
		j.log.Error("journal write failed", zap.Error(err))
	}
}

// Recent 最近 limit 条，新的在前
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx,
		"SELECT id, dir, kind, name, COALESCE(file_type, ''), suspicious, observed_at FROM notices ORDER BY id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var kind string
		if err := rows.Scan(&e.ID, &e.Dir, &kind, &e.Name, &e.FileType, &e.Suspicious, &e.ObservedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		e.Kind = model.NoticeKind(kind)
		out = append(out, e)
	}
	return out, rows.Err()
}
