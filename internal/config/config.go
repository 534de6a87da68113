package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	AppName         = "folderSentry"
	DefaultInterval = 60 * time.Second
)

// Config agent 配置，对应 YAML 文件
type Config struct {
	StateDir     string        `yaml:"state_dir"`
	Interval     time.Duration `yaml:"interval"`
	LogLevel     string        `yaml:"log_level"`
	Language     string        `yaml:"language"`
	Journal      *bool         `yaml:"journal"`
	JournalPath  string        `yaml:"journal_path"`
	InspectTypes *bool         `yaml:"inspect_types"`
	LockName     string        `yaml:"lock_name"`
}

// Default 全部使用默认值
func Default() *Config {
	c := &Config{}
	c.defaults()
	return c
}

func (c *Config) defaults() {
	if c.StateDir == "" {
		c.StateDir = defaultStateDir()
	}
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Language == "" {
		c.Language = "en"
	}
	if c.Journal == nil {
		c.Journal = boolPtr(true)
	}
	if c.InspectTypes == nil {
		c.InspectTypes = boolPtr(true)
	}
	if c.LockName == "" {
		c.LockName = AppName
	}
}

// JournalEnabled 是否记录历史
func (c *Config) JournalEnabled() bool { return c.Journal != nil && *c.Journal }

// JournalFile journal_path 未设置时放在 state_dir 下
func (c *Config) JournalFile() string {
	if c.JournalPath != "" {
		return c.JournalPath
	}
	return filepath.Join(c.StateDir, "journal.db")
}

// InspectEnabled 是否识别文件类型
func (c *Config) InspectEnabled() bool { return c.InspectTypes != nil && *c.InspectTypes }

// LoadFile 读取 YAML 配置；path 为空时返回默认配置
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	c.defaults()
	return c, nil
}

// defaultStateDir 用户配置目录下的应用私有目录
func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "."+AppName)
	}
	return filepath.Join(dir, AppName)
}

func boolPtr(b bool) *bool { return &b }
