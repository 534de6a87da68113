package sysutil

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Log *zap.Logger = zap.NewNop()
var LogSugar *zap.SugaredLogger = Log.Sugar()

// InitLogger level: debug / info / warn / error，无法识别时用 info
func InitLogger(level string) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder        // 格式化时间输出
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder // 彩色级别
	// 控制台输出，带颜色和行号；通知本身走 stdout，日志走 stderr
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(config.EncoderConfig),
		zapcore.AddSync(os.Stderr),
		lvl,
	)
	Log = zap.New(core, zap.AddCaller())
	LogSugar = Log.Sugar()
}
