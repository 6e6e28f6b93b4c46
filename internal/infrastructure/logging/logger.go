// Package logging はロギング機能を提供します
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ログレベル
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// LogEntry は出力されるJSONログ1行分の構造です
type LogEntry struct {
	// Timestamp はログが記録された時刻をRFC3339形式で表します
	Timestamp string `json:"timestamp"`
	// Level はログレベル（DEBUG, INFO, WARN, ERROR）を表します
	Level string `json:"level"`
	// Message はログメッセージの内容を表します
	Message string `json:"message"`
	// Error はエラーが発生した場合のエラーメッセージを表します
	Error string `json:"error,omitempty"`
}

// Logger は構造化ログを出力するためのインターフェースです
type Logger interface {
	Log(level, message string, err error)
}

// ZapLogger は zap を使ってJSONフォーマットでログを出力するロガーです
type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger は minLevel 以上のログを writer へ出力する ZapLogger を作成します
func NewZapLogger(writer io.Writer, minLevel string) *ZapLogger {
	if writer == nil {
		writer = os.Stderr
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(writer),
		zap.NewAtomicLevelAt(parseLevel(minLevel)),
	)

	return &ZapLogger{logger: zap.New(core)}
}

// NewNopLogger は何も出力しないロガーを作成します
func NewNopLogger() *ZapLogger {
	return &ZapLogger{logger: zap.NewNop()}
}

// Log はメッセージをJSONフォーマットでログ出力します
func (l *ZapLogger) Log(level, message string, err error) {
	var fields []zap.Field
	if err != nil {
		fields = append(fields, zap.String("error", err.Error()))
	}

	if ce := l.logger.Check(parseLevel(level), message); ce != nil {
		ce.Write(fields...)
	}
}

// Sync はバッファされたログを書き出します
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

// parseLevel は文字列のログレベルを zap のレベルへ変換します。
// 不明な値は INFO として扱います。
func parseLevel(level string) zapcore.Level {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
