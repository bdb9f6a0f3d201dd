// Package logger обёртка над zerolog с printf-интерфейсом
// Все слои сервиса зависят только от узкого интерфейса Info/Warn/Error,
// конкретная реализация подключается в main
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger структурированный логгер сервиса
type Logger struct {
	zl     zerolog.Logger
	closer io.Closer
}

// New создает логгер, пишущий JSON в файл (или stdout, если file пустой)
// level: debug, info, warn, error
func New(file, level string) (*Logger, error) {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}

	output := io.Writer(os.Stdout)
	var closer io.Closer

	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logger: open log file: %w", err)
		}
		output = f
		closer = f
	}

	zl := zerolog.New(output).Level(parsed).With().Timestamp().Logger()

	return &Logger{zl: zl, closer: closer}, nil
}

// Debug логирует сообщение с уровнем debug
func (l *Logger) Debug(format string, v ...interface{}) {
	l.zl.Debug().Msgf(format, v...)
}

// Info логирует сообщение с уровнем info
func (l *Logger) Info(format string, v ...interface{}) {
	l.zl.Info().Msgf(format, v...)
}

// Warn логирует сообщение с уровнем warn
func (l *Logger) Warn(format string, v ...interface{}) {
	l.zl.Warn().Msgf(format, v...)
}

// Error логирует сообщение с уровнем error
func (l *Logger) Error(format string, v ...interface{}) {
	l.zl.Error().Msgf(format, v...)
}

// Fatal логирует сообщение и завершает процесс
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.zl.Fatal().Msgf(format, v...)
}

// Close закрывает файл логов, если он был открыт
func (l *Logger) Close() {
	if l.closer != nil {
		_ = l.closer.Close()
	}
}
