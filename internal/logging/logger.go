package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/lmittmann/tint"
)

// LogLevel определяет уровни логирования
type LogLevel int

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
)

// levelTrace — уровень slog ниже Debug для трассировки
const levelTrace = slog.LevelDebug - 4

// String возвращает строковое представление уровня логирования
func (l LogLevel) String() string {
	switch l {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case TRACE:
		return levelTrace
	case DEBUG:
		return slog.LevelDebug
	case WARN:
		return slog.LevelWarn
	case ERROR:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel разбирает уровень из строки конфигурации (регистр не важен)
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return TRACE, nil
	case "DEBUG":
		return DEBUG, nil
	case "", "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	}
	return INFO, fmt.Errorf("неизвестный уровень логирования %q", s)
}

// Logger представляет логгер компонента
type Logger struct {
	component string
	slog      *slog.Logger
}

// Глобальное состояние: общий handler и уровень для всех компонентов
var (
	mu       sync.RWMutex
	level    = new(slog.LevelVar)
	handler  slog.Handler
	fallback = newHandler(os.Stderr, true)
)

func newHandler(w io.Writer, noColor bool) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey && len(groups) == 0 {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == levelTrace {
					return slog.String(a.Key, "TRC")
				}
			}
			return a
		},
	})
}

// InitDefaultLogger инициализирует систему логирования: вывод в w,
// минимальный уровень lvl. noColor отключает ANSI-цвета.
func InitDefaultLogger(w io.Writer, lvl LogLevel, noColor bool) {
	level.Set(lvl.slogLevel())
	mu.Lock()
	handler = newHandler(w, noColor)
	mu.Unlock()
	GetLoggerManager().reset()
}

// SetLevel меняет минимальный уровень для всех логгеров
func SetLevel(lvl LogLevel) {
	level.Set(lvl.slogLevel())
}

func currentHandler() slog.Handler {
	mu.RLock()
	defer mu.RUnlock()
	if handler == nil {
		return fallback
	}
	return handler
}

// NewLogger создаёт логгер компонента поверх общего handler
func NewLogger(component string) *Logger {
	l := slog.New(currentHandler())
	if component != "" {
		l = l.With("component", component)
	}
	return &Logger{component: component, slog: l}
}

// Component возвращает имя компонента
func (l *Logger) Component() string { return l.component }

// Slog возвращает нижележащий *slog.Logger для структурированных записей
func (l *Logger) Slog() *slog.Logger { return l.slog }

func (l *Logger) log(lvl LogLevel, format string, args ...interface{}) {
	sl := lvl.slogLevel()
	ctx := context.Background()
	if !l.slog.Enabled(ctx, sl) {
		return
	}
	l.slog.Log(ctx, sl, fmt.Sprintf(format, args...))
}

// Trace логирует сообщение уровня TRACE
func (l *Logger) Trace(format string, args ...interface{}) { l.log(TRACE, format, args...) }

// Debug логирует сообщение уровня DEBUG
func (l *Logger) Debug(format string, args ...interface{}) { l.log(DEBUG, format, args...) }

// Info логирует сообщение уровня INFO
func (l *Logger) Info(format string, args ...interface{}) { l.log(INFO, format, args...) }

// Warn логирует сообщение уровня WARN
func (l *Logger) Warn(format string, args ...interface{}) { l.log(WARN, format, args...) }

// Error логирует сообщение уровня ERROR
func (l *Logger) Error(format string, args ...interface{}) { l.log(ERROR, format, args...) }

// Пакетные функции пишут от имени логгера без компонента.

func Trace(format string, args ...interface{}) { defaultLogger().Trace(format, args...) }
func Debug(format string, args ...interface{}) { defaultLogger().Debug(format, args...) }
func Info(format string, args ...interface{})  { defaultLogger().Info(format, args...) }
func Warn(format string, args ...interface{})  { defaultLogger().Warn(format, args...) }
func Error(format string, args ...interface{}) { defaultLogger().Error(format, args...) }

func defaultLogger() *Logger {
	return GetLoggerManager().MustGetLogger("")
}
