package logger

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var Log *slog.Logger

// Session is an optional dedicated session logger. Callers may use
// logger.Session.Info(...) to record viewer activity; if nil, session
// events should fall back to the main logger.
var Session *slog.Logger

type asyncWriter struct {
	ch chan []byte
}

func (a *asyncWriter) Write(p []byte) (n int, err error) {
	cp := make([]byte, len(p))
	copy(cp, p)
	select {
	case a.ch <- cp:
		return len(p), nil
	default:
		// drop if queue full to avoid blocking
		return len(p), nil
	}
}

var logCh chan []byte
var logStopCh chan struct{}
var logWG sync.WaitGroup

// Init initializes the global slog logger with an async buffered text
// handler at Info level.
func Init() {
	InitWithLevel("")
}

// InitWithLevel initializes the global logger honoring the provided
// `level` string ("debug", "info", "warn", "error"). If level is empty,
// it falls back to FEEDVIEW_LOG_LEVEL. Logs go to stderr so the viewer
// keeps stdout for itself; FEEDVIEW_LOG_SINK can redirect them
// ("file:/path/to/log" or "stdout").
func InitWithLevel(level string) {
	sink := os.Getenv("FEEDVIEW_LOG_SINK") // e.g. "file:/path/to/log"
	lvl := strings.ToLower(strings.TrimSpace(level))
	if lvl == "" {
		lvl = strings.ToLower(strings.TrimSpace(os.Getenv("FEEDVIEW_LOG_LEVEL")))
	}
	var lv slog.Level
	switch lvl {
	case "debug":
		lv = slog.LevelDebug
	case "warn", "warning":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	case "info":
		lv = slog.LevelInfo
	default:
		lv = slog.LevelInfo
	}

	logCh = make(chan []byte, 10000)
	logStopCh = make(chan struct{})
	aw := &asyncWriter{ch: logCh}
	Log = slog.New(slog.NewTextHandler(aw, &slog.HandlerOptions{Level: lv}))

	logWG.Add(1)
	go func(stop chan struct{}) {
		defer logWG.Done()
		var buf *bufio.Writer
		var f *os.File
		switch {
		case strings.HasPrefix(sink, "file:"):
			path := strings.TrimPrefix(sink, "file:")
			var err error
			f, err = os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", path, err)
				buf = bufio.NewWriterSize(os.Stderr, 8192)
			} else {
				buf = bufio.NewWriterSize(f, 8192)
			}
		case sink == "stdout":
			buf = bufio.NewWriterSize(os.Stdout, 8192)
		default:
			buf = bufio.NewWriterSize(os.Stderr, 8192)
		}
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case b := <-logCh:
				buf.Write(b)
			case <-ticker.C:
				buf.Flush()
			case <-stop:
				for {
					select {
					case b := <-logCh:
						buf.Write(b)
					default:
						buf.Flush()
						if f != nil {
							f.Close()
						}
						return
					}
				}
			}
		}
	}(logStopCh)
}

// AttachSessionFileSink configures a JSON-file session logger writing to
// <logsDir>/session.log. If the file cannot be opened the function
// returns an error and leaves Session as nil.
func AttachSessionFileSink(logsDir string) error {
	if logsDir == "" {
		return fmt.Errorf("empty logs dir")
	}
	// If the path exists and is a symlink, fail early to avoid TOCTOU.
	if fi, err := os.Lstat(logsDir); err == nil {
		if fi.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("logs path is a symlink: %s", logsDir)
		}
		if !fi.IsDir() {
			return fmt.Errorf("logs path exists and is not a directory: %s", logsDir)
		}
	}
	if err := os.MkdirAll(logsDir, 0o700); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}
	// double-check for symlink after creation
	if fi2, err := os.Lstat(logsDir); err == nil {
		if fi2.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("logs path is a symlink after creation: %s", logsDir)
		}
	}

	fname := filepath.Join(logsDir, "session.log")
	// If existing file too large, rotate it.
	if fi, err := os.Stat(fname); err == nil {
		const maxSize = 10 * 1024 * 1024 // 10MB
		if fi.Size() > maxSize {
			bak := fname + "." + fi.ModTime().UTC().Format("20060102T150405Z")
			_ = os.Rename(fname, bak)
		}
	}
	f, err := os.OpenFile(fname, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open session log file: %w", err)
	}
	h := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo})
	Session = slog.New(h)
	// Emit an initial marker so consumers (and tests) can observe that
	// the session sink was successfully attached and the file is writable.
	Session.Info("session_sink_attached", "path", fname)
	return nil
}

// Sync flushes any buffered logs. Safe to call more than once.
func Sync() {
	if logStopCh != nil {
		close(logStopCh)
		logWG.Wait()
		logStopCh = nil
	}
}

// Debug logs with slog-style key/value pairs.
func Debug(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Debug(msg, args...)
}

// Info logs with slog-style key/value pairs.
func Info(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Info(msg, args...)
}

// Warn logs with slog-style key/value pairs.
func Warn(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Warn(msg, args...)
}

// Error logs with slog-style key/value pairs.
func Error(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Error(msg, args...)
}

// LogConfigSummary logs a human-friendly, hyphenated list of configuration
// results. The block is printed directly to stdout (no timestamps or
// structured prefixes) so it's easy to read in terminal output and to
// copy/paste into runbooks, regardless of the configured logger.
func LogConfigSummary(title string, items []string) {
	if len(items) == 0 {
		return
	}
	human := strings.ReplaceAll(title, "_", " ")
	human = strings.Title(human)
	header := "== " + human + " "
	// pad header to a fixed width for visual separation
	const width = 60
	if len(header) < width {
		header = header + strings.Repeat("=", width-len(header))
	}
	fmt.Fprintln(os.Stdout, header)
	for _, it := range items {
		fmt.Fprintln(os.Stdout, "- "+it)
	}
	fmt.Fprintln(os.Stdout)
}
