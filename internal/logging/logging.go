// internal/logging/logging.go
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/k0kubun/pp"
)

var (
	mu      sync.Mutex
	logFile *os.File
	debug   bool
	console io.Writer = os.Stderr
)

// Init routes the standard logger to the console and, when logPath is set,
// to an append-only log file.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writers []io.Writer
	writers = append(writers, console)

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	log.SetOutput(io.MultiWriter(writers...))
	return nil
}

// Close releases the log file and restores stderr output.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

// SetDebug enables Dump output.
func SetDebug(enabled bool) {
	mu.Lock()
	debug = enabled
	mu.Unlock()
}

// DebugEnabled reports whether Dump writes anything.
func DebugEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return debug
}

// LogEvent logs a formatted message.
func LogEvent(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Println(msg)
}

// LogTagged logs a message prefixed with an upper-case bracketed tag.
func LogTagged(tag, format string, args ...any) {
	log.Println(buildTaggedMessage(tag, fmt.Sprintf(format, args...)))
}

// LogFetch logs one HTTP exchange of the data fetcher.
func LogFetch(direction, url string, status int, payload any) {
	log.Println(buildFetchMessage(direction, url, status, payload))
}

// Dump pretty-prints v under label when debug output is enabled.
func Dump(label string, v any) {
	if !DebugEnabled() {
		return
	}
	log.Println(buildTaggedMessage("debug", label+"\n"+pp.Sprint(v)))
}

func buildTaggedMessage(tag, msg string) string {
	tag = strings.ToUpper(strings.TrimSpace(tag))
	if tag == "" {
		return msg
	}
	return fmt.Sprintf("[%s] %s", tag, msg)
}

func buildFetchMessage(direction, url string, status int, payload any) string {
	dir := strings.ToUpper(strings.TrimSpace(direction))
	if dir == "" {
		dir = "FETCH"
	}
	urlValue := strings.TrimSpace(url)
	if urlValue == "" {
		urlValue = "unknown"
	}
	parts := []string{fmt.Sprintf("[%s]", dir), fmt.Sprintf("url=%s", urlValue)}
	if status > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", status))
	}
	parts = append(parts, fmt.Sprintf("payload=%s", formatPayload(payload)))
	return strings.Join(parts, " ")
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
