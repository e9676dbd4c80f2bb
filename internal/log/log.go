// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/smithy-go/logging"
)

// EnvVar names the variable holding the log level.
const EnvVar = "ORGCTL_LOG"

var traceEnabled bool

// InitLogger sets up Apex with a custom handler and a log level from the
// ORGCTL_LOG env variable. Output goes to stderr so that it never mixes with
// rendered results on stdout.
func InitLogger() {
	InitLoggerTo(os.Stderr, os.Getenv(EnvVar))
}

// levels maps ORGCTL_LOG values to apex levels. Trace is apex debug plus
// the Tracef lines.
var levels = map[string]log.Level{
	"trace": log.DebugLevel,
	"debug": log.DebugLevel,
	"info":  log.InfoLevel,
	"warn":  log.WarnLevel,
	"error": log.ErrorLevel,
	"fatal": log.FatalLevel,
}

var current = log.ErrorLevel

// InitLoggerTo is InitLogger with an explicit writer and level. Unknown
// levels fall back to error.
func InitLoggerTo(w io.Writer, level string) {
	name := strings.ToLower(strings.TrimSpace(level))
	lvl, ok := levels[name]
	if !ok {
		lvl = log.ErrorLevel
	}
	traceEnabled = name == "trace"
	current = lvl
	log.SetHandler(&CustomHandler{w: w})
	log.SetLevel(lvl)
}

// CustomHandler formats log messages and writes them to w.
type CustomHandler struct {
	mu sync.Mutex
	w  io.Writer
}

// HandleLog implements the log.Handler interface
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := e.Message
	level := "?"
	if strings.HasPrefix(message, "TRACE: ") {
		level = "T"
		message = message[7:]
	} else {
		switch e.Level {
		case log.DebugLevel:
			level = "D"
		case log.InfoLevel:
			level = "I"
		case log.WarnLevel:
			level = "W"
		case log.ErrorLevel:
			level = "E"
		case log.FatalLevel:
			level = "F"
		}
	}

	names := e.Fields.Names()
	sort.Strings(names)
	for _, name := range names {
		message += fmt.Sprintf(" %s=%v", name, e.Fields.Get(name))
	}

	w := h.w
	if w == nil {
		w = os.Stderr
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(w, "%s %s %s\n", timestamp, level, message)
	return err
}

// Tracef logs at Trace level (below Debug).
func Tracef(format string, args ...interface{}) {
	if traceEnabled {
		log.Debug("TRACE: " + fmt.Sprintf(format, args...))
	}
}

// Debugf logs at Debug level.
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Infof logs at Info level.
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Errorf logs at Error level.
func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// Debug logs at Debug level.
func Debug(msg string) {
	log.Debug(msg)
}

// Warnf logs at Warn level.
func Warnf(format string, args ...interface{}) {
	log.Warn(fmt.Sprintf(format, args...))
}

// WithError returns an entry with error.
func WithError(err error) *log.Entry {
	return log.WithError(err)
}

// WithField returns an entry with a single field.
func WithField(key string, value interface{}) *log.Entry {
	return log.WithField(key, value)
}

// SDKLogger routes aws-sdk-go-v2 client logging through apex so retries and
// wire traces share the handler and level of the rest of orgctl.
type SDKLogger struct{}

// Logf implements logging.Logger.
func (SDKLogger) Logf(classification logging.Classification, format string, v ...interface{}) {
	msg := "aws: " + fmt.Sprintf(format, v...)
	if classification == logging.Warn {
		log.Warn(msg)
		return
	}
	log.Debug(msg)
}

// SDKLogMode is the client log mode matching the current level: retries at
// debug, plus request and response headers at trace.
func SDKLogMode() awsv2.ClientLogMode {
	switch {
	case traceEnabled:
		return awsv2.LogRetries | awsv2.LogRequest | awsv2.LogResponse
	case current == log.DebugLevel:
		return awsv2.LogRetries
	}
	return 0
}
