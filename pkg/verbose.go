package dupehash

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var globalVerboseLevel int
var debugFlags map[string]bool

var logger = newConsoleLogger(os.Stderr)

func newConsoleLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger().
		Level(levelForVerbosity(globalVerboseLevel))
}

// levelForVerbosity maps 0=quiet, 1=basic, 2=detailed, 3=trace onto zerolog levels
func levelForVerbosity(level int) zerolog.Level {
	switch {
	case level <= 0:
		return zerolog.WarnLevel
	case level == 1:
		return zerolog.InfoLevel
	case level == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// Logger returns the package logger
func Logger() *zerolog.Logger {
	return &logger
}

// SetLogOutput redirects package logging to w
func SetLogOutput(w io.Writer) {
	logger = newConsoleLogger(w)
}

// SetVerboseLevel sets the global verbose level
func SetVerboseLevel(level int) {
	globalVerboseLevel = level
	logger = logger.Level(levelForVerbosity(level))
}

// GetVerboseLevel returns the current verbose level
func GetVerboseLevel() int {
	return globalVerboseLevel
}

// VerboseEnter logs function entry at level 3+ and returns a defer function for exit logging
func VerboseEnter() func() {
	if globalVerboseLevel < 3 {
		return func() {}
	}

	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return func() {}
	}

	funcName := runtime.FuncForPC(pc).Name()
	if idx := strings.LastIndex(funcName, "."); idx != -1 {
		funcName = funcName[idx+1:]
	}

	logger.Trace().Str("func", funcName).Msg("enter")
	return func() {
		logger.Trace().Str("func", funcName).Msg("exit")
	}
}

// VerboseLog logs a message at the specified verbose level
func VerboseLog(level int, format string, args ...interface{}) {
	if globalVerboseLevel < level {
		return
	}
	logger.WithLevel(levelForVerbosity(level)).Msg(strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
}

// SetDebugFlags sets the debug flags from a comma-separated string
// Supports both simple flags ("scan,hash") and key:value format ("scan:true,hash:false")
func SetDebugFlags(flagsStr string) {
	debugFlags = make(map[string]bool)
	if flagsStr == "" {
		return
	}

	for _, flag := range strings.Split(flagsStr, ",") {
		flag = strings.TrimSpace(flag)
		if flag == "" {
			continue
		}

		parts := strings.SplitN(flag, ":", 2)
		flagName := strings.ToLower(parts[0])
		flagValue := true

		if len(parts) > 1 {
			switch strings.ToLower(parts[1]) {
			case "false", "0", "no", "off":
				flagValue = false
			}
		}

		debugFlags[flagName] = flagValue
	}
}

// IsDebugEnabled returns true if the specified debug flag is enabled
func IsDebugEnabled(flag string) bool {
	if debugFlags == nil {
		return false
	}
	return debugFlags[strings.ToLower(flag)]
}
