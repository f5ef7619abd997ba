// Copyright Safing ICS Technologies GmbH. Use of this source code is governed by the AGPL license that can be found in the LICENSE file.

package log

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tevino/abool"
)

// concept
/*
- Logging function:
  - check if package-based levelling enabled
    - if yes, check if level is active on this package
  - check if level is active
  - send data to backend via big buffered channel
- Backend:
  - wait until there is time for writing logs
  - write logs
- Channel overbuffering protection:
  - if buffer is full and the writer is running, trigger write
  - if buffer is full and the writer is not running, drop the line
*/

// Severity describes a log level.
type Severity uint32

type logLine struct {
	msg       string
	level     Severity
	timestamp time.Time
	file      string
	line      int
}

// Log Levels.
const (
	TraceLevel    Severity = 1
	DebugLevel    Severity = 2
	InfoLevel     Severity = 3
	WarningLevel  Severity = 4
	ErrorLevel    Severity = 5
	CriticalLevel Severity = 6
)

var (
	logBuffer             chan *logLine
	forceEmptyingOfBuffer = make(chan struct{}, 4)

	logLevelInt = uint32(InfoLevel)
	logLevel    = &logLevelInt

	pkgLevelsActive = abool.NewBool(false)
	pkgLevels       = make(map[string]Severity)
	pkgLevelsLock   sync.Mutex

	logsWaiting     = make(chan struct{}, 1)
	logsWaitingFlag = abool.NewBool(false)

	shutdownSignal chan struct{}
	shutdownDone   chan struct{}

	started  = abool.NewBool(false)
	dropped  uint64
	output   = os.Stdout
	useColor = true

	startLock sync.Mutex
)

func init() {
	logBuffer = make(chan *logLine, 1024)
}

// SetPkgLevels sets individual log levels for packages.
func SetPkgLevels(levels map[string]Severity) {
	pkgLevelsLock.Lock()
	pkgLevels = levels
	pkgLevelsLock.Unlock()
	pkgLevelsActive.Set()
}

// UnSetPkgLevels removes all individual log levels for packages.
func UnSetPkgLevels() {
	pkgLevelsActive.UnSet()
}

// SetLogLevel sets a new log level.
func SetLogLevel(level Severity) {
	atomic.StoreUint32(logLevel, uint32(level))
}

// GetLogLevel returns the current log level.
func GetLogLevel() Severity {
	return Severity(atomic.LoadUint32(logLevel))
}

// ParseLevel returns the level severity of a log level name.
func ParseLevel(level string) Severity {
	switch strings.ToLower(level) {
	case "trace":
		return TraceLevel
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warning":
		return WarningLevel
	case "error":
		return ErrorLevel
	case "critical":
		return CriticalLevel
	}
	return 0
}

// ParsePkgLevels parses a package level definition like "fsfile=trace,postponed=debug".
func ParsePkgLevels(definition string) (map[string]Severity, error) {
	levels := make(map[string]Severity)
	if definition == "" {
		return levels, nil
	}
	for _, pair := range strings.Split(definition, ",") {
		splitted := strings.Split(pair, "=")
		if len(splitted) != 2 {
			return nil, fmt.Errorf("invalid package log level %q", pair)
		}
		pkgLevel := ParseLevel(splitted[1])
		if pkgLevel == 0 {
			return nil, fmt.Errorf("invalid log level %q for package %s", splitted[1], splitted[0])
		}
		levels[splitted[0]] = pkgLevel
	}
	return levels, nil
}

// Start starts the logging system. Must be called in order to see logs.
func Start() (err error) {
	startLock.Lock()
	defer startLock.Unlock()

	if started.IsSet() {
		return nil
	}

	initialLogLevel := ParseLevel(os.Getenv("TOJOS_LOG"))
	if initialLogLevel > 0 {
		SetLogLevel(initialLogLevel)
	} else if os.Getenv("TOJOS_LOG") != "" {
		err = errors.New("invalid log level, falling back to level info")
	}

	if pkgDef := os.Getenv("TOJOS_PLOG"); pkgDef != "" {
		levels, pErr := ParsePkgLevels(pkgDef)
		if pErr != nil {
			err = pErr
		} else {
			SetPkgLevels(levels)
		}
	}

	shutdownSignal = make(chan struct{})
	shutdownDone = make(chan struct{})
	started.Set()
	go writer(shutdownSignal, shutdownDone)

	return err
}

// Shutdown writes remaining log lines and waits for the writer to finish.
func Shutdown() {
	startLock.Lock()
	defer startLock.Unlock()

	if !started.SetToIf(true, false) {
		return
	}
	close(shutdownSignal)
	<-shutdownDone
}

// Dropped returns the number of log lines that were dropped because the
// buffer was full before logging was started.
func Dropped() uint64 {
	return atomic.LoadUint64(&dropped)
}
