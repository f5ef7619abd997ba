// Copyright Safing ICS Technologies GmbH. Use of this source code is governed by the AGPL license that can be found in the LICENSE file.

package log

import (
	"fmt"
	"time"
)

func writeLine(line *logLine) {
	fmt.Fprintln(output, formatLine(line, useColor))
}

func writer(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		// wait until logs need to be processed
		select {
		case <-logsWaiting:
			logsWaitingFlag.UnSet()
		case <-forceEmptyingOfBuffer:
		case <-stop:
			drain()
			writeLine(&logLine{
				msg:       "===== LOGGING STOPPED =====",
				level:     WarningLevel,
				timestamp: time.Now(),
			})
			return
		}

		drain()
	}
}

// drain writes all the logs currently in the buffer.
func drain() {
	for {
		select {
		case line := <-logBuffer:
			writeLine(line)
		default:
			return
		}
	}
}
