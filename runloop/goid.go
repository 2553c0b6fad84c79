package runloop

import (
	"runtime"
	"strconv"
	"strings"
)

// goroutineID returns the numeric id of the calling goroutine by parsing the
// stack header ("goroutine N [running]:"). Only used to answer IsCurrent;
// never used for scheduling decisions.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := strings.Fields(string(buf[:n]))
	if len(fields) < 2 {
		return 0
	}
	id, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0
	}
	return id
}
