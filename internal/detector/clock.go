package detector

import "time"

func nowNanos() int64 {
	return time.Now().UTC().UnixNano()
}
