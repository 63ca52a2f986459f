// Package sink implements the engine's output sinks (spec.md §6): the
// append-only CSV opportunity log, the push-based dashboard fan-out, and an
// optional Postgres trade journal.
package sink

import (
	"bufio"
	"os"
	"strconv"
	"sync"

	"main/internal/errors"
	"main/internal/model"
)

// CSVHeader is emitted once when the log file is opened.
const CSVHeader = "timestamp,symbol,buy_exchange,sell_exchange,buy_price,sell_price,profit_bps,net_profit_bps,latency_ns,decision\n"

// CSVLog is an append-only opportunity log. Writes are serialized by a
// mutex and flushed after every record (spec.md §5: "the opportunity log
// file ... is flushed after each record; ... MUST serialize writes").
type CSVLog struct {
	mu   sync.Mutex
	file *os.File
	w    *bufio.Writer
}

// OpenCSVLog opens (creating if necessary) the CSV log at path and writes
// the header if the file is new/empty.
func OpenCSVLog(path string) (*CSVLog, error) {
	info, statErr := os.Stat(path)
	isNew := statErr != nil || info.Size() == 0

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "open opportunity log")
	}
	log := &CSVLog{file: f, w: bufio.NewWriter(f)}
	if isNew {
		if _, err := log.w.WriteString(CSVHeader); err != nil {
			f.Close()
			return nil, errors.Wrap(err, "write opportunity log header")
		}
		if err := log.flushLocked(); err != nil {
			f.Close()
			return nil, err
		}
	}
	return log, nil
}

// Append writes one opportunity record and flushes (spec.md §6).
func (l *CSVLog) Append(opp model.ArbitrageOpportunity, netProfitBps float64, decision model.RejectionReason) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var buf [256]byte
	line := buf[:0]
	line = strconv.AppendInt(line, opp.DetectedAtNs, 10)
	line = append(line, ',')
	line = append(line, opp.Symbol...)
	line = append(line, ',')
	line = append(line, opp.BuyVenue...)
	line = append(line, ',')
	line = append(line, opp.SellVenue...)
	line = append(line, ',')
	line = strconv.AppendFloat(line, opp.BuyPrice, 'f', 2, 64)
	line = append(line, ',')
	line = strconv.AppendFloat(line, opp.SellPrice, 'f', 2, 64)
	line = append(line, ',')
	line = strconv.AppendFloat(line, opp.ProfitBps, 'f', 1, 64)
	line = append(line, ',')
	line = strconv.AppendFloat(line, netProfitBps, 'f', 1, 64)
	line = append(line, ',')
	line = strconv.AppendInt(line, opp.LatencyNs, 10)
	line = append(line, ',')
	line = strconv.AppendInt(line, int64(decision), 10)
	line = append(line, '\n')

	if _, err := l.w.Write(line); err != nil {
		return errors.Wrap(err, "append opportunity log")
	}
	return l.flushLocked()
}

func (l *CSVLog) flushLocked() error {
	if err := l.w.Flush(); err != nil {
		return errors.Wrap(err, "flush opportunity log")
	}
	return l.file.Sync()
}

// Close flushes and closes the underlying file.
func (l *CSVLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.flushLocked(); err != nil {
		return err
	}
	return l.file.Close()
}
