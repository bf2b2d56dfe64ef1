// Package lineproto implements the "KEY COUNT TIME" text protocol talond
// accepts over TCP: one record per line, dispatched to a shard table's Put.
//
// Framing is a single newline-terminated ASCII line, small and fixed
// enough that bufio.Scanner is a better fit than any line-protocol
// library in the example pack.
package lineproto

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sagalu/talon/errs"
)

// Putter is the subset of shard.Table that lineproto depends on, kept
// narrow so it can be tested without a real Table.
type Putter interface {
	Put(key string, tsec, c uint64) (bool, error)
}

// Record is one parsed "KEY COUNT TIME" line.
type Record struct {
	Key   string
	Count uint64
	Time  uint64
}

// ParseLine parses a single "KEY COUNT TIME" line. Fields are
// whitespace-separated; extra whitespace between fields is tolerated.
func ParseLine(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return Record{}, fmt.Errorf("%w: got %d fields", errs.ErrMalformedLine, len(fields))
	}

	count, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("lineproto: invalid count %q: %w", fields[1], err)
	}

	t, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("lineproto: invalid time %q: %w", fields[2], err)
	}

	return Record{Key: fields[0], Count: count, Time: t}, nil
}

// Serve reads newline-terminated records from r until EOF or a scan
// error, dispatching each to p.Put. Malformed lines and rejected puts are
// logged and skipped; they never terminate the connection. Serve returns
// only on an underlying read error or when r is exhausted.
func Serve(r io.Reader, p Putter, log *logrus.Entry) error {
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		rec, err := ParseLine(line)
		if err != nil {
			log.WithError(err).WithField("line", line).Warn("lineproto: dropping malformed line")
			continue
		}

		accepted, err := p.Put(rec.Key, rec.Time, rec.Count)
		if err != nil {
			log.WithError(err).WithField("key", rec.Key).Error("lineproto: put failed")
			continue
		}

		if !accepted {
			log.WithField("key", rec.Key).WithField("time", rec.Time).Debug("lineproto: put rejected")
		}
	}

	return scanner.Err()
}
