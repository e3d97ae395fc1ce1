package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-logfmt/logfmt"
)

// Entry is one decoded session log record.
type Entry struct {
	Time    time.Time
	Level   log.Level
	Message string
	Fields  []Field
	Raw     string
}

// Field is an extra key/value pair attached to a record.
type Field struct {
	Key   string
	Value string
}

// Read returns at most maxLines from the end of the file at path.
// A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Tail reads the last maxLines records and drops those below minLevel.
func Tail(path string, maxLines int, minLevel log.Level) ([]Entry, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		e := Parse(line)
		if e.Level < minLevel {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Parse decodes a logfmt record. Lines that are not logfmt come back with
// only Raw and Message set, at info level.
func Parse(line string) Entry {
	e := Entry{Raw: line, Level: log.InfoLevel}

	dec := logfmt.NewDecoder(strings.NewReader(line))
	if !dec.ScanRecord() {
		e.Message = line
		return e
	}
	sawMessage := false
	for dec.ScanKeyval() {
		key, value := string(dec.Key()), string(dec.Value())
		switch key {
		case log.TimestampKey:
			if ts, err := time.Parse(time.RFC3339, value); err == nil {
				e.Time = ts
			}
		case log.LevelKey:
			if lvl, err := log.ParseLevel(value); err == nil {
				e.Level = lvl
			}
		case log.MessageKey:
			e.Message = value
			sawMessage = true
		case log.PrefixKey:
		default:
			e.Fields = append(e.Fields, Field{Key: key, Value: value})
		}
	}
	if dec.Err() != nil || !sawMessage {
		return Entry{Raw: line, Level: log.InfoLevel, Message: line}
	}
	return e
}

// Format renders an entry as a single human-readable line.
func Format(e Entry) string {
	if e.Time.IsZero() && len(e.Fields) == 0 && e.Message == e.Raw {
		return e.Raw
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("2006-01-02 15:04:05"))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s %s", strings.ToUpper(e.Level.String()), e.Message)

	fields := append([]Field(nil), e.Fields...)
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%s", f.Key, f.Value)
	}
	return b.String()
}
