package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-logfmt/logfmt"
)

// Read returns at most maxLines from the end of the file at path. A missing
// file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 || strings.TrimSpace(path) == "" {
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
	count, next := 0, 0
	for scanner.Scan() {
		ring[next] = scanner.Text()
		next = (next + 1) % maxLines
		count++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if count <= maxLines {
		return ring[:count], nil
	}
	lines := make([]string, maxLines)
	for i := range lines {
		lines[i] = ring[(next+i)%maxLines]
	}
	return lines, nil
}

// Entry is one line written by the logrus text formatter.
type Entry struct {
	Time    string
	Level   string
	Message string
	Fields  map[string]string
	Raw     string
}

// RequestID returns the search request id the line was logged under.
func (e Entry) RequestID() string {
	return e.Fields["request_id"]
}

// Parse decodes a logfmt line. Lines without a level or message come back
// with only Raw and Message set.
func Parse(line string) Entry {
	entry := Entry{Raw: line, Fields: map[string]string{}}
	dec := logfmt.NewDecoder(strings.NewReader(line))
	for dec.ScanRecord() {
		for dec.ScanKeyval() {
			value := string(dec.Value())
			switch key := string(dec.Key()); key {
			case "time":
				entry.Time = value
			case "level":
				entry.Level = value
			case "msg":
				entry.Message = value
			default:
				entry.Fields[key] = value
			}
		}
	}
	if dec.Err() != nil || (entry.Level == "" && entry.Message == "") {
		return Entry{Raw: line, Message: line, Fields: map[string]string{}}
	}
	return entry
}

// Tail reads and parses the last maxLines entries of the log at path.
func Tail(path string, maxLines int) ([]Entry, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, Parse(line))
	}
	return entries, nil
}
