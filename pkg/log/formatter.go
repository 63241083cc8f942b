package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// JSONFormatter writes one JSON object per entry.
type JSONFormatter struct {
	// TimestampFormat defaults to time.RFC3339Nano.
	TimestampFormat string
}

func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	layout := f.TimestampFormat
	if layout == "" {
		layout = time.RFC3339Nano
	}
	data := make(map[string]interface{}, len(entry.Fields)+3)
	for k, v := range entry.Fields {
		data[k] = v
	}
	data["time"] = entry.Timestamp.Format(layout)
	data["level"] = entry.Level.String()
	data["msg"] = entry.Message
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// TextFormatter writes "time LEVEL message key=value ..." with sorted keys.
type TextFormatter struct {
	// DisableTimestamp omits the leading timestamp.
	DisableTimestamp bool
	// TimestampFormat defaults to "2006-01-02T15:04:05.000Z07:00".
	TimestampFormat string
}

func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	var b bytes.Buffer
	if !f.DisableTimestamp {
		layout := f.TimestampFormat
		if layout == "" {
			layout = "2006-01-02T15:04:05.000Z07:00"
		}
		b.WriteString(entry.Timestamp.Format(layout))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s %s", entry.Level.String(), entry.Message)

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Fields[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}
