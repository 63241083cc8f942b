package log

import (
	"io"
	"os"
	"sync"
)

// WriterOutput writes formatted entries to an io.Writer.
type WriterOutput struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterOutput returns an Output writing to w.
func NewWriterOutput(w io.Writer) *WriterOutput { return &WriterOutput{w: w} }

func (o *WriterOutput) Write(_ *Entry, formatted []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, err := o.w.Write(formatted)
	return err
}

func (o *WriterOutput) Close() error { return nil }

// NewConsoleOutput writes to stderr.
func NewConsoleOutput() Output { return NewWriterOutput(os.Stderr) }

// FileOutput appends to a file.
type FileOutput struct {
	WriterOutput
	f *os.File
}

// NewFileOutput opens path for appending.
func NewFileOutput(path string) (*FileOutput, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileOutput{WriterOutput: WriterOutput{w: f}, f: f}, nil
}

func (o *FileOutput) Close() error { return o.f.Close() }

// NullOutput discards entries.
type NullOutput struct{}

func (NullOutput) Write(*Entry, []byte) error { return nil }
func (NullOutput) Close() error               { return nil }
