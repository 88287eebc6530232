package writers

import "io"

// LazyWriteCloser delays opening the underlying writer until the first
// write, so an output file is never created when the export fails before
// producing anything.
type LazyWriteCloser struct {
	init   func() (io.WriteCloser, error)
	writer io.WriteCloser
}

// NewLazyWriteCloser wraps an initialization function that is called once,
// on the first Write.
func NewLazyWriteCloser(init func() (io.WriteCloser, error)) *LazyWriteCloser {
	return &LazyWriteCloser{init: init}
}

func (l *LazyWriteCloser) Write(p []byte) (int, error) {
	if l.writer == nil {
		var err error
		l.writer, err = l.init()
		if err != nil {
			return 0, err
		}
	}
	return l.writer.Write(p)
}

// Close closes the underlying writer when it was opened; a never-written
// LazyWriteCloser closes without side effects.
func (l *LazyWriteCloser) Close() error {
	if l.writer != nil {
		return l.writer.Close()
	}
	return nil
}
