package loader

import "fmt"

// ReadError reports a file that could not be read or decoded.
type ReadError struct {
	Filename string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Filename, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// SizeError reports a file larger than the loader's cap.
type SizeError struct {
	Filename string
	Size     int64
	Limit    int64
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%s is %d bytes, larger than the limit of %d bytes", e.Filename, e.Size, e.Limit)
}
