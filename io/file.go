package io

import (
	"errors"
	"os"
)

// File is a thin positional-IO wrapper around os.File used by segment
// storage. ReadAt is safe for concurrent use, matching the parallel
// block decode path.
type File struct {
	path   string
	file   *os.File
	opened bool

	exists bool
}

func NewFile(path string) *File {

	_, err := os.Stat(path)

	f := &File{
		path:   path,
		exists: err == nil,
	}

	return f
}

func (f *File) Exists() bool {
	return f.exists
}

func (f *File) Open(readOnly bool) (topErr error) {

	var perm os.FileMode = 0644

	if readOnly {
		f.file, topErr = os.OpenFile(f.path, os.O_RDONLY, perm)
	} else {
		f.file, topErr = os.OpenFile(f.path, os.O_CREATE|os.O_RDWR, perm)
	}

	if topErr == nil {
		f.opened = true
	}

	return topErr
}

func (f *File) Close() error {
	if !f.opened {
		return nil
	}

	f.opened = false
	return f.file.Close()
}

func (f *File) ReadAt(out []byte, off int) (err error) {
	if !f.opened {
		return errors.New("file not opened")
	}

	var readBytes int
	readBytes, err = f.file.ReadAt(out, int64(off))

	if readBytes != len(out) {
		return errors.New("read bytes mismatch")
	}

	return nil
}

func (f *File) WriteAt(in []byte, off int) (err error) {
	if !f.opened {
		return errors.New("file not opened")
	}

	var writtenBytes int
	writtenBytes, err = f.file.WriteAt(in, int64(off))
	if writtenBytes != len(in) {
		return errors.New("written bytes mismatch")
	}

	return nil
}

func (f *File) Size() (int, error) {
	if !f.opened {
		return 0, errors.New("file not opened")
	}

	st, err := f.file.Stat()
	if err != nil {
		return 0, err
	}
	return int(st.Size()), nil
}
