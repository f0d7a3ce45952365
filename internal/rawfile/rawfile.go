// Package rawfile provides unbuffered, descriptor-level file I/O with an
// explicit POSIX open-flag mapping, used by the stream layer in place of
// os.File so the exact flag combinations this module relies on (append
// versus truncate, FIONREAD availability) stay visible and testable.
package rawfile

import (
	"io"

	"golang.org/x/sys/unix"
)

// Mode describes how a File is to be opened.
type Mode int

const (
	ModeRead Mode = 1 << iota
	ModeWrite
	ModeAppend
	ModeTrunc
	ModeAtEnd
)

// SysError wraps a failing syscall with the operation and path involved.
// errors.Is against the wrapped errno (e.g. unix.ENOENT) continues to work
// since Err is the raw error returned by the x/sys/unix call.
type SysError struct {
	Op   string
	Path string
	Err  error
}

func (e *SysError) Error() string {
	if e.Path != "" {
		return e.Op + " " + e.Path + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *SysError) Unwrap() error { return e.Err }

// File is an unbuffered, descriptor-backed byte source/sink.
type File struct {
	fd       int
	path     string
	owns     bool
	closed   bool
}

// flagsFor maps a Mode to the POSIX open(2) flag combination described in
// SPEC_FULL.md Section 4.2.
func flagsFor(mode Mode) int {
	switch {
	case mode&ModeRead != 0 && mode&ModeWrite != 0 && mode&ModeTrunc != 0:
		return unix.O_RDWR | unix.O_CREAT | unix.O_TRUNC
	case mode&ModeRead != 0 && mode&ModeWrite != 0:
		return unix.O_RDWR
	case mode&ModeWrite != 0 && mode&ModeAppend != 0:
		return unix.O_WRONLY | unix.O_CREAT | unix.O_APPEND
	case mode&ModeWrite != 0:
		return unix.O_WRONLY | unix.O_CREAT | unix.O_TRUNC
	default:
		return unix.O_RDONLY
	}
}

// Open opens path according to mode with the given create permissions.
func Open(path string, mode Mode, perm uint32) (*File, error) {
	flags := flagsFor(mode)
	var fd int
	var err error
	for {
		fd, err = unix.Open(path, flags, perm)
		if err != unix.EINTR {
			break
		}
	}
	if err != nil {
		return nil, &SysError{Op: "open", Path: path, Err: err}
	}
	f := &File{fd: fd, path: path, owns: true}
	if mode&ModeAtEnd != 0 {
		if _, err := f.Seek(0, io.SeekEnd); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// Attach wraps an already-open, externally-owned file descriptor. Close on
// the returned File does not close fd.
func Attach(fd int) *File {
	return &File{fd: fd, owns: false}
}

// Fd returns the underlying file descriptor.
func (f *File) Fd() int { return f.fd }

// Close closes the descriptor if this File owns it.
func (f *File) Close() error {
	if f.closed || !f.owns {
		f.closed = true
		return nil
	}
	f.closed = true
	var err error
	for {
		err = unix.Close(f.fd)
		if err != unix.EINTR {
			break
		}
	}
	if err != nil {
		return &SysError{Op: "close", Path: f.path, Err: err}
	}
	return nil
}

// Read reads into buf, retrying on EINTR, and maps a zero-length result at
// the end of the file to io.EOF per io.Reader convention.
func (f *File) Read(buf []byte) (int, error) {
	for {
		n, err := unix.Read(f.fd, buf)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return n, &SysError{Op: "read", Path: f.path, Err: err}
		}
		if n == 0 && len(buf) > 0 {
			return 0, io.EOF
		}
		return n, nil
	}
}

// Write writes all of buf, looping until every byte is written or an error
// occurs.
func (f *File) Write(buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := unix.Write(f.fd, buf[total:])
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return total, &SysError{Op: "write", Path: f.path, Err: err}
		}
		total += n
	}
	return total, nil
}

// Seek repositions the file offset, thinly wrapping lseek(2).
func (f *File) Seek(offset int64, whence int) (int64, error) {
	off, err := unix.Seek(f.fd, offset, whence)
	if err != nil {
		return 0, &SysError{Op: "seek", Path: f.path, Err: err}
	}
	return off, nil
}

// Avail returns the number of bytes immediately available to read without
// blocking, preferring ioctl(FIONREAD) and falling back to an lseek+fstat
// computation (current offset versus file size) when the ioctl is refused,
// as happens for plain regular files on some kernels.
func (f *File) Avail() (int, error) {
	n, err := unix.IoctlGetInt(f.fd, unix.FIONREAD)
	if err == nil {
		return n, nil
	}
	cur, serr := f.Seek(0, io.SeekCur)
	if serr != nil {
		return 0, serr
	}
	var st unix.Stat_t
	if ferr := unix.Fstat(f.fd, &st); ferr != nil {
		return 0, &SysError{Op: "fstat", Path: f.path, Err: ferr}
	}
	remaining := st.Size - cur
	if remaining < 0 {
		remaining = 0
	}
	return int(remaining), nil
}
