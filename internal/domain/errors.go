package domain

import "errors"

var (
	ErrDecode        = errors.New("source image cannot be decoded")
	ErrWrite         = errors.New("output file cannot be written")
	ErrDirectory     = errors.New("export directory rejected")
	ErrSnapshotRead  = errors.New("snapshot cannot be read")
	ErrSnapshotWrite = errors.New("snapshot cannot be written")
)

// ErrorKind labels a per-item export failure in reports.
type ErrorKind string

const (
	KindDecode ErrorKind = "decode"
	KindWrite  ErrorKind = "write"
)
