//go:build solaris
// +build solaris

package fileutil

import (
	"golang.org/x/sys/unix"
	"os"
)

type unixLock struct {
	f *os.File
}

var _ Releaser = (*unixLock)(nil)

func (l *unixLock) Release() error {
	return l.set(false)
}

func (l *unixLock) set(lock bool) error {
	flock := unix.Flock_t{
		Type:   unix.F_UNLCK,
		Start:  0,
		Len:    0,
		Whence: 1,
	}
	if lock {
		flock.Type = unix.F_WRLCK
	}
	return unix.FcntlFlock(l.f.Fd(), unix.F_SETLK, &flock)
}

func NewLock(f *os.File) (Releaser, error) {
	l := &unixLock{f}
	return l, l.set(true)
}
