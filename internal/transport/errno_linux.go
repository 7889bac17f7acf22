//go:build linux

package transport

import (
	"errors"

	"golang.org/x/sys/unix"
)

const (
	errnoEBUSY  = unix.EBUSY
	errnoEBADF  = unix.EBADF
	errnoEACCES = unix.EACCES
	errnoEPERM  = unix.EPERM
	errnoENODEV = unix.ENODEV
	errnoENXIO  = unix.ENXIO
	errnoENOENT = unix.ENOENT
	errnoEIO    = unix.EIO
)

func isErrno(err error, want unix.Errno) bool {
	var errno unix.Errno
	if errors.As(err, &errno) {
		return errno == want
	}
	return false
}
