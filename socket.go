//go:build unix

package cooploop

import (
	"time"

	"golang.org/x/sys/unix"
)

// Socket wraps a non-blocking POSIX socket, exposing a readiness
// contract that pauses the calling coroutine (rather than the OS thread)
// until the socket is ready, polling with a short, finite timeout each
// time. It operates on raw file descriptors and unix.Sockaddr, not
// net.Conn, since the whole point is to drive I/O from inside the
// cooperative scheduler instead of a blocking goroutine-per-connection
// model.
type Socket struct {
	fd           int
	pollInterval time.Duration
}

// NewSocket creates a non-blocking socket, equivalent to socket(2)
// followed by setting O_NONBLOCK.
func NewSocket(domain, typ, proto int) (*Socket, error) {
	fd, err := unix.Socket(domain, typ, proto)
	if err != nil {
		return nil, &SocketError{Op: "socket", Err: err}
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		return nil, &SocketError{Op: "setnonblock", Err: err}
	}
	return &Socket{fd: fd, pollInterval: defaultPollInterval}, nil
}

func newAcceptedSocket(fd int, pollInterval time.Duration) (*Socket, error) {
	if err := unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		return nil, &SocketError{Op: "setnonblock", Err: err}
	}
	return &Socket{fd: fd, pollInterval: pollInterval}, nil
}

// SetPollInterval overrides the readiness poll timeout for this Socket.
// New sockets inherit Loop's configured WithPollInterval (via
// Socket.WithLoop) or default to 10ms.
func (s *Socket) SetPollInterval(d time.Duration) {
	if d > 0 {
		s.pollInterval = d
	}
}

// WithLoop adopts l's configured poll interval, for sockets created
// outside a call that already has access to the ambient Loop.
func (s *Socket) WithLoop(l *Loop) *Socket {
	if l != nil {
		s.pollInterval = l.PollInterval()
	}
	return s
}

// Fd returns the underlying file descriptor.
func (s *Socket) Fd() int { return s.fd }

// Close closes the socket.
func (s *Socket) Close() error {
	if err := unix.Close(s.fd); err != nil {
		return &SocketError{Op: "close", Err: err}
	}
	return nil
}

// SetsockoptInt sets an integer socket option, e.g. SO_REUSEADDR.
func (s *Socket) SetsockoptInt(level, opt, value int) error {
	if err := unix.SetsockoptInt(s.fd, level, opt, value); err != nil {
		return &SocketError{Op: "setsockopt", Err: err}
	}
	return nil
}

// SetTimeout sets SO_RCVTIMEO and SO_SNDTIMEO, a thin pass-through
// alongside SetsockoptInt. Recv/Send/Accept/Connect never actually block
// on the kernel timeout this configures, since they pause the calling
// coroutine via WaitReadable/WaitWritable instead of blocking in the
// syscall; this exists so a Socket exposes the same settimeout surface a
// caller porting blocking-socket code would expect.
func (s *Socket) SetTimeout(d time.Duration) error {
	tv := unix.NsecToTimeval(d.Nanoseconds())
	if err := unix.SetsockoptTimeval(s.fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
		return &SocketError{Op: "setsockopt(SO_RCVTIMEO)", Err: err}
	}
	if err := unix.SetsockoptTimeval(s.fd, unix.SOL_SOCKET, unix.SO_SNDTIMEO, &tv); err != nil {
		return &SocketError{Op: "setsockopt(SO_SNDTIMEO)", Err: err}
	}
	return nil
}

// Bind binds the socket to a local address.
func (s *Socket) Bind(sa unix.Sockaddr) error {
	if err := unix.Bind(s.fd, sa); err != nil {
		return &SocketError{Op: "bind", Err: err}
	}
	return nil
}

// Listen marks the socket as a passive listener.
func (s *Socket) Listen(backlog int) error {
	if err := unix.Listen(s.fd, backlog); err != nil {
		return &SocketError{Op: "listen", Err: err}
	}
	return nil
}

// pollTimeoutMillis converts the configured poll interval to the
// millisecond granularity unix.Poll expects, with a floor of 1ms so a
// zero-value Socket (not constructed via NewSocket) still makes
// progress.
func (s *Socket) pollTimeoutMillis() int {
	ms := int(s.pollInterval / time.Millisecond)
	if ms <= 0 {
		ms = 1
	}
	return ms
}

// waitFor pauses, polling for events on the socket, until the requested
// events are ready or the caller is cancelled.
func (s *Socket) waitFor(yield Yield, events int16) error {
	for {
		pfd := []unix.PollFd{{Fd: int32(s.fd), Events: events}}
		n, err := unix.Poll(pfd, s.pollTimeoutMillis())
		if err != nil {
			if err == unix.EINTR {
				if cancel := yield(); cancel != nil {
					return cancel
				}
				continue
			}
			logWarn(globalLogger, logCategorySocket, "poll failed", err)
			return &SocketError{Op: "poll", Err: err}
		}
		if n > 0 && pfd[0].Revents&events != 0 {
			return nil
		}
		logDebug(globalLogger, logCategorySocket, "readiness poll retry")
		if cancel := yield(); cancel != nil {
			return cancel
		}
	}
}

// WaitReadable pauses until the socket has data to read (or a pending
// connection to accept).
func (s *Socket) WaitReadable(yield Yield) error {
	return s.waitFor(yield, unix.POLLIN)
}

// WaitWritable pauses until the socket can accept written data (or a
// pending connect has completed).
func (s *Socket) WaitWritable(yield Yield) error {
	return s.waitFor(yield, unix.POLLOUT)
}

// Connect begins a non-blocking connect and pauses until it completes.
func (s *Socket) Connect(yield Yield, sa unix.Sockaddr) error {
	err := unix.Connect(s.fd, sa)
	if err != nil && err != unix.EINPROGRESS && err != unix.EALREADY {
		logWarn(globalLogger, logCategorySocket, "connect failed", err)
		return &SocketError{Op: "connect", Err: err}
	}
	return s.WaitWritable(yield)
}

// Accept pauses until a connection is pending, then accepts it.
func (s *Socket) Accept(yield Yield) (*Socket, unix.Sockaddr, error) {
	if err := s.WaitReadable(yield); err != nil {
		return nil, nil, err
	}
	for {
		nfd, sa, err := unix.Accept(s.fd)
		if err == nil {
			conn, err := newAcceptedSocket(nfd, s.pollInterval)
			if err != nil {
				return nil, nil, err
			}
			return conn, sa, nil
		}
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			if err := s.WaitReadable(yield); err != nil {
				return nil, nil, err
			}
			continue
		}
		logWarn(globalLogger, logCategorySocket, "accept failed", err)
		return nil, nil, &SocketError{Op: "accept", Err: err}
	}
}

// Recv pauses until data is available, then reads up to n bytes.
func (s *Socket) Recv(yield Yield, n int) ([]byte, error) {
	if err := s.WaitReadable(yield); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	for {
		m, err := unix.Read(s.fd, buf)
		if err == nil {
			return buf[:m], nil
		}
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			if err := s.WaitReadable(yield); err != nil {
				return nil, err
			}
			continue
		}
		logWarn(globalLogger, logCategorySocket, "read failed", err)
		return nil, &SocketError{Op: "read", Err: err}
	}
}

// Send pauses as needed until all of data has been written.
func (s *Socket) Send(yield Yield, data []byte) (int, error) {
	total := 0
	for total < len(data) {
		if err := s.WaitWritable(yield); err != nil {
			return total, err
		}
		n, err := unix.Write(s.fd, data[total:])
		if err == nil {
			total += n
			continue
		}
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			continue
		}
		logWarn(globalLogger, logCategorySocket, "write failed", err)
		return total, &SocketError{Op: "write", Err: err}
	}
	return total, nil
}
