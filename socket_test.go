//go:build unix

package cooploop

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// driveUntilDone steps c directly, up to 10000 times and with no
// clock-based timeout, used for sockets whose readiness genuinely depends
// on real OS-level I/O rather than an injected clock.
func driveUntilDone[R any](t *testing.T, c Coro[R]) (R, error) {
	t.Helper()
	for i := 0; i < 10000; i++ {
		done, err := c.Step(nil)
		if done {
			return c.Result(), err
		}
	}
	t.Fatal("coroutine never completed")
	var zero R
	return zero, nil
}

func TestSocket_LoopbackSendRecv(t *testing.T) {
	server, err := NewSocket(unix.AF_INET, unix.SOCK_STREAM, 0)
	require.NoError(t, err)
	defer server.Close()

	require.NoError(t, server.SetsockoptInt(unix.SOL_SOCKET, unix.SO_REUSEADDR, 1))
	require.NoError(t, server.Bind(&unix.SockaddrInet4{Addr: [4]byte{127, 0, 0, 1}, Port: 0}))
	require.NoError(t, server.Listen(1))

	sa, err := unix.Getsockname(server.Fd())
	require.NoError(t, err)
	addr := sa.(*unix.SockaddrInet4)

	var accepted *Socket
	acceptCoro := Func(func(yield Yield) (struct{}, error) {
		conn, _, err := server.Accept(yield)
		if err != nil {
			return struct{}{}, err
		}
		accepted = conn
		return struct{}{}, nil
	})

	client, err := NewSocket(unix.AF_INET, unix.SOCK_STREAM, 0)
	require.NoError(t, err)
	defer client.Close()

	connectCoro := Func(func(yield Yield) (struct{}, error) {
		return struct{}{}, client.Connect(yield, &unix.SockaddrInet4{Addr: addr.Addr, Port: addr.Port})
	})

	// Drive both sides together: accepting and connecting are each
	// waiting on the other, so neither can be driven to completion in
	// isolation.
	acceptDone, connectDone := false, false
	var acceptErr, connectErr error
	for i := 0; i < 10000 && (!acceptDone || !connectDone); i++ {
		if !acceptDone {
			var done bool
			done, acceptErr = acceptCoro.Step(nil)
			acceptDone = done
		}
		if !connectDone {
			var done bool
			done, connectErr = connectCoro.Step(nil)
			connectDone = done
		}
	}
	require.True(t, acceptDone)
	require.True(t, connectDone)
	require.NoError(t, acceptErr)
	require.NoError(t, connectErr)
	require.NotNil(t, accepted)
	defer accepted.Close()

	sendCoro := Func(func(yield Yield) (int, error) {
		return client.Send(yield, []byte("ping"))
	})
	n, err := driveUntilDone(t, sendCoro)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	recvCoro := Func(func(yield Yield) ([]byte, error) {
		return accepted.Recv(yield, 16)
	})
	data, err := driveUntilDone(t, recvCoro)
	require.NoError(t, err)
	require.Equal(t, "ping", string(data))
}
