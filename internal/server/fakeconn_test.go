package server

import (
	"io"
	"net"
	"time"
)

// fakeConn is a minimal net.Conn that just records what's written to it.
// Tests exercise the simulation directly (join admission, tick stepping)
// without spinning up real sockets; Write is the only method the
// simulation actually calls on a subscriber's connection in these tests.
type fakeConn struct {
	written [][]byte
}

func (f *fakeConn) Read(b []byte) (int, error)  { return 0, io.EOF }
func (f *fakeConn) Write(b []byte) (int, error) {
	cp := append([]byte(nil), b...)
	f.written = append(f.written, cp)
	return len(b), nil
}
func (f *fakeConn) Close() error                       { return nil }
func (f *fakeConn) LocalAddr() net.Addr                { return fakeAddr{} }
func (f *fakeConn) RemoteAddr() net.Addr               { return fakeAddr{} }
func (f *fakeConn) SetDeadline(t time.Time) error      { return nil }
func (f *fakeConn) SetReadDeadline(t time.Time) error  { return nil }
func (f *fakeConn) SetWriteDeadline(t time.Time) error { return nil }

type fakeAddr struct{}

func (fakeAddr) Network() string { return "fake" }
func (fakeAddr) String() string  { return "[127.0.0.1]:0" }
