/**
 * Copyright (c) 2022, Xerra Earth Observation Institute.
 * Copyright (c) 2025, Simeon Miteff.
 *
 * See LICENSE.TXT in the root directory of this source tree.
 */

package transport

import (
	"encoding/binary"
	"net"
	"sync"
	"time"

	"github.com/higebu/netfd"

	"github.com/runZeroInc/lludp/pkg/frame"
)

const (
	StateOpen  = 0
	StateClosed = 1
)

var StateMap = map[int]string{
	StateOpen:  "open",
	StateClosed: "close",
}

// ReportStatsFn receives a diagnostic snapshot on open and close events.
type ReportStatsFn func(c *DiagConn, state int)

// DiagConn wraps a net.PacketConn the way the teacher's Conn wraps a
// net.Conn: byte counters and first-packet timestamps reported through a
// callback on open/close. Retargeted from stream Read/Write to datagram
// ReadFrom/WriteTo because LLUDP rides UDP, not TCP (§1). The raw fd is
// captured as the teacher does (see FD), but no socket-buffer depth gauge
// is built on it.
type DiagConn struct {
	net.PacketConn
	remote      net.Addr
	reportStats ReportStatsFn
	fd          int

	mu        sync.Mutex
	OpenedAt  int64
	ClosedAt  int64
	FirstRxAt int64
	FirstTxAt int64
	LastRxAt  int64
	LastTxAt  int64
	TxBytes   int64
	RxBytes   int64
	RxErr     error
	TxErr     error
}

var _ FrameSender = (*DiagConn)(nil)

// WrapPacketConn wraps pc, triggers an immediate open-state report, and
// returns the wrapped connection. remote is the simulator address every
// Send call targets.
func WrapPacketConn(pc net.PacketConn, remote net.Addr, reportStatsFn ReportStatsFn) *DiagConn {
	fd := -1
	if nc, ok := pc.(net.Conn); ok {
		fd = netfd.GetFdFromConn(nc)
	}
	d := &DiagConn{
		PacketConn:  pc,
		remote:      remote,
		reportStats: reportStatsFn,
		fd:          fd,
		OpenedAt:    time.Now().UnixNano(),
	}
	d.report(StateOpen)
	return d
}

func (d *DiagConn) report(state int) {
	if d.reportStats == nil {
		return
	}
	d.reportStats(d, state)
}

// FD returns the underlying socket descriptor, or -1 if pc wasn't also a
// net.Conn (e.g. a test fake). No package in this module reads it;
// pkg/metrics exports no socket-buffer gauge.
func (d *DiagConn) FD() int { return d.fd }

// Close reports the close-state snapshot before closing the connection.
func (d *DiagConn) Close() error {
	d.mu.Lock()
	d.ClosedAt = time.Now().UnixNano()
	d.mu.Unlock()
	d.report(StateClosed)
	return d.PacketConn.Close()
}

// ReadFrom wraps the underlying ReadFrom and tracks received bytes.
func (d *DiagConn) ReadFrom(b []byte) (int, net.Addr, error) {
	n, addr, err := d.PacketConn.ReadFrom(b)
	d.mu.Lock()
	if err == nil && n > 0 {
		ts := time.Now().UnixNano()
		if d.FirstRxAt == 0 {
			d.FirstRxAt = ts
		}
		d.LastRxAt = ts
	}
	d.RxBytes += int64(n)
	if err != nil {
		if nerr, ok := err.(net.Error); !ok || !nerr.Timeout() {
			d.RxErr = err
		}
	}
	d.mu.Unlock()
	return n, addr, err
}

// WriteTo wraps the underlying WriteTo and tracks sent bytes.
func (d *DiagConn) WriteTo(b []byte, addr net.Addr) (int, error) {
	n, err := d.PacketConn.WriteTo(b, addr)
	d.mu.Lock()
	if err == nil && n > 0 {
		ts := time.Now().UnixNano()
		if d.FirstTxAt == 0 {
			d.FirstTxAt = ts
		}
		d.LastTxAt = ts
	}
	d.TxBytes += int64(n)
	if err != nil {
		if nerr, ok := err.(net.Error); !ok || !nerr.Timeout() {
			d.TxErr = err
		}
	}
	d.mu.Unlock()
	return n, err
}

// Send implements transport.FrameSender: a datagram is the frame's message
// number (big-endian uint32) followed by its payload bytes. Reliability,
// sequencing and zero-code decompression are a real session layer's job and
// are explicitly out of scope here (§1).
func (d *DiagConn) Send(f frame.Frame) error {
	buf := make([]byte, 4+len(f.Payload))
	binary.BigEndian.PutUint32(buf, uint32(f.Number))
	copy(buf[4:], f.Payload)
	_, err := d.WriteTo(buf, d.remote)
	return err
}

// Snapshot returns a point-in-time copy of the counters for a report
// callback to read without racing further Read/Write calls.
func (d *DiagConn) Snapshot() DiagConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DiagConn{
		OpenedAt:  d.OpenedAt,
		ClosedAt:  d.ClosedAt,
		FirstRxAt: d.FirstRxAt,
		FirstTxAt: d.FirstTxAt,
		LastRxAt:  d.LastRxAt,
		LastTxAt:  d.LastTxAt,
		TxBytes:   d.TxBytes,
		RxBytes:   d.RxBytes,
		RxErr:     d.RxErr,
		TxErr:     d.TxErr,
	}
}
