// Package capture reads and writes replayable recordings of the host events
// the combat engine consumes: logins, logouts, NPC snapshots and raw combat
// packets. A capture is a zstd stream of length-prefixed frames.
package capture

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/l1jgo/combatstats/internal/net"
)

// Writer appends records to a capture.
type Writer struct {
	enc *zstd.Encoder
}

// NewWriter starts a capture on w. Close must be called to flush it; it does
// not close w.
func NewWriter(w io.Writer) (*Writer, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("capture writer: %w", err)
	}
	return &Writer{enc: enc}, nil
}

func (w *Writer) Write(rec Record) error {
	data, err := rec.marshal()
	if err != nil {
		return err
	}
	return net.WriteFrame(w.enc, data)
}

func (w *Writer) Close() error {
	return w.enc.Close()
}

// Reader iterates over the records of a capture.
type Reader struct {
	dec *zstd.Decoder
	buf []byte
	n   int
}

func NewReader(r io.Reader) (*Reader, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("capture reader: %w", err)
	}
	return &Reader{dec: dec, buf: make([]byte, 0, 256)}, nil
}

// Next returns the next record, or io.EOF after the last one.
func (r *Reader) Next() (Record, error) {
	frame, err := net.ReadFrame(r.dec, r.buf)
	if err != nil {
		if err == io.EOF {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("capture record %d: %w", r.n, err)
	}
	r.buf = frame[:0]
	rec, err := unmarshal(frame)
	if err != nil {
		return rec, fmt.Errorf("capture record %d: %w", r.n, err)
	}
	r.n++
	return rec, nil
}

func (r *Reader) Close() {
	r.dec.Close()
}
