package meter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/snksoft/crc"
	"github.com/tarm/serial"

	"github.com/chromabench/chromabench/chroma"
	"github.com/chromabench/chromabench/comm"
)

// The serial protocol is line oriented: an ASCII command, an asterisk, four
// hex digits of CRC-16/XMODEM over the command bytes, and a carriage return.
// Responses use the same framing.  A reading response carries three
// space-separated floats, X Y Z in cd/m².
const (
	serialTerminator = '\r'
	checksumMark     = '*'
)

var (
	// ErrBadChecksum is returned when a response frame fails CRC
	// verification.
	ErrBadChecksum = errors.New("meter response failed CRC check")

	// ErrMalformedReading is returned when a reading response does not
	// carry three components.
	ErrMalformedReading = errors.New("meter reading malformed")

	crcTable = crc.NewTable(crc.XMODEM)
)

func checksum(b []byte) []byte {
	c := crcTable.InitCrc()
	c = crcTable.UpdateCrc(c, b)
	return []byte(fmt.Sprintf("%04X", crcTable.CRC16(c)))
}

func frame(cmd string) []byte {
	b := []byte(cmd)
	b = append(b, checksumMark)
	return append(b, checksum([]byte(cmd))...)
}

// unframe splits a response into payload and CRC, verifying the latter.
func unframe(resp []byte) ([]byte, error) {
	i := bytes.LastIndexByte(resp, checksumMark)
	if i < 0 {
		return nil, ErrBadChecksum
	}
	payload, sum := resp[:i], resp[i+1:]
	if !bytes.Equal(sum, checksum(payload)) {
		return nil, ErrBadChecksum
	}
	return payload, nil
}

// Serial is a colorimeter attached over a serial port.  Reads are retried
// with a bounded exponential backoff; colorimeters drop frames during sensor
// resynchronization.
type Serial struct {
	pool *comm.Pool
}

// NewSerial opens a colorimeter on the given port.
func NewSerial(port string, baud int) *Serial {
	cfg := serial.Config{Name: port, Baud: baud, ReadTimeout: 5 * time.Second}
	return &Serial{pool: comm.NewPool(comm.SerialMaker(cfg))}
}

func (m *Serial) exchange(cmd string) ([]byte, error) {
	var payload []byte
	op := func() error {
		return m.pool.Do(func(rw io.ReadWriter) error {
			f := comm.NewFramer(rw, serialTerminator, serialTerminator)
			resp, err := f.SendRecv(frame(cmd))
			if err != nil {
				return err
			}
			payload, err = unframe(resp)
			return err
		})
	}
	err := backoff.Retry(op, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3))
	return payload, err
}

// Measure triggers a reading and returns the tristimulus value.
func (m *Serial) Measure() (chroma.XYZ, error) {
	payload, err := m.exchange("XYZ?")
	if err != nil {
		return chroma.XYZ{}, err
	}
	fields := bytes.Fields(payload)
	if len(fields) != 3 {
		return chroma.XYZ{}, ErrMalformedReading
	}
	var vals [3]float64
	for i, f := range fields {
		vals[i], err = strconv.ParseFloat(string(f), 64)
		if err != nil {
			return chroma.XYZ{}, fmt.Errorf("meter reading component %d: %w", i, err)
		}
	}
	return chroma.XYZ{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

// Configure applies acquisition settings to the meter.
func (m *Serial) Configure(s Settings) error {
	avg := 0
	if s.Average {
		avg = 1
	}
	if _, err := m.exchange(fmt.Sprintf("AVG %d", avg)); err != nil {
		return err
	}
	if s.Integration > 0 {
		ms := s.Integration.Milliseconds()
		if _, err := m.exchange(fmt.Sprintf("ITIME %d", ms)); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the serial port.
func (m *Serial) Close() error {
	return m.pool.Close()
}
