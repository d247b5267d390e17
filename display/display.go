// Package display drives the pattern-rendering side of the bench: a
// companion device that draws test patterns on the display under test.
package display

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/chromabench/chromabench/comm"
	"github.com/chromabench/chromabench/pattern"
)

// ErrNoInstruction is returned when asked to show the None sentinel.
var ErrNoInstruction = errors.New("display: instruction has no pattern")

// A Renderer shows test patterns on the display under test.
type Renderer interface {
	ShowPattern(pattern.Instruction) error
}

// Nop is a renderer that draws nothing, for dry runs.
type Nop struct{}

// ShowPattern discards the instruction.
func (Nop) ShowPattern(pattern.Instruction) error { return nil }

// Remote is a TCP/JSON client to the companion pattern generator.  Each
// instruction is one newline-terminated JSON frame; the device answers with
// a status frame.
type Remote struct {
	pool *comm.Pool
}

// NewRemote returns a client for the pattern generator at addr.
func NewRemote(addr string) *Remote {
	return &Remote{pool: comm.NewPool(comm.TCPMaker(addr, 3*time.Second))}
}

type remoteFrame struct {
	Cmd        string   `json:"cmd"`
	Kind       string   `json:"kind"`
	Color      [3]uint8 `json:"rgb"`
	Background [3]uint8 `json:"bg"`
	WindowPct  float64  `json:"window"`
}

type remoteReply struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// ShowPattern sends the instruction to the remote and checks its status
// reply.
func (r *Remote) ShowPattern(p pattern.Instruction) error {
	var kind string
	switch p.Kind {
	case pattern.FullField:
		kind = "full"
	case pattern.Window:
		kind = "window"
	default:
		return ErrNoInstruction
	}
	buf, err := json.Marshal(remoteFrame{
		Cmd:        "pattern",
		Kind:       kind,
		Color:      p.Color,
		Background: p.Background,
		WindowPct:  p.WindowPct,
	})
	if err != nil {
		return err
	}
	return r.pool.Do(func(rw io.ReadWriter) error {
		f := comm.NewFramer(rw, '\n', '\n')
		resp, err := f.SendRecv(buf)
		if err != nil {
			return err
		}
		var reply remoteReply
		if err := json.Unmarshal(resp, &reply); err != nil {
			return err
		}
		if reply.Status != "ok" {
			return fmt.Errorf("pattern remote refused instruction: %s", reply.Error)
		}
		return nil
	})
}

// Close drops the connection to the remote.
func (r *Remote) Close() error {
	return r.pool.Close()
}
