package display_test

import (
	"bufio"
	"encoding/json"
	"net"
	"testing"

	"github.com/chromabench/chromabench/display"
	"github.com/chromabench/chromabench/pattern"
)

// fakeRemote accepts one connection and answers every JSON line with the
// given status, recording the frames it saw.
func fakeRemote(t *testing.T, status, errmsg string) (addr string, frames chan map[string]interface{}) {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { l.Close() })
	frames = make(chan map[string]interface{}, 8)
	go func() {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			var frame map[string]interface{}
			if err := json.Unmarshal(sc.Bytes(), &frame); err != nil {
				return
			}
			frames <- frame
			reply, _ := json.Marshal(map[string]string{"status": status, "error": errmsg})
			conn.Write(append(reply, '\n'))
		}
	}()
	return l.Addr().String(), frames
}

func TestRemoteShowPattern(t *testing.T) {
	addr, frames := fakeRemote(t, "ok", "")
	r := display.NewRemote(addr)
	defer r.Close()

	err := r.ShowPattern(pattern.FullFieldColor([3]uint8{128, 128, 128}))
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	frame := <-frames
	if frame["cmd"] != "pattern" || frame["kind"] != "full" {
		t.Errorf("expected full-field pattern frame, got %v", frame)
	}
}

func TestRemoteRefusal(t *testing.T) {
	addr, _ := fakeRemote(t, "error", "unsupported pattern")
	r := display.NewRemote(addr)
	defer r.Close()

	if err := r.ShowPattern(pattern.FullFieldColor([3]uint8{255, 0, 0})); err == nil {
		t.Error("expected error when remote refuses the instruction")
	}
}

func TestRemoteRejectsNoneInstruction(t *testing.T) {
	r := display.NewRemote("127.0.0.1:1")
	defer r.Close()
	if err := r.ShowPattern(pattern.Instruction{}); err != display.ErrNoInstruction {
		t.Errorf("expected ErrNoInstruction, got %v", err)
	}
}

func TestNop(t *testing.T) {
	var n display.Nop
	if err := n.ShowPattern(pattern.FullFieldColor([3]uint8{1, 2, 3})); err != nil {
		t.Errorf("expected nop renderer to accept anything, got %v", err)
	}
}
