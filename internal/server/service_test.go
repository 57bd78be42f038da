package server

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/slatelisp/nrepld/internal/protocol/bencode"
	"github.com/slatelisp/nrepld/internal/testutil/testlog"
)

func startService(t *testing.T) (*Service, net.Addr, context.CancelFunc, chan error) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	svc := NewService()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- svc.Serve(ctx, ln)
	}()
	return svc, ln.Addr(), cancel, done
}

func waitServe(t *testing.T, done chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func readReply(t *testing.T, r *bufio.Reader) bencode.Value {
	t.Helper()
	v, err := bencode.ReadValue(r, bencode.DefaultLimits())
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	return v
}

func replyField(t *testing.T, v bencode.Value, key string) string {
	t.Helper()
	field, ok := v.DictGet(key)
	if !ok {
		t.Fatalf("reply missing %q", key)
	}
	s, err := field.AsString()
	if err != nil {
		t.Fatalf("reply field %q: %v", key, err)
	}
	return s
}

func TestServeCloneRoundTrip(t *testing.T) {
	testlog.Start(t)

	svc, addr, cancel, done := startService(t)
	defer cancel()

	conn, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	reader := bufio.NewReader(conn)

	if _, err := conn.Write([]byte("d2:op5:clone2:id3:abce")); err != nil {
		t.Fatalf("write: %v", err)
	}
	reply := readReply(t, reader)
	if got := replyField(t, reply, "id"); got != "abc" {
		t.Fatalf("expected echoed id abc, got %s", got)
	}
	minted := replyField(t, reply, "new-session")
	if !sessionIDPattern.MatchString(minted) {
		t.Fatalf("minted id %q does not match the session id grammar", minted)
	}
	if got := replyField(t, reply, "status"); got != "done" {
		t.Fatalf("expected status done, got %s", got)
	}

	if svc.Registry().Len() != 1 {
		t.Fatalf("expected 1 registered session, got %d", svc.Registry().Len())
	}
	if _, ok := svc.Registry().Get("abc"); !ok {
		t.Fatal("expected requested id in the registry")
	}

	cancel()
	waitServe(t, done)
}

func TestServeAnswersRejectionAndKeepsConnection(t *testing.T) {
	testlog.Start(t)

	_, addr, cancel, done := startService(t)
	defer cancel()

	conn, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	reader := bufio.NewReader(conn)

	if _, err := conn.Write([]byte("d2:op4:evale")); err != nil {
		t.Fatalf("write: %v", err)
	}
	reply := readReply(t, reader)
	if got := replyField(t, reply, "error"); got != "unknown-op" {
		t.Fatalf("expected unknown-op, got %s", got)
	}
	if got := replyField(t, reply, "status"); got != "error" {
		t.Fatalf("expected status error, got %s", got)
	}

	if _, err := conn.Write([]byte("d2:op5:clonee")); err != nil {
		t.Fatalf("write: %v", err)
	}
	reply = readReply(t, reader)
	if got := replyField(t, reply, "error"); got != "missing-field" {
		t.Fatalf("expected missing-field, got %s", got)
	}
	if got := replyField(t, reply, "field"); got != "id" {
		t.Fatalf("expected field id, got %s", got)
	}

	if _, err := conn.Write([]byte("d2:op5:clone2:id3:xyze")); err != nil {
		t.Fatalf("write: %v", err)
	}
	reply = readReply(t, reader)
	if got := replyField(t, reply, "status"); got != "done" {
		t.Fatalf("connection should survive rejections, got status %s", got)
	}

	cancel()
	waitServe(t, done)
}

func TestServeMalformedInputClosesConnection(t *testing.T) {
	testlog.Start(t)

	_, addr, cancel, done := startService(t)
	defer cancel()

	conn, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	reader := bufio.NewReader(conn)

	if _, err := conn.Write([]byte("xyz")); err != nil {
		t.Fatalf("write: %v", err)
	}
	reply := readReply(t, reader)
	if got := replyField(t, reply, "error"); got != "decode-error" {
		t.Fatalf("expected decode-error, got %s", got)
	}
	if got := replyField(t, reply, "status"); got != "error" {
		t.Fatalf("expected status error, got %s", got)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, err := reader.ReadByte(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected connection close after malformed input, got %v", err)
	}

	cancel()
	waitServe(t, done)
}

func TestServeOversizedRequestClosesConnection(t *testing.T) {
	testlog.Start(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	cfg := DefaultServiceConfig()
	cfg.Limits = bencode.Limits{MaxValueBytes: 64, MaxStringBytes: 32}
	svc := NewServiceWithConfig(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- svc.Serve(ctx, ln)
	}()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	reader := bufio.NewReader(conn)

	payload := "d2:op5:clone2:id100:" + strings.Repeat("x", 100) + "e"
	if _, err := conn.Write([]byte(payload)); err != nil {
		t.Fatalf("write: %v", err)
	}
	reply := readReply(t, reader)
	if got := replyField(t, reply, "error"); got != "decode-error" {
		t.Fatalf("expected decode-error, got %s", got)
	}
	if got := replyField(t, reply, "status"); got != "error" {
		t.Fatalf("expected status error, got %s", got)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, err := reader.ReadByte(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected connection close after oversized request, got %v", err)
	}

	cancel()
	waitServe(t, done)
}

func TestServePipelinedRequests(t *testing.T) {
	testlog.Start(t)

	svc, addr, cancel, done := startService(t)
	defer cancel()

	conn, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	reader := bufio.NewReader(conn)

	if _, err := conn.Write([]byte("d2:op5:clone2:id3:onee" + "d2:op5:clone2:id3:twoe")); err != nil {
		t.Fatalf("write: %v", err)
	}
	first := readReply(t, reader)
	if got := replyField(t, first, "id"); got != "one" {
		t.Fatalf("expected first reply for one, got %s", got)
	}
	second := readReply(t, reader)
	if got := replyField(t, second, "id"); got != "two" {
		t.Fatalf("expected second reply for two, got %s", got)
	}
	if svc.Registry().Len() != 2 {
		t.Fatalf("expected 2 registered sessions, got %d", svc.Registry().Len())
	}

	cancel()
	waitServe(t, done)
}

func TestServeConcurrentClients(t *testing.T) {
	testlog.Start(t)

	svc, addr, cancel, done := startService(t)
	defer cancel()

	const clients = 8
	errs := make(chan error, clients)
	for i := 0; i < clients; i++ {
		id := string(rune('a' + i))
		go func() {
			conn, err := net.Dial("tcp", addr.String())
			if err != nil {
				errs <- err
				return
			}
			defer conn.Close()
			if _, err := conn.Write([]byte("d2:op5:clone2:id1:" + id + "e")); err != nil {
				errs <- err
				return
			}
			reply, err := bencode.ReadValue(bufio.NewReader(conn), bencode.DefaultLimits())
			if err != nil {
				errs <- err
				return
			}
			status, ok := reply.DictGet("status")
			if !ok {
				errs <- errors.New("reply missing status")
				return
			}
			s, err := status.AsString()
			if err != nil {
				errs <- err
				return
			}
			if s != "done" {
				errs <- errors.New("expected status done, got " + s)
				return
			}
			errs <- nil
		}()
	}
	for i := 0; i < clients; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("client: %v", err)
		}
	}
	if svc.Registry().Len() != clients {
		t.Fatalf("expected %d registered sessions, got %d", clients, svc.Registry().Len())
	}

	cancel()
	waitServe(t, done)
}
