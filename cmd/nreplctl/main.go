package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/slatelisp/nrepld/internal/protocol/bencode"
	"github.com/slatelisp/nrepld/internal/protocol/nrepl"
)

type options struct {
	addr    string
	op      string
	id      string
	timeout time.Duration
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.addr, "addr", "127.0.0.1:5555", "server address")
	flag.StringVar(&opts.op, "op", nrepl.OpClone, "operation to send")
	flag.StringVar(&opts.id, "id", "", "requested session id (omitted when empty)")
	flag.DurationVar(&opts.timeout, "timeout", 5*time.Second, "dial and i/o timeout")
	flag.Parse()
	return opts
}

func main() {
	opts := parseFlags()

	reply, err := send(opts)
	if err != nil {
		fatalf("%v", err)
	}

	failed := false
	for _, pair := range reply.Dict {
		fmt.Printf("%s = %s\n", pair.Key, renderValue(pair.Value))
		if pair.Key == nrepl.KeyStatus {
			if status, err := pair.Value.AsString(); err == nil && status == nrepl.StatusError {
				failed = true
			}
		}
	}
	if failed {
		os.Exit(1)
	}
}

func send(opts options) (bencode.Value, error) {
	pairs := []bencode.Pair{
		{Key: nrepl.KeyOp, Value: bencode.NewString(opts.op)},
	}
	if strings.TrimSpace(opts.id) != "" {
		pairs = append(pairs, bencode.Pair{Key: nrepl.KeyID, Value: bencode.NewString(opts.id)})
	}
	payload, err := bencode.Encode(bencode.NewDict(pairs...))
	if err != nil {
		return bencode.Value{}, err
	}

	conn, err := net.DialTimeout("tcp", opts.addr, opts.timeout)
	if err != nil {
		return bencode.Value{}, err
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(opts.timeout)); err != nil {
		return bencode.Value{}, err
	}
	if _, err := conn.Write(payload); err != nil {
		return bencode.Value{}, err
	}
	if err := conn.SetReadDeadline(time.Now().Add(opts.timeout)); err != nil {
		return bencode.Value{}, err
	}
	reply, err := bencode.ReadValue(bufio.NewReader(conn), bencode.DefaultLimits())
	if err != nil {
		return bencode.Value{}, fmt.Errorf("read reply: %w", err)
	}
	if reply.Kind != bencode.KindDict {
		return bencode.Value{}, fmt.Errorf("unexpected reply shape")
	}
	return reply, nil
}

func renderValue(v bencode.Value) string {
	switch v.Kind {
	case bencode.KindBytes:
		return string(v.Bytes)
	case bencode.KindInt:
		return strconv.FormatInt(v.Int, 10)
	default:
		raw, err := bencode.Encode(v)
		if err != nil {
			return "<unprintable>"
		}
		return string(raw)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "nreplctl: "+format+"\n", args...)
	os.Exit(1)
}
