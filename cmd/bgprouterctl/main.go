package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/perrottam/networks-proj3/internal/transport"
)

var socketPath string

func main() {
	flag.StringVar(&socketPath, "socket", "/var/run/bgprouted/ctl.sock", "path to the bgprouted debug socket")
	flag.Parse()

	conn, err := transport.DialUnix(socketPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bgprouterctl: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "bgprouterctl: %v\n", err)
		os.Exit(1)
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)

	rw := struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}

	t := term.NewTerminal(rw, "bgprouterctl> ")

	for {
		line, err := t.ReadLine()
		if err == io.EOF {
			fmt.Fprintln(t)
			return
		}
		if err != nil {
			fmt.Fprintf(t, "%% error reading line: %v\n", err)
			return
		}

		switch line {
		case "":
			continue
		case "exit", "quit":
			return
		}

		if err := conn.WriteMessage([]byte(line)); err != nil {
			fmt.Fprintf(t, "%% write error: %v\n", err)
			return
		}

		reply, err := conn.ReadMessage()
		if err != nil {
			fmt.Fprintf(t, "%% read error: %v\n", err)
			return
		}

		t.Write(reply)
	}
}
