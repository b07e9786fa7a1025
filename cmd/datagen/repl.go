package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/petasbytes/datagen-agent/internal/persona"
	"github.com/petasbytes/datagen-agent/memory"
)

const clearCommand = "/clear"

type submitter interface {
	Submit(ctx context.Context, message string, history []memory.Turn) []memory.Turn
}

// repl reads one message per line until EOF or ctx is cancelled. History lives
// in this function only and is lost on exit.
func repl(ctx context.Context, s submitter, p persona.Persona, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "%s: %s\n", p.Title, p.Tagline)
	fmt.Fprintln(out, "Try:")
	for _, ex := range p.Examples {
		fmt.Fprintf(out, "  - %s\n", ex)
	}
	fmt.Fprintf(out, "Type %s to start over, Ctrl-C to quit.\n", clearCommand)

	scanner := bufio.NewScanner(in)
	// stdin reader goroutine -> lines into channel
	inputCh := make(chan string)
	go func() {
		defer close(inputCh)
		for scanner.Scan() {
			select {
			case inputCh <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	var history []memory.Turn
	for {
		fmt.Fprint(out, "\u001b[94mYou\u001b[0m: ")
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nExiting...")
			return nil
		case line, ok = <-inputCh:
			if !ok {
				fmt.Fprintln(out)
				return scanner.Err()
			}
		}

		switch strings.TrimSpace(line) {
		case "":
			continue
		case clearCommand:
			history = nil
			fmt.Fprintln(out, "History cleared.")
			continue
		}

		history = s.Submit(ctx, line, history)
		fmt.Fprintf(out, "\u001b[93m%s\u001b[0m: %s\n", p.Name, history[len(history)-1].Assistant)
	}
}
