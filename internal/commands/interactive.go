package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hyizhou/ask/internal/i18n"
)

// interactiveLoop reads questions line by line until EOF, an exit
// command or an interrupt. Per-exchange errors are printed and the loop
// keeps going.
func (r *runner) interactiveLoop(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(r.out, i18n.T("interactive_notice"))

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		fmt.Fprint(r.out, i18n.T("prompt"))

		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out)
			fmt.Fprintln(r.out, i18n.T("goodbye"))
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(r.out)
				fmt.Fprintln(r.out, i18n.T("goodbye"))
				return nil
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if isExitCommand(line) {
				fmt.Fprintln(r.out, i18n.T("goodbye"))
				return nil
			}
			if err := r.exchange(ctx, line); err != nil {
				if ctx.Err() != nil {
					fmt.Fprintln(r.out)
					fmt.Fprintln(r.out, i18n.T("goodbye"))
					return nil
				}
				fmt.Fprintln(r.errOut, formatErrorMessage(err, activeEnvKey))
			}
		}
	}
}

func isExitCommand(line string) bool {
	switch strings.ToLower(line) {
	case "exit", "quit":
		return true
	}
	return false
}
