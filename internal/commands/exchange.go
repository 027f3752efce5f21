package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/hyizhou/ask/internal/chat"
	"github.com/hyizhou/ask/internal/config"
	"github.com/hyizhou/ask/internal/i18n"
	"github.com/hyizhou/ask/internal/render"
)

// runner ties a session to the terminal: it runs single exchanges,
// handles the waiting spinner, renders replies and drives the
// interactive loop.
type runner struct {
	session *chat.Session
	cfg     *config.Config
	stream  bool
	out     io.Writer
	errOut  io.Writer

	// exchange runs one question/answer round. Tests substitute it.
	exchange func(ctx context.Context, text string) error
}

func newRunner(session *chat.Session, cfg *config.Config, stream bool) *runner {
	r := &runner{
		session: session,
		cfg:     cfg,
		stream:  stream,
		out:     os.Stdout,
		errOut:  os.Stderr,
	}
	r.exchange = r.ask
	return r
}

// ask runs one exchange. In streaming mode the session writes chunks to
// stdout as they arrive; otherwise a spinner runs until the full reply
// is in, which is then rendered as markdown on a terminal.
func (r *runner) ask(ctx context.Context, text string) error {
	var spin *spinner
	if !r.stream && term.IsTerminal(int(os.Stderr.Fd())) {
		spin = newSpinner(i18n.T("thinking"))
		spin.start()
	}

	reply, err := r.session.Ask(ctx, text)
	if spin != nil {
		spin.halt()
	}
	if err != nil {
		if r.stream {
			fmt.Fprintln(r.out)
		}
		return err
	}

	if r.stream {
		fmt.Fprint(r.out, "\n\n")
	} else {
		r.printReply(reply)
	}
	r.copyReply(reply)
	return nil
}

func (r *runner) printReply(reply string) {
	if f, ok := r.out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		width := 100
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 && w < width {
			width = w
		}
		if rendered, err := render.MarkdownWithWidth(reply, width); err == nil {
			fmt.Fprintln(r.out, rendered)
			return
		}
	}
	fmt.Fprintln(r.out, reply)
}

func (r *runner) copyReply(reply string) {
	if !r.cfg.CopyToClipboard || reply == "" {
		return
	}
	if err := clipboard.WriteAll(reply); err != nil {
		fmt.Fprintln(r.errOut, i18n.T("warn_clipboard", err))
		return
	}
	fmt.Fprintln(r.errOut, dimStyle.Render(i18n.T("copied_to_clipboard")))
}
