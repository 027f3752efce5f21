package api

import (
	"bufio"
	"io"
	"strings"

	"github.com/tidwall/gjson"

	apierrors "github.com/hyizhou/ask/internal/errors"
	"github.com/hyizhou/ask/internal/models"
)

// Stream is a finite, non-restartable sequence of reply chunks.
// Concatenating every chunk reconstructs the assistant's full reply,
// whether the exchange was streamed or not.
type Stream struct {
	body      io.ReadCloser
	reader    *bufio.Reader
	kind      models.Kind
	streaming bool
	endpoint  string
	done      bool

	// qwenSeen holds the cumulative text already yielded; the DashScope
	// API repeats the full text so far in every event.
	qwenSeen string

	// Warn receives malformed-event errors; the stream skips the event
	// and keeps reading. Nil means silently skip.
	Warn func(error)
}

// malformedEventError is reported to Warn for undecodable events
type malformedEventError struct {
	line string
}

func (e *malformedEventError) Error() string {
	return "malformed stream event: " + e.line
}

func newStream(body io.ReadCloser, kind models.Kind, streaming bool, endpoint string) *Stream {
	return &Stream{
		body:      body,
		reader:    bufio.NewReader(body),
		kind:      kind,
		streaming: streaming,
		endpoint:  endpoint,
	}
}

// Recv returns the next text chunk. io.EOF signals normal end of
// stream; any other error is a NetworkError for a broken connection.
// The body is closed once the stream ends either way.
func (s *Stream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}

	if !s.streaming {
		return s.recvFull()
	}

	for {
		line, err := s.reader.ReadString('\n')
		line = strings.TrimSpace(line)

		if line != "" {
			if chunk, ok := s.decodeEvent(line); ok {
				if chunk == "" {
					// Role announcements, keep-alives, finish events
					if err != nil {
						return "", s.finish(err)
					}
					continue
				}
				return chunk, nil
			}
			return "", s.finish(io.EOF)
		}

		if err != nil {
			return "", s.finish(err)
		}
	}
}

// decodeEvent decodes one event line into a text delta. The second
// return value is false when the stream terminated ([DONE]).
func (s *Stream) decodeEvent(line string) (string, bool) {
	if data, found := strings.CutPrefix(line, "data:"); found {
		line = strings.TrimSpace(data)
	}
	if line == "[DONE]" {
		return "", false
	}

	if !gjson.Valid(line) {
		s.warn(&malformedEventError{line: line})
		return "", true
	}

	parsed := gjson.Parse(line)
	switch s.kind {
	case models.KindQwen:
		text := parsed.Get("output.text").String()
		// Each event carries the cumulative reply; yield only the tail.
		if strings.HasPrefix(text, s.qwenSeen) {
			delta := text[len(s.qwenSeen):]
			s.qwenSeen = text
			return delta, true
		}
		s.qwenSeen = text
		return text, true
	default:
		return parsed.Get("choices.0.delta.content").String(), true
	}
}

// recvFull reads the whole body and yields it as a single chunk
func (s *Stream) recvFull() (string, error) {
	raw, err := io.ReadAll(s.reader)
	if err != nil {
		return "", s.finish(err)
	}
	defer func() { _ = s.finish(io.EOF) }()

	parsed := gjson.ParseBytes(raw)
	switch s.kind {
	case models.KindQwen:
		return parsed.Get("output.text").String(), nil
	default:
		return parsed.Get("choices.0.message.content").String(), nil
	}
}

// finish closes the body and maps the terminating error
func (s *Stream) finish(err error) error {
	s.done = true
	_ = s.body.Close()

	if err == nil || err == io.EOF {
		return io.EOF
	}
	return apierrors.NewNetworkError(s.endpoint, err)
}

// Close releases the underlying connection early
func (s *Stream) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	return s.body.Close()
}

// Text drains the stream and returns the concatenated reply
func (s *Stream) Text() (string, error) {
	var sb strings.Builder
	for {
		chunk, err := s.Recv()
		if err == io.EOF {
			return sb.String(), nil
		}
		if err != nil {
			return sb.String(), err
		}
		sb.WriteString(chunk)
	}
}

func (s *Stream) warn(err error) {
	if s.Warn != nil {
		s.Warn(err)
	}
}
