// Package protocol implements the line-oriented wire format shared by the
// judge and the contestant: whitespace-separated integer tokens, one line per
// turn in each direction.
package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// TruncateLimit is the maximum number of bytes of contestant-controlled text
// echoed back inside an error message.
const TruncateLimit = 100

// Truncate clips s to at most TruncateLimit bytes.
func Truncate(s string) string {
	if len(s) <= TruncateLimit {
		return s
	}
	return s[:TruncateLimit]
}

// TokenCountError reports a line with the wrong number of tokens.
type TokenCountError struct {
	Expected int
	Found    int
}

func (e *TokenCountError) Error() string {
	return fmt.Sprintf("Wrong number of tokens: expected %d, found %d.", e.Expected, e.Found)
}

// NotIntegerError reports a token that failed integer parsing. Token is
// already truncated to TruncateLimit bytes.
type NotIntegerError struct {
	Token string
}

func (e *NotIntegerError) Error() string {
	return fmt.Sprintf("Not an integer: %s.", e.Token)
}

// ErrEndOfInput is returned by Reader.ReadLine once the input is exhausted.
// Callers decide whether that is a protocol violation or the expected end of
// the conversation.
var ErrEndOfInput = errors.New("Couldn't read a valid line.")

// ReadValues tokenizes line on whitespace and parses exactly numTokens
// integers.
//
// Postcondition: on success the returned slice has length numTokens and
// preserves token order.
func ReadValues(line string, numTokens int) ([]int, error) {
	tokens := strings.Fields(line)
	if len(tokens) != numTokens {
		return nil, &TokenCountError{Expected: numTokens, Found: len(tokens)}
	}
	values := make([]int, 0, numTokens)
	for _, tok := range tokens {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, &NotIntegerError{Token: Truncate(tok)}
		}
		values = append(values, v)
	}
	return values, nil
}

// Reader reads protocol lines and distinguishes end of input from a readable
// line, which the engine treats as different conditions.
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps r for line-based reading.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadLine returns the next line without its trailing newline. A final
// unterminated line is returned as a normal line; once the input is drained,
// ReadLine returns ErrEndOfInput.
func (r *Reader) ReadLine() (string, error) {
	line, err := r.r.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			if line == "" {
				return "", ErrEndOfInput
			}
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", fmt.Errorf("reading line: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Writer emits response lines unbuffered, so each line reaches the contestant
// as soon as it is written. Writes are best-effort: the contestant may
// legitimately exit after sending all of its output without draining ours, so
// a failed write is logged at debug level and never escalated.
type Writer struct {
	w      io.Writer
	logger *zap.Logger
}

// NewWriter creates a Writer that logs failed writes to logger.
//
// Precondition: logger must be non-nil (use zap.NewNop() to discard).
func NewWriter(w io.Writer, logger *zap.Logger) *Writer {
	return &Writer{w: w, logger: logger}
}

// WriteInts writes vals as one space-joined line.
func (w *Writer) WriteInts(vals []int) {
	var b strings.Builder
	for i, v := range vals {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(v))
	}
	b.WriteByte('\n')
	w.emit(b.String())
}

// WriteInt writes a single integer line.
func (w *Writer) WriteInt(v int) {
	w.emit(strconv.Itoa(v) + "\n")
}

func (w *Writer) emit(line string) {
	if _, err := io.WriteString(w.w, line); err != nil {
		w.logger.Debug("dropping response line, peer stopped reading",
			zap.Error(err),
		)
	}
}
