package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// test seams for the terminal
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// readLine prints prompt to w and reads one trimmed line.
// A final line without a newline is accepted.
func readLine(r *bufio.Reader, w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return "", err
	}
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readSecret reads a password without echo when in is a terminal and
// falls back to a plain line otherwise, e.g. when input is piped.
func readSecret(in io.Reader, r *bufio.Reader, w io.Writer, prompt string) (string, error) {
	if f, ok := in.(*os.File); ok && isTerminal(int(f.Fd())) {
		if _, err := fmt.Fprint(w, prompt); err != nil {
			return "", err
		}
		pw, err := readPassword(int(f.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	return readLine(r, w, prompt)
}

// readOptionalFloat prompts until the answer is blank or a number.
// Blank yields nil.
func readOptionalFloat(r *bufio.Reader, w io.Writer, prompt string) (*float64, error) {
	for {
		line, err := readLine(r, w, prompt)
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if line == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(line, 64)
		if err == nil {
			return &v, nil
		}
		fmt.Fprintf(w, "%q is not a number, leave blank to skip\n", line)
	}
}
