package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// promptString writes label to w and reads one line from r.
func promptString(r *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprint(w, label)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", eris.Wrap(err, "read input")
	}
	return strings.TrimSpace(line), nil
}

// promptInt writes label to w and reads one integer line from r.
func promptInt(r *bufio.Reader, w io.Writer, label string) (int, error) {
	s, err := promptString(r, w, label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, eris.Errorf("expected an integer, got %q", s)
	}
	return n, nil
}
