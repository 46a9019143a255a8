package mapbox

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrEmptyToken is returned when the token file's first line is blank.
var ErrEmptyToken = errors.New("mapbox token is empty")

// ReadToken returns the first line of the token file with trailing
// whitespace removed.
func ReadToken(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open mapbox token: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	var line string
	if sc.Scan() {
		line = sc.Text()
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("read mapbox token: %w", err)
	}

	token := strings.TrimRight(line, " \t\r\n")
	if token == "" {
		return "", fmt.Errorf("%s: %w", path, ErrEmptyToken)
	}
	return token, nil
}
