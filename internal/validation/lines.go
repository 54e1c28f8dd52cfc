package validation

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// maxLineSize bounds a single markdown line; tables with long notes columns
// exceed bufio's 64KB default.
const maxLineSize = 1024 * 1024

// ScanLines calls fn for every line of the file with its 1-based number.
// A missing file is returned as an error satisfying errors.Is(err, fs.ErrNotExist).
func ScanLines(path string, fn func(lineNum int, line string)) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fn(lineNum, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// isNotExist reports whether err means the artifact is absent.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// exists reports whether path exists. Errors other than absence are returned.
func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if isNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("checking %s: %w", path, err)
}
