// Package keywords loads the ordered search-term list
package keywords

import (
	"bufio"
	"os"
	"strings"

	perr "claimscout/internal/platform/errors"
)

// Load reads a keyword file: one term per line, UTF-8, blank and
// whitespace-only lines ignored, file order preserved.
// A missing or unreadable file is a configuration error
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeValidation, "keyword file %s not readable", path)
	}
	defer func() { _ = f.Close() }()

	var out []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeValidation, "keyword file %s read failed", path)
	}
	return out, nil
}
