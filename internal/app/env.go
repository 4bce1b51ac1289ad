package app

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// LoadEnvFiles fills the process environment from dotenv files. A variable
// that was already exported before the call is never replaced, so the real
// environment beats every file; among the files, later ones win. Missing
// files and blank paths are skipped.
func LoadEnvFiles(paths ...string) error {
	fromFiles := make(map[string]bool)
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		pairs, err := readEnvFile(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		for _, kv := range pairs {
			if _, exported := os.LookupEnv(kv[0]); exported && !fromFiles[kv[0]] {
				continue
			}
			if err := os.Setenv(kv[0], kv[1]); err != nil {
				return fmt.Errorf("%s: set %s: %w", p, kv[0], err)
			}
			fromFiles[kv[0]] = true
		}
	}
	return nil
}

// readEnvFile returns the file's assignments in order.
func readEnvFile(path string) ([][2]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pairs [][2]string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if key, val, ok := parseEnvLine(sc.Text()); ok {
			pairs = append(pairs, [2]string{key, val})
		}
	}
	return pairs, sc.Err()
}

// parseEnvLine splits "[export ]KEY=VALUE". Comments, blank lines and lines
// without a key report ok=false. One level of matching quotes is removed
// from the value; nothing is expanded.
func parseEnvLine(line string) (key, val string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' {
		return "", "", false
	}
	line = strings.TrimPrefix(line, "export ")
	key, val, found := strings.Cut(line, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", false
	}
	val = strings.TrimSpace(val)
	if n := len(val); n >= 2 && (val[0] == '"' || val[0] == '\'') && val[n-1] == val[0] {
		val = val[1 : n-1]
	}
	return key, val, true
}
