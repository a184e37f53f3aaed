// Command merge-coverage combines Go coverage profiles, typically the unit run
// and the integration-tagged run, into a single profile on stdout.
//
// Blocks reported by several profiles are merged: counts are summed in count
// and atomic mode, and OR-ed in set mode.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s file1.out file2.out [...]\n", os.Args[0])
		os.Exit(1)
	}

	p := newProfile()
	for _, filename := range os.Args[1:] {
		if err := p.addFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", filename, err)
			os.Exit(1)
		}
	}

	if err := p.write(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing profile: %v\n", err)
		os.Exit(1)
	}
}

// profile accumulates blocks keyed by "file:start,end numStmts".
type profile struct {
	mode   string
	counts map[string]int64
}

func newProfile() *profile {
	return &profile{counts: make(map[string]int64)}
}

func (p *profile) addFile(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return p.add(f)
}

func (p *profile) add(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if mode, ok := strings.CutPrefix(line, "mode: "); ok {
			if p.mode != "" && p.mode != mode {
				return fmt.Errorf("mode %q does not match %q", mode, p.mode)
			}
			p.mode = mode
			continue
		}

		sep := strings.LastIndexByte(line, ' ')
		if sep < 0 {
			return fmt.Errorf("malformed line %q", line)
		}
		count, err := strconv.ParseInt(line[sep+1:], 10, 64)
		if err != nil {
			return fmt.Errorf("malformed count in %q: %w", line, err)
		}

		key := line[:sep]
		if p.mode == "set" {
			if count > 0 {
				p.counts[key] = 1
			} else if _, seen := p.counts[key]; !seen {
				p.counts[key] = 0
			}
			continue
		}
		p.counts[key] += count
	}
	return scanner.Err()
}

func (p *profile) write(w io.Writer) error {
	if p.mode == "" {
		return fmt.Errorf("no mode line found")
	}

	keys := make([]string, 0, len(p.counts))
	for k := range p.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "mode: %s\n", p.mode)
	for _, k := range keys {
		fmt.Fprintf(bw, "%s %d\n", k, p.counts[k])
	}
	return bw.Flush()
}
