package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// PasteEntry is one recorded clipboard paste from paste.log
type PasteEntry struct {
	Kind string // "transactions", "inventory" or "fitting"
	Data string // decoded paste text
	Line int    // line number in paste.log
}

// This utility converts entries from paste.log (written by log.LogPaste)
// into plain-text fixture files for the parser tests. Useful when a user
// reports a paste that parses wrong: grab the entry, commit the fixture.
func main() {
	var (
		logFile   = flag.String("log", "paste.log", "Path to paste.log file")
		startLine = flag.Int("start-line", 1, "Starting line number (1-based)")
		endLine   = flag.Int("end-line", -1, "Ending line number (1-based, -1 for end of file)")
		outDir    = flag.String("out", "testdata", "Directory to write fixture files into")
		kindOnly  = flag.String("kind", "", "Only extract entries of this kind")
	)
	flag.Parse()

	entries, err := parsePasteLog(*logFile, *startLine, *endLine)
	if err != nil {
		fmt.Printf("Error parsing paste.log: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Printf("Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	written := 0
	for _, entry := range entries {
		if *kindOnly != "" && entry.Kind != *kindOnly {
			continue
		}
		name := fmt.Sprintf("%s_line%d.txt", entry.Kind, entry.Line)
		path := filepath.Join(*outDir, name)
		if err := os.WriteFile(path, []byte(entry.Data), 0644); err != nil {
			fmt.Printf("Error writing %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s (%d bytes)\n", path, len(entry.Data))
		written++
	}

	if written == 0 {
		fmt.Println("No matching paste entries found.")
	}
}

// parsePasteLog reads paste.log lines of the form "<kind> <escaped-data>"
func parsePasteLog(filename string, startLine, endLine int) ([]PasteEntry, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []PasteEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum < startLine {
			continue
		}
		if endLine > 0 && lineNum > endLine {
			break
		}

		line := scanner.Text()
		kind, escaped, ok := strings.Cut(line, " ")
		if !ok || kind == "" {
			continue
		}

		// LogPaste strips the surrounding quotes of the %q encoding; put
		// them back so strconv can decode the escapes.
		data, err := strconv.Unquote(`"` + escaped + `"`)
		if err != nil {
			fmt.Printf("Skipping undecodable entry at line %d: %v\n", lineNum, err)
			continue
		}

		entries = append(entries, PasteEntry{Kind: kind, Data: data, Line: lineNum})
	}
	return entries, scanner.Err()
}
