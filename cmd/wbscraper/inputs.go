package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"wbscraper/pkg/weibo"
)

// collectUserIDs gathers user ids from the argument list and the
// optional CSV and text files, validates them, and drops duplicates
// while keeping first-seen order.
func collectUserIDs(args []string, csvPath, txtPath string) ([]string, error) {
	ids := make([]string, 0, len(args))
	ids = append(ids, args...)

	if csvPath != "" {
		fromCSV, err := readCSVIDs(csvPath)
		if err != nil {
			return nil, err
		}
		ids = append(ids, fromCSV...)
	}
	if txtPath != "" {
		fromTxt, err := readTxtIDs(txtPath)
		if err != nil {
			return nil, err
		}
		ids = append(ids, fromTxt...)
	}

	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		if !weibo.IsValidUID(id) {
			return nil, fmt.Errorf("invalid user id %q: ids are numeric", id)
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}

// readCSVIDs reads user ids from the "id" column of a CSV file. Without
// a header row matching "id" the first column is used.
func readCSVIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := 0
	start := 0
	for i, name := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(name), "id") {
			col = i
			start = 1
			break
		}
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows[start:] {
		if col >= len(row) {
			continue
		}
		ids = append(ids, row[col])
	}
	return ids, nil
}

// readTxtIDs reads user ids from a text file, one per line. Blank lines
// and lines starting with # are skipped.
func readTxtIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open id file: %w", err)
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read id file %s: %w", path, err)
	}
	return ids, nil
}
