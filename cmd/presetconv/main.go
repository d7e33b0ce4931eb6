// presetconv converts plain-text rosters into the preset YAML read by the randomizer.
//
// Input is either a directory of .txt files (one preset per file, label = file
// name, one entrant per line) or a single text file split into sections:
//
//	[Platform Team]
//	Jane Doe
//	Ravi Patel
//
//	[Leads]
//	Morgan Lee
//
// Usage:
//
//	go run ./cmd/presetconv [input] [output]
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aorandomizer/randomizer/internal/data"
	"github.com/aorandomizer/randomizer/internal/race"
)

func main() {
	inputPath := filepath.Join("data", "rosters")
	outputPath := filepath.Join("data", "presets.yaml")

	if len(os.Args) >= 2 {
		inputPath = os.Args[1]
	}
	if len(os.Args) >= 3 {
		outputPath = os.Args[2]
	}

	presets, err := readPresets(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", inputPath, err)
		os.Exit(1)
	}

	yamlData, err := data.EncodePresets(presets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error marshalling YAML: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output directory: %v\n", err)
		os.Exit(1)
	}
	header := "# Preset rosters - converted by presetconv\n\n"
	if err := os.WriteFile(outputPath, append([]byte(header), yamlData...), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outputPath, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d presets to %s\n", len(presets), outputPath)
}

func readPresets(path string) ([]race.Preset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return parseSections(f)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var presets []race.Preset
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".txt" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(path, entry.Name()))
		if err != nil {
			return nil, err
		}
		presets = append(presets, race.Preset{
			Label: strings.TrimSuffix(entry.Name(), ".txt"),
			Names: race.FilterNames(race.SplitLines(string(raw))),
		})
	}
	sort.Slice(presets, func(i, j int) bool {
		return presets[i].Label < presets[j].Label
	})
	return presets, nil
}

// parseSections reads "[Label]" headed sections. Names before the first
// header are an error; blank lines and '#' comments are skipped.
func parseSections(r io.Reader) ([]race.Preset, error) {
	var presets []race.Preset
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "", strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
			label := strings.TrimSpace(line[1 : len(line)-1])
			if label == "" {
				return nil, fmt.Errorf("line %d: empty preset label", lineNo)
			}
			presets = append(presets, race.Preset{Label: label})
		default:
			if len(presets) == 0 {
				return nil, fmt.Errorf("line %d: name %q before any [label]", lineNo, line)
			}
			last := &presets[len(presets)-1]
			last.Names = append(last.Names, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	for i := range presets {
		presets[i].Names = race.FilterNames(presets[i].Names)
	}
	return presets, nil
}
