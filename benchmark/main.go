// Package main provides a performance benchmarking tool for the Clearance CLI.
// It generates synthetic uploads of increasing size, imports them into a throwaway
// SQLite store and times the decision commands, running each command multiple times,
// treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - clearance binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated uploads and the SQLite store
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/huangsam/clearance/schema"
	"gopkg.in/yaml.v3"
)

// BenchmarkResult holds the result of a benchmark run (import time, cold run and average of warm runs).
type BenchmarkResult struct {
	Upload     string
	Command    string
	ImportTime string
	ColdTime   string
	WarmTime   string
}

// UploadShape describes a synthetic upload tree.
type UploadShape struct {
	Name    string
	Dirs    int // directories below the root
	Files   int // files per directory
	Agents  int // scanner runs over the upload
	Events  int // human events on the root item
	License int // distinct licenses to spread over the files
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir string
	Timeout time.Duration
	Runs    int
	Shapes  []UploadShape
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir: os.Args[1],
		Timeout: 5 * time.Minute,
		Runs:    4,
		Shapes: []UploadShape{
			{Name: "small", Dirs: 5, Files: 20, Agents: 2, Events: 5, License: 10},
			{Name: "medium", Dirs: 50, Files: 100, Agents: 3, Events: 50, License: 50},
			{Name: "large", Dirs: 200, Files: 250, Agents: 4, Events: 200, License: 200},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the clearance binary and the work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("clearance"); err != nil {
		return fmt.Errorf("clearance binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work dir %s: %w", config.WorkDir, err)
	}
	return nil
}

// buildUpload generates an import document with the given shape.
func buildUpload(shape UploadShape) schema.ImportDocument {
	licenses := make([]schema.LicenseRef, shape.License)
	for i := range licenses {
		licenses[i] = schema.LicenseRef{ID: int64(i + 1), ShortName: "LIC-" + strconv.Itoa(i+1)}
	}

	root := schema.ImportItem{ID: 1, Name: shape.Name}
	nextID := int64(2)
	var fileIDs []int64
	for d := range shape.Dirs {
		dir := schema.ImportItem{ID: nextID, Name: fmt.Sprintf("dir%03d", d)}
		nextID++
		for f := range shape.Files {
			dir.Children = append(dir.Children, schema.ImportItem{ID: nextID, Name: fmt.Sprintf("file%04d.c", f)})
			fileIDs = append(fileIDs, nextID)
			nextID++
		}
		root.Children = append(root.Children, dir)
	}

	runs := make([]schema.ImportRun, shape.Agents)
	for a := range runs {
		run := schema.ImportRun{AgentID: int64(a + 1), Agent: fmt.Sprintf("agent%d", a), Revision: "1.0"}
		for i, item := range fileIDs {
			if (i+a)%3 != 0 {
				continue
			}
			run.Matches = append(run.Matches, schema.ImportMatch{Item: item, License: licenses[(i+a)%len(licenses)].ShortName})
		}
		runs[a] = run
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	events := make([]schema.ImportEvent, shape.Events)
	for e := range events {
		events[e] = schema.ImportEvent{
			Item:     1,
			User:     1,
			License:  licenses[e%len(licenses)].ShortName,
			Removed:  e%4 == 3,
			DateTime: start.Add(time.Duration(e) * time.Minute),
		}
	}

	return schema.ImportDocument{
		Upload:   schema.ImportUpload{ID: 1, Name: shape.Name + ".tar.gz", Root: root},
		Licenses: licenses,
		Runs:     runs,
		Events:   events,
	}
}

// writeUpload stores the generated document as YAML and returns its path.
func writeUpload(dir string, shape UploadShape) (string, error) {
	path := filepath.Join(dir, shape.Name+".yaml")
	data, err := yaml.Marshal(buildUpload(shape))
	if err != nil {
		return "", fmt.Errorf("failed to encode upload %s: %w", shape.Name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// runBenchmarks executes all benchmark tests across configured upload shapes
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d uploads, %v timeout, %d runs per command\n",
		len(config.Shapes), config.Timeout, config.Runs)

	for _, shape := range config.Shapes {
		fmt.Printf("Benchmarking %s upload\n", shape.Name)

		home := filepath.Join(config.WorkDir, shape.Name)
		if err := os.MkdirAll(home, 0o755); err != nil {
			fmt.Printf("  Skipping %s: %v\n", shape.Name, err)
			continue
		}
		uploadPath, err := writeUpload(home, shape)
		if err != nil {
			fmt.Printf("  Skipping %s: %v\n", shape.Name, err)
			continue
		}

		_, _ = timeCommand(config, home, "db", "clear")
		importTime := "FAILED"
		if elapsed, ok := timeCommand(config, home, "import", uploadPath); ok {
			importTime = fmt.Sprintf("%.3fs", elapsed)
		}

		for _, command := range []string{"decisions", "decide", "history"} {
			result := runBenchmarkSuite(config, home, shape.Name, command)
			result.ImportTime = importTime
			results = append(results, result)
		}
	}

	return results
}

// runBenchmarkSuite runs a command on the root item several times
func runBenchmarkSuite(config BenchmarkConfig, home, upload, command string) BenchmarkResult {
	fmt.Printf("  %s (%d runs)\n", command, config.Runs)

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		if elapsed, ok := timeCommand(config, home, command, "1"); ok {
			times = append(times, elapsed)
		}
	}

	coldTime, warmTime := "TIMEOUT", "TIMEOUT"
	if len(times) > 0 {
		coldTime = fmt.Sprintf("%.3fs", times[0])
	}
	if len(times) > 1 {
		var sum float64
		for _, t := range times[1:] {
			sum += t
		}
		warmTime = fmt.Sprintf("%.3fs", sum/float64(len(times)-1))
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", coldTime, warmTime)

	return BenchmarkResult{
		Upload:   upload,
		Command:  command,
		ColdTime: coldTime,
		WarmTime: warmTime,
	}
}

// timeCommand runs clearance with HOME pointed at the work dir and returns the elapsed seconds
func timeCommand(config BenchmarkConfig, home string, args ...string) (float64, bool) {
	start := time.Now()

	cmd := exec.Command("clearance", args...)
	cmd.Env = append(os.Environ(), "HOME="+home, "CLEARANCE_DB_BACKEND=sqlite")

	done := make(chan error, 1)
	go func() {
		_, err := cmd.CombinedOutput()
		done <- err
	}()

	select {
	case err := <-done:
		return time.Since(start).Seconds(), err == nil
	case <-time.After(config.Timeout):
		_ = cmd.Process.Kill()
		return 0, false
	}
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/clearance_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"upload", "cmd", "import_time", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Upload, result.Command, result.ImportTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range []string{"decisions", "decide", "history"} {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-8s: Import: %s, Cold: %s, Warm: %s\n", result.Upload, result.ImportTime, result.ColdTime, result.WarmTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
