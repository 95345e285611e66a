// Package main provides a performance benchmarking tool for the QualityScore CLI.
// It measures end-to-end analyze and score times across project directories,
// running each test multiple times, treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - qualityscore binary installed and available in PATH
// - eslint, cloc, jscpd (and ruff, radon for Python trees) available in PATH
// - Test projects checked out under the specified base directory
//
// Usage: go run benchmark/main.go [project-base-dir] [project...]
//
//	project-base-dir: Directory containing test projects
//	project:          Optional subset of project directory names
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-store average, cold run and average of warm runs).
type BenchmarkResult struct {
	Project     string
	Command     string
	NoStoreTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	ProjectBase string
	Timeout     time.Duration
	Workers     int
	NoStoreRuns int
	StoreRuns   int
	Projects    []string
	DBFile      string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("Usage: %s [project-base-dir] [project...]\n", os.Args[0])
		os.Exit(1)
	}
	base := os.Args[1]

	config := BenchmarkConfig{
		ProjectBase: base,
		Timeout:     5 * time.Minute,
		Workers:     4,
		NoStoreRuns: 3,
		StoreRuns:   4,
		Projects:    os.Args[2:],
		DBFile:      filepath.Join(os.TempDir(), fmt.Sprintf("qualityscore_bench_%d.db", time.Now().UnixNano())),
	}
	if len(config.Projects) == 0 {
		config.Projects = discoverProjects(base)
	}
	defer func() { _ = os.Remove(config.DBFile) }()

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

// discoverProjects lists the immediate subdirectories of base
func discoverProjects(base string) []string {
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil
	}
	var projects []string
	for _, e := range entries {
		if e.IsDir() && e.Name()[0] != '.' {
			projects = append(projects, e.Name())
		}
	}
	return projects
}

// checkPrerequisites verifies that the qualityscore binary and test projects exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("qualityscore"); err != nil {
		return fmt.Errorf("qualityscore binary not found in PATH")
	}
	if len(config.Projects) == 0 {
		return fmt.Errorf("no projects found under %s", config.ProjectBase)
	}
	for _, project := range config.Projects {
		projectPath := filepath.Join(config.ProjectBase, project)
		if _, err := os.Stat(projectPath); os.IsNotExist(err) {
			return fmt.Errorf("project %s not found at %s", project, projectPath)
		}
	}
	return nil
}

// runBenchmarks executes all benchmark tests across configured projects
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d projects, %v timeout, %d workers, no-store: %d runs, store: %d runs\n",
		len(config.Projects), config.Timeout, config.Workers, config.NoStoreRuns, config.StoreRuns)

	for _, project := range config.Projects {
		fmt.Printf("Benchmarking %s\n", project)
		projectPath := filepath.Join(config.ProjectBase, project)
		results = append(results, runBenchmarkSuite(config, project, projectPath, "analyze"))
	}

	return results
}

// runBenchmarkSuite runs both no-store and store benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, project, projectPath, command string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, project)

	runPhase := func(backend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, projectPath, command, backend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: nothing is persisted, every run scores from scratch
	_, noStoreAvg := runPhase("none", config.NoStoreRuns, "No-store")

	// Phase 2: the first run is persisted, later runs stop at the duplicate check
	coldTime, warmAvg := runPhase("sqlite", config.StoreRuns, "Store")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-store average: %s, Cold time: %s, Warm average: %s\n", noStoreAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Project:     project,
		Command:     command,
		NoStoreTime: noStoreAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a qualityscore command multiple times with the given backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, projectPath, command, backend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{
		command, projectPath,
		"--backend", backend,
		"--workers", fmt.Sprint(config.Workers),
		"--output", "json",
		"--color", "no",
	}
	if backend == "sqlite" {
		args = append(args, "--db-connect", config.DBFile)
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("qualityscore", args...)

		done := make(chan error, 1)
		go func() {
			_, err := cmd.Output()
			done <- err
		}()

		select {
		case err := <-done:
			if err == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("qualityscore_benchmark_%s.csv", timestamp))

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

	if err := writer.Write([]string{"project", "cmd", "no_store_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Project, result.Command, result.NoStoreTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	fmt.Printf("Analyze:\n")
	for _, result := range results {
		fmt.Printf("  %-16s: No-store: %s, Cold: %s, Warm: %s\n", result.Project, result.NoStoreTime, result.ColdTime, result.WarmTime)
	}
}
