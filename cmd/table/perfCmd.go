package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/rhmap/cmd/util"
	vmetrics "github.com/VictoriaMetrics/metrics"
	"github.com/natefinch/atomic"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sugawarayuuta/sonnet"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for rhmap tables",
		Long:    "",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix        = "__perf"
	perfLargeValueSizeKB = 1000
	perfKeySpread        = 100
	perfSkip             = make([]string, 0)

	// one latency histogram per test, filled while the benchmarks run
	perfHists = make(map[string]gometrics.Histogram)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. put,get)"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "large-value-size"
	perfTestCmd.Flags().Int(key, 1000, util.WrapString("How large the value for the put-large test should be (in KB)"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
	key = "json"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as JSON"))
	key = "metrics-out"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to dump the collected metrics in Prometheus text format"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfKeySpread = viper.GetInt("keys")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for rhmap tables")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Printf("Hash: %s\n", viper.GetString("hash"))
	fmt.Printf("Size: %d\n", viper.GetInt("size"))
	fmt.Printf("Borrow keys: %v\n", viper.GetBool("borrow-keys"))
	fmt.Printf("Keys: %d\n", perfKeySpread)
	fmt.Println()

	fmt.Println("starting tests...")

	// Create results map
	results := make(map[string]testing.BenchmarkResult)

	putResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("put") {
			return
		}

		h := newPerfHistogram("put")

		// prepare keys
		getKey, iter := getKeys("put")

		// cleanup
		b.Cleanup(func() {
			iter(func(k []byte) {
				_, _ = tbl.Delete(k)
			})
		})

		b.ResetTimer()

		counter := 0
		for i := 0; i < b.N; i++ {
			key := getKey(counter)
			start := time.Now()
			if _, err := tbl.Put(key, []byte("test")); err != nil {
				log.Error().Msgf("(put) - error putting key: %v", err)
			}
			h.Update(time.Since(start).Nanoseconds())
			counter++
		}
	})

	results["put"] = putResult
	printResult("put", putResult)

	putLargeResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("put-large") {
			return
		}

		h := newPerfHistogram("put-large")

		// prepare large value
		largeValue := make([]byte, perfLargeValueSizeKB*1024)

		// prepare keys
		getKey, iter := getKeys("put-large")

		// cleanup
		b.Cleanup(func() {
			iter(func(k []byte) {
				_, _ = tbl.Delete(k)
			})
		})

		b.ResetTimer()

		counter := 0
		for i := 0; i < b.N; i++ {
			key := getKey(counter)
			start := time.Now()
			if _, err := tbl.Put(key, largeValue); err != nil {
				log.Error().Msgf("(put-large) - error putting key: %v", err)
			}
			h.Update(time.Since(start).Nanoseconds())
			counter++
		}
	})

	results["put-large"] = putLargeResult
	printResult("put-large", putLargeResult)

	getResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("get") {
			return
		}

		h := newPerfHistogram("get")

		// prepare keys
		getKey, iter := getKeys("get")

		// set keys
		iter(func(k []byte) {
			if _, err := tbl.Put(k, []byte("test")); err != nil {
				log.Error().Msgf("(get) - error putting key: %v", err)
			}
		})

		// cleanup
		b.Cleanup(func() {
			iter(func(k []byte) {
				_, _ = tbl.Delete(k)
			})
		})

		b.ResetTimer()

		counter := 0
		for i := 0; i < b.N; i++ {
			key := getKey(counter)
			start := time.Now()
			if _, found := tbl.Get(key); !found {
				log.Error().Msgf("(get) - key unexpectedly missing")
			}
			h.Update(time.Since(start).Nanoseconds())
			counter++
		}
	})

	results["get"] = getResult
	printResult("get", getResult)

	getMissResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("get-miss") {
			return
		}

		h := newPerfHistogram("get-miss")

		b.ResetTimer()

		counter := 0
		for i := 0; i < b.N; i++ {
			key := []byte(fmt.Sprintf("%s/miss-%d", perfKeyPrefix, counter%perfKeySpread))
			start := time.Now()
			_, _ = tbl.Get(key) // miss expected
			h.Update(time.Since(start).Nanoseconds())
			counter++
		}
	})

	results["get-miss"] = getMissResult
	printResult("get-miss", getMissResult)

	deleteResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("delete") {
			return
		}

		h := newPerfHistogram("delete")

		// prepare keys
		getKey, iter := getKeys("delete")

		// set keys
		iter(func(k []byte) {
			if _, err := tbl.Put(k, []byte("test")); err != nil {
				log.Error().Msgf("(delete) - error putting key: %v", err)
			}
		})

		// cleanup
		b.Cleanup(func() {
			iter(func(k []byte) {
				_, _ = tbl.Delete(k)
			})
		})

		b.ResetTimer()

		counter := 0
		for i := 0; i < b.N; i++ {
			key := getKey(counter)
			start := time.Now()
			_, _ = tbl.Delete(key) // misses once the spread is drained
			h.Update(time.Since(start).Nanoseconds())
			counter++
		}
	})

	results["delete"] = deleteResult
	printResult("delete", deleteResult)

	walkResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("walk") {
			return
		}

		h := newPerfHistogram("walk")

		// prepare keys
		_, iter := getKeys("walk")

		// set keys
		iter(func(k []byte) {
			if _, err := tbl.Put(k, []byte("test")); err != nil {
				log.Error().Msgf("(walk) - error putting key: %v", err)
			}
		})

		// cleanup
		b.Cleanup(func() {
			iter(func(k []byte) {
				_, _ = tbl.Delete(k)
			})
		})

		b.ResetTimer()

		cursor := uint64(0)
		for i := 0; i < b.N; i++ {
			start := time.Now()
			if _, _, found := tbl.Walk(&cursor); !found {
				cursor = 0
			}
			h.Update(time.Since(start).Nanoseconds())
		}
	})

	results["walk"] = walkResult
	printResult("walk", walkResult)

	mixedUsageResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("mixed") {
			return
		}

		h := newPerfHistogram("mixed")

		// prepare keys
		getKey, iter := getKeys("mixed")

		// set keys
		iter(func(k []byte) {
			if _, err := tbl.Put(k, []byte("test")); err != nil {
				log.Error().Msgf("(mixed) - error putting key: %v", err)
			}
		})

		// cleanup
		b.Cleanup(func() {
			iter(func(k []byte) {
				_, _ = tbl.Delete(k)
			})
		})

		b.ResetTimer()

		counter := 0
		for i := 0; i < b.N; i++ {
			key := getKey(counter)
			start := time.Now()
			switch counter % 4 {
			case 0: // put, a duplicate after the first lap
				if _, err := tbl.Put(key, []byte("test")); err != nil {
					log.Error().Msgf("(mixed) - error putting key: %v", err)
				}
			case 1: // get
				_, _ = tbl.Get(key)
			case 2: // delete, misses once its keys are drained
				_, _ = tbl.Delete(key)
			case 3: // get
				_, _ = tbl.Get(key)
			}
			h.Update(time.Since(start).Nanoseconds())
			counter++
		}
	})

	results["mixed"] = mixedUsageResult
	printResult("mixed", mixedUsageResult)

	// Record the results in the process metrics set
	for test, result := range results {
		recordMetrics(test, result)
	}

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	// Write results to json if specified
	if jsonPath := viper.GetString("json"); jsonPath != "" {
		fmt.Printf("\nExporting results to JSON: %s\n", jsonPath)
		if err := writeResultsToJSON(jsonPath, results); err != nil {
			return fmt.Errorf("failed to export results to JSON: %v", err)
		}
		fmt.Println("Export complete")
	}

	// Dump the metrics in Prometheus text format if specified
	if metricsPath := viper.GetString("metrics-out"); metricsPath != "" {
		fmt.Printf("\nWriting metrics to: %s\n", metricsPath)
		if err := writeMetricsFile(metricsPath); err != nil {
			return fmt.Errorf("failed to write metrics: %v", err)
		}
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// newPerfHistogram registers a fresh latency histogram for a test. The
// benchmark body reruns with a growing iteration count, the last (longest)
// run wins.
func newPerfHistogram(test string) gometrics.Histogram {
	h := gometrics.NewHistogram(gometrics.NewExpDecaySample(1028, 0.015))
	perfHists[test] = h
	return h
}

// creates an array of test keys and functions to work with them
func getKeys(prefix string) (func(int) []byte, func(func([]byte))) {
	keys := make([][]byte, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = []byte(fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i))
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) []byte {
		return keys[i%perfKeySpread]
	}

	// Function to iterate over all keys and apply a function to each
	iterateKeys := func(fn func([]byte)) {
		for _, key := range keys {
			fn(key)
		}
	}

	return getKey, iterateKeys
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// Latency percentiles from the sampled histogram
	var percentiles string
	if h, ok := perfHists[test]; ok {
		ps := h.Percentiles([]float64{0.5, 0.95, 0.99})
		percentiles = fmt.Sprintf("\tp50=%s p95=%s p99=%s",
			time.Duration(int64(ps[0])), time.Duration(int64(ps[1])), time.Duration(int64(ps[2])))
	}

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec%s\n", test, nsPerOp, time.Duration(int64(nsPerOp)), opsPerSec, percentiles)
}

// recordMetrics feeds a benchmark result into the process metrics set
func recordMetrics(test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		return
	}
	vmetrics.GetOrCreateCounter(fmt.Sprintf(`rhmap_perf_ops_total{op=%q}`, test)).Add(result.N)
	vmetrics.GetOrCreateHistogram(fmt.Sprintf(`rhmap_perf_ns_per_op{op=%q}`, test)).Update(float64(result.NsPerOp()))
}

// writeMetricsFile dumps the collected metrics in Prometheus text format
func writeMetricsFile(path string) error {
	var buf bytes.Buffer
	vmetrics.WritePrometheus(&buf, false)
	return atomic.WriteFile(path, &buf)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "P50Ns", "P95Ns", "P99Ns", "Skipped",
		"Hash", "Size", "BorrowKeys",
		"Keys Count", "LargeValueSizeKB",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, result := range results {
		row := append(resultFields(test, result),
			viper.GetString("hash"),
			strconv.Itoa(viper.GetInt("size")),
			strconv.FormatBool(viper.GetBool("borrow-keys")),
			strconv.Itoa(perfKeySpread),
			strconv.Itoa(perfLargeValueSizeKB),
		)

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %v", err)
	}

	return atomic.WriteFile(csvPath, &buf)
}

// resultFields renders the measured part of a CSV row
func resultFields(test string, result testing.BenchmarkResult) []string {
	var nsPerOp, opsPerSec float64
	var p50, p95, p99 float64
	skipped := result.NsPerOp() == 0

	if !skipped {
		nsPerOp = math.Max(float64(result.NsPerOp()), 1)
		opsPerSec = 1.0 / (nsPerOp / 1e9)
		if h, ok := perfHists[test]; ok {
			ps := h.Percentiles([]float64{0.5, 0.95, 0.99})
			p50, p95, p99 = ps[0], ps[1], ps[2]
		}
	}

	return []string{
		test,
		fmt.Sprintf("%.0f", nsPerOp),
		time.Duration(int64(nsPerOp)).String(),
		fmt.Sprintf("%.0f", opsPerSec),
		fmt.Sprintf("%.0f", p50),
		fmt.Sprintf("%.0f", p95),
		fmt.Sprintf("%.0f", p99),
		strconv.FormatBool(skipped),
	}
}

// writeResultsToJSON writes benchmark results to a JSON file
func writeResultsToJSON(jsonPath string, results map[string]testing.BenchmarkResult) error {
	type perfResult struct {
		Test      string  `json:"test"`
		NsPerOp   float64 `json:"nsPerOp"`
		OpsPerSec float64 `json:"opsPerSec"`
		P50Ns     float64 `json:"p50Ns"`
		P95Ns     float64 `json:"p95Ns"`
		P99Ns     float64 `json:"p99Ns"`
		Skipped   bool    `json:"skipped"`
	}

	rows := make([]perfResult, 0, len(results))
	for test, result := range results {
		row := perfResult{Test: test, Skipped: result.NsPerOp() == 0}
		if !row.Skipped {
			row.NsPerOp = math.Max(float64(result.NsPerOp()), 1)
			row.OpsPerSec = 1.0 / (row.NsPerOp / 1e9)
			if h, ok := perfHists[test]; ok {
				ps := h.Percentiles([]float64{0.5, 0.95, 0.99})
				row.P50Ns, row.P95Ns, row.P99Ns = ps[0], ps[1], ps[2]
			}
		}
		rows = append(rows, row)
	}

	out, err := sonnet.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %v", err)
	}

	return atomic.WriteFile(jsonPath, bytes.NewReader(out))
}
