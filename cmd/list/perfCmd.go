package list

import (
	"encoding/csv"
	"fmt"
	"github.com/ValentinKolb/dList/cmd/util"
	"github.com/ValentinKolb/dList/rpc/client"
	"github.com/ValentinKolb/dList/rpc/common"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Throughput test for dList servers",
		Long:    "Starts a number of concurrent clients that each append a number of values and reports throughput and latency. The values stay in the list.",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfValuePrefix = "__perf"
	perfClients     = 10
	perfRequests    = 100
	perfValueSize   = 0
)

func init() {
	// add flags
	key := "clients"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of concurrent clients"))
	key = "requests"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("Number of appends per client"))
	key = "value-size"
	perfTestCmd.Flags().Int(key, 0, util.WrapString("Pad every value to this many bytes (0 keeps the values short)"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfClients = viper.GetInt("clients")
	perfRequests = viper.GetInt("requests")
	perfValueSize = viper.GetInt("value-size")

	if perfClients < 1 || perfRequests < 1 {
		return fmt.Errorf("clients and requests must be at least 1")
	}
	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("Throughput test for dList servers")

	// Print configuration
	config := util.GetClientConfig()
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(config.String())
	fmt.Printf("Clients: %d, Requests per client: %d\n", perfClients, perfRequests)
	fmt.Println()

	fmt.Println("starting test...")

	result := runAppendBenchmark(rpcList, perfClients, perfRequests, perfValueSize)
	result.print()

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := result.writeCSV(csvPath, config); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d requests failed", result.Failed, result.Total)
	}
	return nil
}

// --------------------------------------------------------------------------
// Benchmark
// --------------------------------------------------------------------------

// appender is the part of the client used by the benchmark
type appender interface {
	Append(value string) ([]string, error)
}

// perfResult is the outcome of a benchmark run
type perfResult struct {
	Clients  int
	Total    int64
	Failed   int64
	Elapsed  time.Duration
	P50      time.Duration
	P95      time.Duration
	P99      time.Duration
	Mean     time.Duration
	RateMean float64 // successful requests per second
}

// runAppendBenchmark lets clients goroutines each append requests values.
// Failed appends are counted and not retried beyond what the client transport does.
func runAppendBenchmark(list appender, clients, requests, valueSize int) perfResult {
	timer := metrics.NewTimer()
	defer timer.Stop()
	failures := metrics.NewCounter()

	var wg sync.WaitGroup
	start := time.Now()

	for c := 0; c < clients; c++ {
		wg.Add(1)
		go func(c int) {
			defer wg.Done()
			for i := 0; i < requests; i++ {
				value := fmt.Sprintf("%s-%d-%d", perfValuePrefix, c, i)
				if len(value) < valueSize {
					value += strings.Repeat("x", valueSize-len(value))
				}

				begin := time.Now()
				if _, err := list.Append(value); err != nil {
					failures.Inc(1)
					client.Logger.Warningf("(append) - client %d request %d: %v", c, i, err)
					continue
				}
				timer.UpdateSince(begin)
			}
		}(c)
	}
	wg.Wait()

	elapsed := time.Since(start)
	snapshot := timer.Snapshot()
	ps := snapshot.Percentiles([]float64{0.5, 0.95, 0.99})

	result := perfResult{
		Clients: clients,
		Total:   int64(clients * requests),
		Failed:  failures.Count(),
		Elapsed: elapsed,
		P50:     time.Duration(ps[0]),
		P95:     time.Duration(ps[1]),
		P99:     time.Duration(ps[2]),
		Mean:    time.Duration(snapshot.Mean()),
	}
	if elapsed > 0 {
		result.RateMean = float64(snapshot.Count()) / elapsed.Seconds()
	}
	return result
}

// print prints the result in a formatted way
func (r perfResult) print() {
	fmt.Printf("%-20s%d\n", "Total requests:", r.Total)
	fmt.Printf("%-20s%d\n", "Failed:", r.Failed)
	fmt.Printf("%-20s%.2f sec\n", "Total time:", r.Elapsed.Seconds())
	fmt.Printf("%-20s%.2f req/sec\n", "Throughput:", r.RateMean)
	fmt.Printf("%-20smean %s, p50 %s, p95 %s, p99 %s\n", "Latency:", r.Mean, r.P50, r.P95, r.P99)
}

// writeCSV writes the result to a CSV file
func (r perfResult) writeCSV(csvPath string, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	// Write header
	header := []string{
		"Clients", "Total", "Failed", "ElapsedSec", "ReqPerSec",
		"MeanNs", "P50Ns", "P95Ns", "P99Ns",
		"Endpoint", "TimeoutSec", "RetryCount", "Serializer", "Transport",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	row := []string{
		strconv.Itoa(r.Clients),
		strconv.FormatInt(r.Total, 10),
		strconv.FormatInt(r.Failed, 10),
		fmt.Sprintf("%.3f", r.Elapsed.Seconds()),
		fmt.Sprintf("%.0f", r.RateMean),
		strconv.FormatInt(r.Mean.Nanoseconds(), 10),
		strconv.FormatInt(r.P50.Nanoseconds(), 10),
		strconv.FormatInt(r.P95.Nanoseconds(), 10),
		strconv.FormatInt(r.P99.Nanoseconds(), 10),
		config.Endpoint,
		strconv.Itoa(config.TimeoutSecond),
		strconv.Itoa(config.RetryCount),
		viper.GetString("serializer"),
		viper.GetString("transport"),
	}
	if err := writer.Write(row); err != nil {
		return fmt.Errorf("failed to write result row: %v", err)
	}

	writer.Flush()
	return writer.Error()
}
