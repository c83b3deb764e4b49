package list

import (
	"encoding/csv"
	"errors"
	"github.com/ValentinKolb/dList/rpc/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// countingAppender records appended values and fails every n-th call (0 never fails)
type countingAppender struct {
	mu        sync.Mutex
	values    []string
	failEvery int
	calls     int
}

func (a *countingAppender) Append(value string) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if a.failEvery > 0 && a.calls%a.failEvery == 0 {
		return nil, common.NewError(common.ErrKCallFailed, errors.New("unreachable"), "no response")
	}
	a.values = append(a.values, value)
	time.Sleep(time.Microsecond)
	return nil, nil
}

func TestAppendBenchmark(t *testing.T) {
	a := &countingAppender{}
	result := runAppendBenchmark(a, 4, 25, 0)

	assert.Equal(t, 4, result.Clients)
	assert.EqualValues(t, 100, result.Total)
	assert.EqualValues(t, 0, result.Failed)
	assert.Len(t, a.values, 100)
	assert.Greater(t, result.RateMean, 0.0)
	assert.Greater(t, result.P99, time.Duration(0))
	assert.LessOrEqual(t, result.P50, result.P99)

	// every value is unique
	seen := make(map[string]bool)
	for _, v := range a.values {
		assert.True(t, strings.HasPrefix(v, perfValuePrefix))
		assert.False(t, seen[v])
		seen[v] = true
	}
}

func TestAppendBenchmarkFailures(t *testing.T) {
	a := &countingAppender{failEvery: 5}
	result := runAppendBenchmark(a, 2, 10, 0)

	assert.EqualValues(t, 20, result.Total)
	assert.EqualValues(t, 4, result.Failed)
	assert.Len(t, a.values, 16)
}

func TestAppendBenchmarkValueSize(t *testing.T) {
	a := &countingAppender{}
	runAppendBenchmark(a, 1, 3, 64)

	require.Len(t, a.values, 3)
	for _, v := range a.values {
		assert.Len(t, v, 64)
	}
}

func TestPerfResultCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.csv")
	result := perfResult{Clients: 2, Total: 10, Failed: 1, Elapsed: time.Second, RateMean: 9}

	require.NoError(t, result.writeCSV(path, &common.ClientConfig{Endpoint: "localhost:5000", TimeoutSecond: 5, RetryCount: 3}))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Clients", records[0][0])
	assert.Equal(t, "2", records[1][0])
	assert.Equal(t, "localhost:5000", records[1][9])
}
