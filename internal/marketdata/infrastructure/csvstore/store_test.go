package csvstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wyfcoding/portfolioanalytics/internal/marketdata/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestRawPricePath(t *testing.T) {
	store := NewStore("/data")
	assert.Equal(t, filepath.Join("/data", "raw", "prices", "SPY_prices.csv"), store.RawPricePath("SPY"))
	// 指数符号的 ^ 前缀不进入文件名
	assert.Equal(t, filepath.Join("/data", "raw", "prices", "IRX_prices.csv"), store.RawPricePath("^IRX"))
}

func TestSaveRawHistory(t *testing.T) {
	store := NewStore(t.TempDir())

	dates := []time.Time{day(2), day(3)}
	closes := []float64{100.5, 101.25}
	require.NoError(t, store.SaveRawHistory("SPY", dates, closes))

	raw, err := os.ReadFile(store.RawPricePath("SPY"))
	require.NoError(t, err)
	assert.Equal(t, "Date,Close\n2024-01-02,100.5\n2024-01-03,101.25\n", string(raw))

	err = store.SaveRawHistory("SPY", dates, closes[:1])
	assert.Error(t, err)
}

func TestProcessedMatrixRoundtrip(t *testing.T) {
	store := NewStore(t.TempDir())

	matrix := &domain.PriceMatrix{
		Dates:   []time.Time{day(2), day(3), day(4)},
		Symbols: []string{"SPY", "TLT"},
		Closes: map[string][]float64{
			"SPY": {100, 101, 102},
			"TLT": {50, 50.5, 51},
		},
	}
	require.NoError(t, store.SaveProcessedMatrix(matrix))

	loaded, err := store.LoadProcessedMatrix()
	require.NoError(t, err)
	assert.Equal(t, matrix.Dates, loaded.Dates)
	assert.Equal(t, matrix.Symbols, loaded.Symbols)
	assert.Equal(t, matrix.Closes, loaded.Closes)
}

func TestLoadProcessedMatrix_Malformed(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.LoadProcessedMatrix()
	assert.Error(t, err, "missing file")

	write := func(content string) {
		path := store.ProcessedPath("prices.csv")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	write("Date,SPY\n")
	_, err = store.LoadProcessedMatrix()
	assert.ErrorContains(t, err, "empty")

	write("When,SPY\n2024-01-02,100\n")
	_, err = store.LoadProcessedMatrix()
	assert.ErrorContains(t, err, "header")

	write("Date,SPY\nnot-a-date,100\n")
	_, err = store.LoadProcessedMatrix()
	assert.ErrorContains(t, err, "invalid date")

	write("Date,SPY\n2024-01-02,abc\n")
	_, err = store.LoadProcessedMatrix()
	assert.ErrorContains(t, err, "invalid price")
}

func TestRiskFreeRoundtrip(t *testing.T) {
	store := NewStore(t.TempDir())

	dates := []time.Time{day(2), day(3)}
	yields := []float64{0.0525, 0.0528}
	require.NoError(t, store.SaveRiskFree(dates, yields))

	gotDates, gotYields, err := store.LoadRiskFree()
	require.NoError(t, err)
	assert.Equal(t, dates, gotDates)
	assert.Equal(t, yields, gotYields)

	assert.Error(t, store.SaveRiskFree(dates, yields[:1]))
}

func TestSaveManifest(t *testing.T) {
	store := NewStore(t.TempDir())

	entries := []ManifestEntry{
		{Ticker: "SPY", Observations: 3, FirstDate: day(2), LastDate: day(4)},
		{Ticker: "^IRX", Observations: 2, FirstDate: day(2), LastDate: day(3)},
	}
	require.NoError(t, store.SaveManifest(entries))

	raw, err := os.ReadFile(filepath.Join(store.dataDir, "raw", "data_manifest.csv"))
	require.NoError(t, err)
	assert.Equal(t,
		"ticker,observations,first_date,last_date\n"+
			"SPY,3,2024-01-02,2024-01-04\n"+
			"^IRX,2,2024-01-02,2024-01-03\n",
		string(raw))
}
