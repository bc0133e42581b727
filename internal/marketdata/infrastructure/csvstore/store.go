// Package csvstore 以 CSV 文件形式持久化原始与已处理的行情数据。
// 目录布局：<dataDir>/raw/prices/ 存放逐标的原始下载，
// <dataDir>/processed/ 存放对齐后的价格矩阵与无风险利率序列。
package csvstore

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/wyfcoding/portfolioanalytics/internal/marketdata/domain"
)

const (
	dateLayout        = "2006-01-02"
	pricesFilename    = "prices.csv"
	riskFreeFilename  = "risk_free.csv"
	manifestFilename  = "data_manifest.csv"
	rawPricesSubdir   = "raw/prices"
	processedSubdir   = "processed"
	rawSubdir         = "raw"
	filePermissions   = 0o644
	dirPermissions    = 0o755
)

// Store 文件系统 CSV 存储。
type Store struct {
	dataDir string
}

// NewStore 创建存储实例，dataDir 为数据根目录。
func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// RawPricePath 返回某标的原始价格文件的完整路径。
func (s *Store) RawPricePath(symbol string) string {
	return filepath.Join(s.dataDir, rawPricesSubdir, domain.CleanTicker(symbol)+"_prices.csv")
}

// ProcessedPath 返回已处理目录下某文件的完整路径。
func (s *Store) ProcessedPath(filename string) string {
	return filepath.Join(s.dataDir, processedSubdir, filename)
}

// SaveRawHistory 保存单标的原始日线历史。
func (s *Store) SaveRawHistory(symbol string, dates []time.Time, closes []float64) error {
	if len(dates) != len(closes) {
		return fmt.Errorf("%s: %d dates but %d closes", symbol, len(dates), len(closes))
	}
	records := make([][]string, 0, len(dates)+1)
	records = append(records, []string{"Date", "Close"})
	for i, d := range dates {
		records = append(records, []string{
			d.Format(dateLayout),
			strconv.FormatFloat(closes[i], 'f', -1, 64),
		})
	}
	return s.writeCSV(s.RawPricePath(symbol), records)
}

// ManifestEntry 下载清单条目。
type ManifestEntry struct {
	Ticker       string
	Observations int
	FirstDate    time.Time
	LastDate     time.Time
}

// SaveManifest 保存下载清单，记录每个标的的覆盖区间。
func (s *Store) SaveManifest(entries []ManifestEntry) error {
	records := make([][]string, 0, len(entries)+1)
	records = append(records, []string{"ticker", "observations", "first_date", "last_date"})
	for _, e := range entries {
		records = append(records, []string{
			e.Ticker,
			strconv.Itoa(e.Observations),
			e.FirstDate.Format(dateLayout),
			e.LastDate.Format(dateLayout),
		})
	}
	return s.writeCSV(filepath.Join(s.dataDir, rawSubdir, manifestFilename), records)
}

// SaveProcessedMatrix 保存对齐后的宽表价格矩阵，列为 Date 加各标的。
func (s *Store) SaveProcessedMatrix(matrix *domain.PriceMatrix) error {
	header := append([]string{"Date"}, matrix.Symbols...)
	records := make([][]string, 0, len(matrix.Dates)+1)
	records = append(records, header)
	for i, d := range matrix.Dates {
		row := make([]string, 0, len(header))
		row = append(row, d.Format(dateLayout))
		for _, sym := range matrix.Symbols {
			row = append(row, strconv.FormatFloat(matrix.Closes[sym][i], 'f', -1, 64))
		}
		records = append(records, row)
	}
	return s.writeCSV(s.ProcessedPath(pricesFilename), records)
}

// LoadProcessedMatrix 读取宽表价格矩阵。
func (s *Store) LoadProcessedMatrix() (*domain.PriceMatrix, error) {
	records, err := s.readCSV(s.ProcessedPath(pricesFilename))
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("processed price matrix is empty")
	}
	header := records[0]
	if len(header) < 2 || header[0] != "Date" {
		return nil, fmt.Errorf("malformed price matrix header: %v", header)
	}
	symbols := header[1:]

	dates := make([]time.Time, 0, len(records)-1)
	closes := make(map[string][]float64, len(symbols))
	for _, sym := range symbols {
		closes[sym] = make([]float64, 0, len(records)-1)
	}
	for line, row := range records[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", line+2, len(row), len(header))
		}
		d, err := time.Parse(dateLayout, row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid date %q: %w", line+2, row[0], err)
		}
		dates = append(dates, d)
		for i, sym := range symbols {
			v, err := strconv.ParseFloat(row[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid price %q for %s: %w", line+2, row[i+1], sym, err)
			}
			closes[sym] = append(closes[sym], v)
		}
	}

	return &domain.PriceMatrix{Dates: dates, Symbols: symbols, Closes: closes}, nil
}

// SaveRiskFree 保存无风险年化收益率序列。
func (s *Store) SaveRiskFree(dates []time.Time, yields []float64) error {
	if len(dates) != len(yields) {
		return fmt.Errorf("%d dates but %d yields", len(dates), len(yields))
	}
	records := make([][]string, 0, len(dates)+1)
	records = append(records, []string{"Date", "Yield"})
	for i, d := range dates {
		records = append(records, []string{
			d.Format(dateLayout),
			strconv.FormatFloat(yields[i], 'f', -1, 64),
		})
	}
	return s.writeCSV(s.ProcessedPath(riskFreeFilename), records)
}

// LoadRiskFree 读取无风险年化收益率序列。
func (s *Store) LoadRiskFree() ([]time.Time, []float64, error) {
	records, err := s.readCSV(s.ProcessedPath(riskFreeFilename))
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("risk-free series is empty")
	}

	dates := make([]time.Time, 0, len(records)-1)
	yields := make([]float64, 0, len(records)-1)
	for line, row := range records[1:] {
		if len(row) != 2 {
			return nil, nil, fmt.Errorf("row %d has %d columns, expected 2", line+2, len(row))
		}
		d, err := time.Parse(dateLayout, row[0])
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: invalid date %q: %w", line+2, row[0], err)
		}
		y, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: invalid yield %q: %w", line+2, row[1], err)
		}
		dates = append(dates, d)
		yields = append(yields, y)
	}
	return dates, yields, nil
}

func (s *Store) writeCSV(path string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermissions)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *Store) readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return csv.NewReader(f).ReadAll()
}
