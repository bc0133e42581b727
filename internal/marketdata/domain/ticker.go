// Package domain 行情数据限界上下文：标的清单、价格历史与日历对齐。
package domain

import (
	"bufio"
	"io"
	"sort"
	"strings"
)

// ParseTickers 从文本内容解析标的清单。
// 忽略空行与 # 之后的注释，去重后按字典序输出。
func ParseTickers(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	seen := make(map[string]struct{})
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		seen[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	tickers := make([]string, 0, len(seen))
	for t := range seen {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers, nil
}

// CleanTicker 去掉交易所符号修饰，得到可作文件名的标识。
// 如 ^IRX -> IRX、GBPUSD=X -> GBPUSD、GC=F -> GC。
func CleanTicker(symbol string) string {
	s := strings.TrimPrefix(symbol, "^")
	s = strings.TrimSuffix(s, "=X")
	s = strings.TrimSuffix(s, "=F")
	return s
}
