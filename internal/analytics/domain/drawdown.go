package domain

// DrawdownResult 回撤分析结果：回撤路径、最大回撤与最长水下时长。
type DrawdownResult struct {
	Series            Series  `json:"series"`
	MaxDrawdown       float64 `json:"max_drawdown"`
	LongestUnderwater int     `json:"longest_underwater"`
}

// AnalyzeDrawdown 基于净值曲线计算回撤路径。
// drawdown[t] = equity[t]/runningMax(equity[0..t]) - 1，恒不大于零。
// 最大回撤取最小值，并列时取首次出现；水下时长为从前一个峰值
// （drawdown=0）到下一次回到零（或序列结束）之间的周期数。
func AnalyzeDrawdown(equity Series) (*DrawdownResult, error) {
	n := equity.Len()
	if n == 0 {
		return nil, &InsufficientSampleError{Need: 1, Got: 0}
	}

	drawdown := make([]float64, n)
	runningMax := equity.Values[0]
	maxDD := 0.0
	for i, v := range equity.Values {
		if v > runningMax {
			runningMax = v
		}
		drawdown[i] = v/runningMax - 1
		if drawdown[i] < maxDD {
			maxDD = drawdown[i]
		}
	}

	// 水下时长：peak 为最近一次 drawdown=0 的下标。
	// 回到零记一次完整区间（含恢复周期），未恢复则计到序列末尾。
	longest := 0
	peak := 0
	for i := 1; i < n; i++ {
		if drawdown[i] == 0 {
			if drawdown[i-1] != 0 {
				if span := i - peak; span > longest {
					longest = span
				}
			}
			peak = i
			continue
		}
		if span := i - peak; span > longest {
			longest = span
		}
	}

	series, err := NewSeries(equity.Dates, drawdown)
	if err != nil {
		return nil, err
	}
	return &DrawdownResult{
		Series:            series,
		MaxDrawdown:       maxDD,
		LongestUnderwater: longest,
	}, nil
}
