package domain

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TailRiskMethod VaR/CVaR 估计方法。
type TailRiskMethod string

const (
	MethodHistorical TailRiskMethod = "historical"
	MethodNormal     TailRiskMethod = "normal"
	MethodStudentT   TailRiskMethod = "student_t"
)

// DefaultConfidenceLevels 默认置信度集合。
var DefaultConfidenceLevels = []float64{0.95, 0.99}

// MinTailSample 尾部估计所需的最小样本量。
const MinTailSample = 30

// TailRiskEstimate 单个 (方法, 置信度) 的 VaR/CVaR 估计。
// VaR 与 CVaR 统一表示为正的损失幅度。
type TailRiskEstimate struct {
	Method     TailRiskMethod `json:"method"`
	Confidence float64        `json:"confidence"`
	VaR        float64        `json:"var"`
	CVaR       float64        `json:"cvar"`
}

// EstimateTailRisk 在给定方法与置信度下估计一期 VaR/CVaR。
// 三种方法互不回退：所请求方法失败即整体失败。
func EstimateTailRisk(returns []float64, method TailRiskMethod, confidence float64) (*TailRiskEstimate, error) {
	if confidence <= 0 || confidence >= 1 {
		return nil, fmt.Errorf("confidence level must be in (0, 1), got %v", confidence)
	}
	if len(returns) < MinTailSample {
		return nil, &InsufficientSampleError{Need: MinTailSample, Got: len(returns)}
	}

	switch method {
	case MethodHistorical:
		return historicalTailRisk(returns, confidence)
	case MethodNormal:
		return normalTailRisk(returns, confidence)
	case MethodStudentT:
		return studentTTailRisk(returns, confidence)
	default:
		return nil, fmt.Errorf("unknown tail risk method: %q", method)
	}
}

// EstimateAllTailRisks 对每个 (方法, 置信度) 组合并列估计，便于横向对比。
// 结果按方法、置信度的给定顺序稳定输出。
func EstimateAllTailRisks(returns []float64, confidences []float64) ([]TailRiskEstimate, error) {
	if len(confidences) == 0 {
		confidences = DefaultConfidenceLevels
	}
	methods := []TailRiskMethod{MethodHistorical, MethodNormal, MethodStudentT}
	estimates := make([]TailRiskEstimate, 0, len(methods)*len(confidences))
	for _, m := range methods {
		for _, c := range confidences {
			est, err := EstimateTailRisk(returns, m, c)
			if err != nil {
				return nil, fmt.Errorf("tail risk %s@%v: %w", m, c, err)
			}
			estimates = append(estimates, *est)
		}
	}
	return estimates, nil
}

// historicalTailRisk 经验分位数法。
// 升序排序后取下标 floor(N*(1-c)) 的观测为 VaR 阈值，
// CVaR 为阈值及更差观测的均值，两者均取负号转为损失幅度。
func historicalTailRisk(returns []float64, confidence float64) (*TailRiskEstimate, error) {
	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	slices.Sort(sorted)

	idx := int(math.Floor(float64(len(sorted)) * (1 - confidence)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}

	varValue := -sorted[idx]

	sumTail := 0.0
	for i := 0; i <= idx; i++ {
		sumTail += sorted[i]
	}
	cvarValue := -sumTail / float64(idx+1)

	return &TailRiskEstimate{
		Method:     MethodHistorical,
		Confidence: confidence,
		VaR:        varValue,
		CVaR:       cvarValue,
	}, nil
}

// normalTailRisk 参数化正态法。
// VaR = -(mu + z*sigma)，z 为 (1-c) 处的标准正态分位数；
// CVaR 使用正态尾部期望公式 -(mu - sigma*phi(z)/(1-c))。
func normalTailRisk(returns []float64, confidence float64) (*TailRiskEstimate, error) {
	if isConstant(returns) {
		return nil, &DegenerateVolatilityError{Metric: "normal VaR"}
	}
	mu := stat.Mean(returns, nil)
	sigma := stat.StdDev(returns, nil)

	std := distuv.Normal{Mu: 0, Sigma: 1}
	z := std.Quantile(1 - confidence)

	varValue := -(mu + z*sigma)
	cvarValue := -(mu - sigma*std.Prob(z)/(1-confidence))

	return &TailRiskEstimate{
		Method:     MethodNormal,
		Confidence: confidence,
		VaR:        varValue,
		CVaR:       cvarValue,
	}, nil
}

// FitStudentT 用矩估计从样本超额峰度拟合自由度 nu，并给出位置/尺度。
// 标准化 t 分布的超额峰度为 6/(nu-4)，故 nu = 4 + 6/g2；
// g2 <= 0（峰度不高于正态）时矩估计无定义，显式返回 DistributionFitError
// 而非悄悄截断到边界值。
func FitStudentT(returns []float64) (nu, mu, scale float64, err error) {
	if isConstant(returns) {
		return 0, 0, 0, &DegenerateVolatilityError{Metric: "student-t fit"}
	}
	mu = stat.Mean(returns, nil)
	sigma := stat.StdDev(returns, nil)
	g2, err := SampleExcessKurtosis(returns)
	if err != nil {
		return 0, 0, 0, err
	}
	if g2 <= 0 {
		return 0, 0, 0, &DistributionFitError{
			Reason: fmt.Sprintf("excess kurtosis %.6f not above the normal bound, method-of-moments undefined", g2),
		}
	}
	nu = 4 + 6/g2
	// 尺度换算使 t 分布方差 nu/(nu-2)*scale^2 与样本方差一致。
	scale = sigma * math.Sqrt((nu-2)/nu)
	return nu, mu, scale, nil
}

// studentTTailRisk 参数化 Student-t 法，分位数与尾部期望形式与正态法对应。
func studentTTailRisk(returns []float64, confidence float64) (*TailRiskEstimate, error) {
	nu, mu, scale, err := FitStudentT(returns)
	if err != nil {
		return nil, err
	}

	std := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: nu}
	tq := std.Quantile(1 - confidence)

	varValue := -(mu + tq*scale)
	// t 分布尾部期望：E[X | X <= tq] = -pdf(tq)*(nu+tq^2)/((nu-1)*(1-c))
	tailExpectation := -std.Prob(tq) * (nu + tq*tq) / ((nu - 1) * (1 - confidence))
	cvarValue := -(mu + scale*tailExpectation)

	return &TailRiskEstimate{
		Method:     MethodStudentT,
		Confidence: confidence,
		VaR:        varValue,
		CVaR:       cvarValue,
	}, nil
}
