package domain

// isConstant 判断序列是否为常数序列。
// 常数序列的样本均值在浮点下未必精确等于元素值，据此判断零方差
// 比与 0 比较标准差更可靠。
func isConstant(values []float64) bool {
	for i := 1; i < len(values); i++ {
		if values[i] != values[0] {
			return false
		}
	}
	return true
}
