package layout

// CheckMargins 报告左右 padding 与全部余白之和是否已达到外框宽度。
// 仅作提示，布局计算本身照常进行。
func CheckMargins(rectWidth, paddingLeft, paddingRight, gapWidth float64, n int) bool {
	gaps := n - 1
	if gaps < 0 {
		gaps = 0
	}
	total := paddingLeft + paddingRight + gapWidth*float64(gaps)
	return total >= rectWidth
}

// MarginWarning 对 n 个要素执行 CheckMargins。
func (c Config) MarginWarning(n int) bool {
	return CheckMargins(c.RectWidth, c.Padding.Left, c.Padding.Right, c.GapWidth, n)
}
