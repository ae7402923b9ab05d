package layout

import "math"

// Partition 保存内框宽度分配的中间量，便于调试与测试。
//
// 记号：n 为要素数，W 为内框宽度，b 为余白宽度，p 为箭头比例。
//
//	wr      = W − b(n−1)
//	nominal = wr/(2n−1) · min(p, 1)
//	element = (wr − nominal(n−1)) / n
//	display = wr/(2n−1) · p
type Partition struct {
	N                 int     `json:"n"`
	InnerWidth        float64 `json:"innerWidth"`
	GapWidth          float64 `json:"gapWidth"`
	Ratio             float64 `json:"ratio"`
	ClampedRatio      float64 `json:"clampedRatio"`
	Remaining         float64 `json:"remaining"`
	ElementWidth      float64 `json:"elementWidth"`
	NominalArrowWidth float64 `json:"nominalArrowWidth"`
	DisplayArrowWidth float64 `json:"displayArrowWidth"`
}

// ComputePartition 计算 n 个要素与 n−1 个箭头的宽度。
// 宽度可能为负（余白过大），此时不截断，由 CheckMargins 提示。
func ComputePartition(n int, innerWidth, gapWidth, ratio float64) Partition {
	p := Partition{
		N:            n,
		InnerWidth:   innerWidth,
		GapWidth:     gapWidth,
		Ratio:        ratio,
		ClampedRatio: math.Min(ratio, 1),
	}
	switch {
	case n <= 0:
		return p
	case n == 1:
		p.Remaining = innerWidth
		p.ElementWidth = innerWidth
		return p
	}

	arrows := float64(n - 1)
	p.Remaining = innerWidth - gapWidth*arrows
	unit := p.Remaining / float64(2*n-1)
	p.NominalArrowWidth = unit * p.ClampedRatio
	p.ElementWidth = (p.Remaining - p.NominalArrowWidth*arrows) / float64(n)
	p.DisplayArrowWidth = unit * ratio
	return p
}

// Slots 从 originX 开始自左向右排出槽位：
// element, gap/2, arrow, gap/2, element, …, element。
func (p Partition) Slots(originX float64) []Slot {
	if p.N <= 0 {
		return nil
	}
	slots := make([]Slot, 0, 2*p.N-1)
	x := originX
	for i := 0; i < p.N; i++ {
		slots = append(slots, Slot{
			Kind:    SlotElement,
			Index:   i,
			Left:    x,
			CenterX: x + p.ElementWidth/2,
			Width:   p.ElementWidth,
		})
		x += p.ElementWidth
		if i == p.N-1 {
			break
		}
		x += p.GapWidth / 2
		slots = append(slots, Slot{
			Kind:         SlotArrow,
			Index:        i,
			Left:         x,
			CenterX:      x + p.NominalArrowWidth/2,
			Width:        p.NominalArrowWidth,
			DisplayWidth: p.DisplayArrowWidth,
		})
		x += p.NominalArrowWidth + p.GapWidth/2
	}
	return slots
}

// PlanSlots 是 ComputePartition 与 Slots 的组合。
func PlanSlots(n int, originX, innerWidth, gapWidth, ratio float64) []Slot {
	return ComputePartition(n, innerWidth, gapWidth, ratio).Slots(originX)
}
