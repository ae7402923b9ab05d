package layout

import (
	"math"
	"testing"
)

const eps = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) <= eps*math.Max(1, math.Abs(b)) }

// sumWidths 汇总要素宽度、名义箭头宽度与余白缓冲。
func sumWidths(slots []Slot, gap float64) float64 {
	total := 0.0
	for _, s := range slots {
		total += s.Width
		if s.Kind == SlotArrow {
			total += gap
		}
	}
	return total
}

// TestPartitionScenarioA 对应 n=3, W=500, b=20, p=0.5。
func TestPartitionScenarioA(t *testing.T) {
	p := ComputePartition(3, 500, 20, 0.5)
	if !approx(p.Remaining, 460) {
		t.Fatalf("wr 期望 460，实际 %g", p.Remaining)
	}
	if !approx(p.NominalArrowWidth, 46) {
		t.Fatalf("名义箭头宽度期望 46，实际 %g", p.NominalArrowWidth)
	}
	if !approx(p.ElementWidth, 368.0/3) {
		t.Fatalf("要素宽度期望 %g，实际 %g", 368.0/3, p.ElementWidth)
	}
	if !approx(p.DisplayArrowWidth, 46) {
		t.Fatalf("比例不超过 1 时显示宽度应等于名义宽度，实际 %g", p.DisplayArrowWidth)
	}
}

// TestSlotsTileInnerWidth 验证任意 n 下槽位数量正确且宽度之和等于内框宽度。
func TestSlotsTileInnerWidth(t *testing.T) {
	cases := []struct {
		width, gap, ratio float64
	}{
		{500, 20, 0.5},
		{50, 2, 0},
		{50, 2, 3},
		{120, 0, 1},
		{10, 20, 0.5}, // 余白超过宽度，槽宽为负
		{-5, 1, 0.7},
	}
	for _, c := range cases {
		for n := 1; n <= 8; n++ {
			slots := PlanSlots(n, 7, c.width, c.gap, c.ratio)
			elements, arrows := 0, 0
			for i, s := range slots {
				wantKind := SlotElement
				if i%2 == 1 {
					wantKind = SlotArrow
				}
				if s.Kind != wantKind {
					t.Fatalf("n=%d 第 %d 个槽类型应为 %s，实际 %s", n, i, wantKind, s.Kind)
				}
				if s.Kind == SlotElement {
					elements++
				} else {
					arrows++
				}
			}
			if elements != n || arrows != n-1 {
				t.Fatalf("n=%d 槽位数量错误: elements=%d arrows=%d", n, elements, arrows)
			}
			if got := sumWidths(slots, c.gap); math.Abs(got-c.width) > 1e-9 {
				t.Fatalf("n=%d %+v 宽度之和 %g 不等于内框宽度 %g", n, c, got, c.width)
			}
			last := slots[len(slots)-1]
			if right := last.Left + last.Width; math.Abs(right-(7+c.width)) > 1e-9 {
				t.Fatalf("n=%d 最后一个要素右边缘 %g 应为 %g", n, right, 7+c.width)
			}
		}
	}
}

func TestSingleElementSpansInnerWidth(t *testing.T) {
	slots := PlanSlots(1, 3, 80, 5, 2)
	if len(slots) != 1 {
		t.Fatalf("n=1 应只有一个槽，实际 %d", len(slots))
	}
	if slots[0].Width != 80 || slots[0].CenterX != 43 {
		t.Fatalf("n=1 槽位错误: %+v", slots[0])
	}
}

func TestZeroElementsIsEmpty(t *testing.T) {
	if slots := PlanSlots(0, 0, 100, 2, 0.5); len(slots) != 0 {
		t.Fatalf("n=0 不应产生槽位，实际 %d", len(slots))
	}
}

// TestRatioAboveOneOnlyAffectsDisplay 比例超过 1 时仅显示宽度变化。
func TestRatioAboveOneOnlyAffectsDisplay(t *testing.T) {
	base := ComputePartition(4, 300, 6, 1)
	for _, ratio := range []float64{1.5, 2, 3} {
		p := ComputePartition(4, 300, 6, ratio)
		if !approx(p.NominalArrowWidth, base.NominalArrowWidth) || !approx(p.ElementWidth, base.ElementWidth) {
			t.Fatalf("ratio=%g 改变了名义宽度或要素宽度: %+v", ratio, p)
		}
		if !approx(p.DisplayArrowWidth, base.NominalArrowWidth*ratio) {
			t.Fatalf("ratio=%g 显示宽度期望 %g，实际 %g", ratio, base.NominalArrowWidth*ratio, p.DisplayArrowWidth)
		}
		if p.DisplayArrowWidth <= p.NominalArrowWidth {
			t.Fatalf("ratio=%g 显示宽度应大于名义宽度", ratio)
		}
	}
}

func TestArrowCentersBetweenElements(t *testing.T) {
	slots := PlanSlots(2, 0, 100, 10, 1)
	// wr=90, unit=30, nominal=30, element=30
	want := []Slot{
		{Kind: SlotElement, Index: 0, Left: 0, CenterX: 15, Width: 30},
		{Kind: SlotArrow, Index: 0, Left: 35, CenterX: 50, Width: 30, DisplayWidth: 30},
		{Kind: SlotElement, Index: 1, Left: 70, CenterX: 85, Width: 30},
	}
	if len(slots) != len(want) {
		t.Fatalf("槽位数量错误: %d", len(slots))
	}
	for i := range want {
		got := slots[i]
		if got.Kind != want[i].Kind || got.Index != want[i].Index ||
			!approx(got.Left, want[i].Left) || !approx(got.CenterX, want[i].CenterX) ||
			!approx(got.Width, want[i].Width) || !approx(got.DisplayWidth, want[i].DisplayWidth) {
			t.Fatalf("第 %d 个槽: got=%+v want=%+v", i, got, want[i])
		}
	}
}
