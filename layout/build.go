package layout

// Build 根据标签与配置计算完整的竖排布局。
// 纯计算：相同输入得到相同输出，不持有任何跨调用状态，也没有失败路径；
// 退化输入（零个标签、负宽度）产生可定义的几何，由 Drawable 与 Warning 体现。
func Build(labels []Label, cfg Config, opts BuildOptions) *Result {
	m := opts.Measurer
	if m == nil {
		m = EmMeasurer{}
	}
	inner := cfg.Inner()
	n := len(labels)
	part := ComputePartition(n, inner.Width, cfg.GapWidth, cfg.ArrowSizeRatio)
	slots := part.Slots(inner.X)

	res := &Result{
		Config:    cfg,
		Rect:      cfg.Rect(),
		Inner:     inner,
		Partition: part,
		Slots:     slots,
		Elements:  make([]ElementPlan, 0, n),
		Warning:   cfg.MarginWarning(n),
		Meta:      opts.Meta,
	}
	for _, slot := range slots {
		switch slot.Kind {
		case SlotElement:
			res.Elements = append(res.Elements, TypesetElement(labels[slot.Index], slot, inner, cfg, m))
		case SlotArrow:
			res.Arrows = append(res.Arrows, PlaceArrow(slot, inner, cfg.ArrowChar))
		}
	}
	return res
}
