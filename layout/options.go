package layout

// BuildOptions 配置布局阶段所需的依赖，例如测量字宽的绘制面。
type BuildOptions struct {
	Measurer Measurer     // 为空时使用 EmMeasurer
	Meta     DocumentMeta // 原样写入 Result.Meta
}
