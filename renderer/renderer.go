package renderer

import "github.com/ByLCY/tategaki/layout"

// Renderer 将布局结果输出为最终文件，例如 PDF 或图像。
// Render 返回生成的二进制数据（例如 PDF 字节切片）以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// Surface 是布局计算所依赖的绘制面：测量字宽，并支持带变换的居中绘字。
// 坐标以毫米为单位、原点在左上、y 轴向下。
type Surface interface {
	layout.Measurer

	// StrokeRect 描出外框。
	StrokeRect(b layout.Box)
	Push()
	Pop()
	Translate(x, y float64)
	// Rotate90 顺时针旋转 90°。
	Rotate90()
	// Mirror 翻转当前局部坐标的 y 轴（旋转后即沿竖轴镜像）。
	Mirror()
	// DrawGlyph 以当前原点为中心绘制一个字符。
	DrawGlyph(glyph string, fontSize float64)
}
