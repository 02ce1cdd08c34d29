package symbol

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/codabar"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/twooffive"

	"slipgen/internal/receipt"
)

// barHeight 是 SVG 视口里的名义条高；实际显示高度由文档样式决定。
const barHeight = 48

// Barcode 把文本按指定编码格式编码为一段独立的 SVG 标记。
// 编码格式的合法性由 Validator 负责；这里不重复校验，未知值按错误处理。
func Barcode(text string, symbology receipt.Symbology) (string, error) {
	var (
		encoded barcode.Barcode
		err     error
	)

	switch symbology {
	case receipt.SymbologyCode128:
		encoded, err = code128.Encode(text)
	case receipt.SymbologyCode39:
		encoded, err = code39.Encode(text, true, false)
	case receipt.SymbologyEAN13, receipt.SymbologyEAN8:
		encoded, err = ean.Encode(text)
	case receipt.SymbologyCodabar:
		encoded, err = codabar.Encode(text)
	case receipt.SymbologyITF:
		encoded, err = twooffive.Encode(text, true)
	default:
		err = fmt.Errorf("unsupported symbology %q", symbology)
	}
	if err != nil {
		return "", fmt.Errorf("encode %s barcode: %w", symbology, err)
	}

	return barcodeSVG(encoded), nil
}

// barcodeSVG 把一维条码的模块序列序列化为游程 <rect>。
// 根元素带 width/height/viewBox；嵌入文档时由 Builder 归一化这些属性。
func barcodeSVG(encoded barcode.Barcode) string {
	bounds := encoded.Bounds()
	modules := bounds.Dx()

	var sb strings.Builder
	fmt.Fprintf(&sb,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">`,
		modules*2, barHeight, modules, barHeight)
	sb.WriteString(`<rect width="100%" height="100%" fill="#ffffff"/>`)

	y := bounds.Min.Y
	for x := bounds.Min.X; x < bounds.Max.X; {
		if !isDark(encoded.At(x, y)) {
			x++
			continue
		}
		end := x
		for end < bounds.Max.X && isDark(encoded.At(end, y)) {
			end++
		}
		fmt.Fprintf(&sb, `<rect x="%d" y="0" width="%d" height="%d" fill="#000000"/>`,
			x-bounds.Min.X, end-x, barHeight)
		x = end
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

func isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return (r+g+b)/3 < 0x8000
}
