package receipt

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// receiptStylesheet 是每个文档共用的固定样式表。
// 等宽字体、近零边距；每个对齐值 / 粗细值 / 字号档各一个类；
// 默认 1px 虚线分隔规则；columns 片段使用的弹性行工具类。
const receiptStylesheet = `
body {
    margin: 0;
    padding: 4px;
    background: #ffffff;
    color: #000000;
    font-family: 'Courier New', Courier, monospace;
    font-size: 14px;
    line-height: 1.35;
}
h1, h2, h3, h4, h5, h6 {
    margin: 2px 0;
}
p {
    margin: 2px 0;
    white-space: pre-wrap;
    word-break: break-word;
}
img {
    display: inline-block;
    vertical-align: middle;
}
.align-left { text-align: left; }
.align-center { text-align: center; }
.align-right { text-align: right; }
.size-xs { font-size: 10px; }
.size-sm { font-size: 12px; }
.size-base { font-size: 14px; }
.size-lg { font-size: 18px; }
.size-xl { font-size: 22px; }
.weight-normal { font-weight: normal; }
.weight-bolder { font-weight: bold; }
.weight-lighter { font-weight: 300; }
.italic { font-style: italic; }
.underline { text-decoration: underline; }
hr {
    border: none;
    border-top: 1px dashed #000000;
    margin: 4px 0;
}
.hr-thin { border-top-width: 1px; }
.hr-medium { border-top-width: 2px; }
.hr-thick { border-top-width: 4px; }
.hr-solid { border-top-style: solid; }
.hr-dashed { border-top-style: dashed; }
.hr-dotted { border-top-style: dotted; }
.hr-double { border-top-style: double; }
.row {
    display: flex;
    width: 100%;
}
.col {
    word-break: break-word;
}
`

// textPolicy 在把用户文本嵌入文档前剥掉其中的任何标记。
var textPolicy = bluemonday.StrictPolicy()

// Builder 按调用顺序累积标记片段，并在 Build 时合成为一个完整文档。
// 一个 Builder 只服务一次请求，绝不跨请求共享；它不做任何校验，
// 输入必须已经过 Validate。
type Builder struct {
	fragments []string
	document  string
	built     bool
}

// NewBuilder 返回一个空的文档构建器。
func NewBuilder() *Builder {
	return &Builder{}
}

// Fragments 返回已累积片段的副本，顺序与 addX 调用顺序一致。
func (b *Builder) Fragments() []string {
	out := make([]string, len(b.fragments))
	copy(out, b.fragments)
	return out
}

func (b *Builder) append(fragment string) {
	b.fragments = append(b.fragments, fragment)
}

// AddHeading 追加一个语义标题片段。
func (b *Builder) AddHeading(text string, level int, align Align) {
	if level < 1 || level > 6 {
		level = 1
	}
	b.append(fmt.Sprintf("<h%d%s>%s</h%d>",
		level, classAttr(alignClass(align)), textPolicy.Sanitize(text), level))
}

// AddText 追加一个段落片段。每个样式选项独立映射为一个 CSS 类；
// 缺省选项不产生任何类。
func (b *Builder) AddText(text string, size TextSize, weight TextWeight, italic, underline bool, align Align) {
	classes := textClasses(size, weight, italic, underline, align)
	b.append(fmt.Sprintf("<p%s>%s</p>", classAttr(classes...), textPolicy.Sanitize(text)))
}

// AddDivider 追加一条分隔线；thickness 与 style 直接映射到边框宽度/样式类。
func (b *Builder) AddDivider(thickness DividerThickness, style DividerStyle) {
	if thickness == "" {
		thickness = DividerThin
	}
	if style == "" {
		style = DividerSolid
	}
	b.append(fmt.Sprintf("<hr%s>", classAttr("hr-"+string(thickness), "hr-"+string(style))))
}

// AddColumns 追加一个弹性行，每列一个子块。
// 指定了宽度的列固定为该百分比且不收缩；未指定宽度的列平分剩余空间。
func (b *Builder) AddColumns(cols []Column) {
	var sb strings.Builder
	sb.WriteString(`<div class="row">`)
	for _, col := range cols {
		classes := append([]string{"col"}, textClasses(col.Size, col.Weight, col.Italic, col.Underline, col.Align)...)
		var style string
		if col.Width != nil {
			style = fmt.Sprintf("width:%d%%;flex-shrink:0", *col.Width)
		} else {
			style = "flex:1"
		}
		sb.WriteString(fmt.Sprintf(`<div class="%s" style="%s">%s</div>`,
			strings.Join(classes, " "), style, textPolicy.Sanitize(col.Text)))
	}
	sb.WriteString("</div>")
	b.append(sb.String())
}

// AddImage 追加一个对齐容器包裹的图片，宽度为容器的百分比，高度等比缩放。
func (b *Builder) AddImage(src string, width int, align Align) {
	if width < 1 || width > 100 {
		width = 100
	}
	if align == "" {
		align = AlignCenter
	}
	b.append(fmt.Sprintf(`<div%s><img src="%s" style="width:%d%%;height:auto"></div>`,
		classAttr(alignClass(align)), html.EscapeString(src), width))
}

// AddSymbol 接收符号生成器产出的矢量标记：剥掉根元素上的 width/height
// 属性，把 max-width/height 合并进 style 声明（不重复已有属性），再包进
// 对齐容器。条形码等矢量资源走这条路径。
func (b *Builder) AddSymbol(markup string, width int, align Align) error {
	if width < 1 || width > 100 {
		width = 100
	}
	if align == "" {
		align = AlignCenter
	}
	normalized, err := normalizeSymbolMarkup(markup, width)
	if err != nil {
		return fmt.Errorf("normalize symbol markup: %w", err)
	}
	b.append(fmt.Sprintf("<div%s>%s</div>", classAttr(alignClass(align)), normalized))
	return nil
}

// Build 返回完整文档。结果会被缓存：重复调用返回同一字符串，
// 闭合标签只拼接一次。
func (b *Builder) Build() string {
	if b.built {
		return b.document
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n<style>")
	sb.WriteString(receiptStylesheet)
	sb.WriteString("</style>\n</head>\n<body>\n")
	for _, fragment := range b.fragments {
		sb.WriteString(fragment)
		sb.WriteString("\n")
	}
	sb.WriteString("</body>\n</html>")

	b.document = sb.String()
	b.built = true
	return b.document
}

func alignClass(align Align) string {
	if align == "" {
		return ""
	}
	return "align-" + string(align)
}

func textClasses(size TextSize, weight TextWeight, italic, underline bool, align Align) []string {
	classes := make([]string, 0, 5)
	if size != "" {
		classes = append(classes, "size-"+string(size))
	}
	if weight != "" {
		classes = append(classes, "weight-"+string(weight))
	}
	if italic {
		classes = append(classes, "italic")
	}
	if underline {
		classes = append(classes, "underline")
	}
	if c := alignClass(align); c != "" {
		classes = append(classes, c)
	}
	return classes
}

// classAttr 把非空类名拼成 ` class="..."`；没有类时返回空串。
func classAttr(classes ...string) string {
	kept := make([]string, 0, len(classes))
	for _, c := range classes {
		if c != "" {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return fmt.Sprintf(` class="%s"`, strings.Join(kept, " "))
}
