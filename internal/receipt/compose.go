package receipt

import (
	"fmt"
	"log/slog"

	"slipgen/internal/errcode"
)

// Generators 是文档合成时调用的符号生成协作方。
type Generators struct {
	// QR 把文本编码为可嵌入的图片引用（data URI）。
	QR func(text string) (string, error)
	// Barcode 把文本按指定编码格式编码为矢量标记。
	Barcode func(text string, symbology Symbology) (string, error)
}

// Warning 是一条随响应返回的非致命告警。
type Warning struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Compose 按顺序把一组描述符翻译为一个文档字符串。
//
// 唯一的软失败路径：二维码生成失败时记录日志、附加 4004 告警并跳过该项，
// 整体继续。这是对既有行为的刻意保留——不要把它默默推广到 barcode 或
// image：其余任何单项失败都会中断整个请求。
func Compose(logger *slog.Logger, items []Descriptor, gens Generators) (string, []Warning, error) {
	builder := NewBuilder()
	var warnings []Warning

	for _, item := range items {
		switch item.Kind {
		case KindHeading:
			h := item.Heading
			builder.AddHeading(h.Text, h.Level, h.Align)
		case KindText:
			t := item.Text
			builder.AddText(t.Text, t.Size, t.Weight, t.Italic, t.Underline, t.Align)
		case KindDivider:
			builder.AddDivider(item.Divider.Thickness, item.Divider.Style)
		case KindColumns:
			builder.AddColumns(item.Columns.Columns)
		case KindImage:
			img := item.Image
			builder.AddImage(img.Src, img.Width, img.Align)
		case KindQRCode:
			qr := item.QRCode
			dataURI, err := gens.QR(qr.Content)
			if err != nil {
				logger.Warn("qr generation failed, skipping item", slog.Any("error", err))
				warnings = append(warnings, Warning{
					Code:    errcode.SymbolMissing,
					Message: "二维码生成失败，已跳过该项并继续",
				})
				continue
			}
			builder.AddImage(dataURI, qr.Width, qr.Align)
		case KindBarcode:
			bc := item.Barcode
			markup, err := gens.Barcode(bc.Content, bc.Symbology)
			if err != nil {
				return "", warnings, fmt.Errorf("generate barcode: %w", err)
			}
			if err := builder.AddSymbol(markup, bc.Width, bc.Align); err != nil {
				return "", warnings, err
			}
		default:
			// Validate 保证了封闭的 kind 集合；走到这里是编程错误
			panic(fmt.Sprintf("receipt: unhandled kind %q", item.Kind))
		}
	}

	return builder.Build(), warnings, nil
}
