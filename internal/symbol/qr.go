package symbol

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// qrSizePx 是生成的二维码 PNG 边长；文档中再按百分比缩放。
const qrSizePx = 256

// QR 把文本编码为二维码，返回自包含的 PNG data URI。
// 失败（例如内容超出纠错等级容量）由调用方决定如何处置。
func QR(text string) (string, error) {
	png, err := qrcode.Encode(text, qrcode.Medium, qrSizePx)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
