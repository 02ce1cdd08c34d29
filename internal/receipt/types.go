package receipt

import (
	"encoding/json"
	"fmt"
)

// Kind 是组件的判别标签，选择七种受支持的元素类型之一。
type Kind string

const (
	KindHeading Kind = "heading"
	KindText    Kind = "text"
	KindDivider Kind = "divider"
	KindColumns Kind = "columns"
	KindImage   Kind = "image"
	KindQRCode  Kind = "qrcode"
	KindBarcode Kind = "barcode"
)

// Kinds lists every recognized kind in a stable order.
var Kinds = []Kind{
	KindHeading,
	KindText,
	KindDivider,
	KindColumns,
	KindImage,
	KindQRCode,
	KindBarcode,
}

// Align controls horizontal placement of a fragment's content.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// TextSize is a named font size step.
type TextSize string

const (
	SizeXS   TextSize = "xs"
	SizeSM   TextSize = "sm"
	SizeBase TextSize = "base"
	SizeLG   TextSize = "lg"
	SizeXL   TextSize = "xl"
)

// TextWeight is the stroke thickness of text.
type TextWeight string

const (
	WeightNormal  TextWeight = "normal"
	WeightBolder  TextWeight = "bolder"
	WeightLighter TextWeight = "lighter"
)

// DividerThickness maps to the rule's border width.
type DividerThickness string

const (
	DividerThin   DividerThickness = "thin"
	DividerMedium DividerThickness = "medium"
	DividerThick  DividerThickness = "thick"
)

// DividerStyle maps to the rule's border style.
type DividerStyle string

const (
	DividerSolid  DividerStyle = "solid"
	DividerDashed DividerStyle = "dashed"
	DividerDotted DividerStyle = "dotted"
	DividerDouble DividerStyle = "double"
)

// Symbology 是条形码编码格式。
type Symbology string

const (
	SymbologyCode128 Symbology = "CODE128"
	SymbologyCode39  Symbology = "CODE39"
	SymbologyEAN13   Symbology = "EAN13"
	SymbologyEAN8    Symbology = "EAN8"
	SymbologyCodabar Symbology = "CODABAR"
	SymbologyITF     Symbology = "ITF"
)

// Heading 是一个语义标题元素。
type Heading struct {
	Text  string `json:"text"`
	Level int    `json:"level,omitempty"`
	Align Align  `json:"align,omitempty"`
}

// Text 是一个自由段落。所有样式字段都是可选的；零值表示不附加样式。
type Text struct {
	Text      string     `json:"text"`
	Size      TextSize   `json:"size,omitempty"`
	Weight    TextWeight `json:"thickness,omitempty"`
	Italic    bool       `json:"italic,omitempty"`
	Underline bool       `json:"underline,omitempty"`
	Align     Align      `json:"align,omitempty"`
}

// Divider 是一条水平分隔线。
type Divider struct {
	Thickness DividerThickness `json:"thickness,omitempty"`
	Style     DividerStyle     `json:"style,omitempty"`
}

// Column 是多列行中的一列：文本样式加可选的百分比宽度。
// Width 为 nil 表示该列与其他无宽度列平分剩余空间。
type Column struct {
	Text      string     `json:"text"`
	Size      TextSize   `json:"size,omitempty"`
	Weight    TextWeight `json:"thickness,omitempty"`
	Italic    bool       `json:"italic,omitempty"`
	Underline bool       `json:"underline,omitempty"`
	Align     Align      `json:"align,omitempty"`
	Width     *int       `json:"width,omitempty"`
}

// Columns 是一个弹性行，至少包含一列。
type Columns struct {
	Columns []Column `json:"columns"`
}

// Image 是一张栅格图片，宽度为容器宽度的百分比。
type Image struct {
	Src   string `json:"src"`
	Width int    `json:"width,omitempty"`
	Align Align  `json:"align,omitempty"`
}

// QRCode 携带要编码为二维码的文本。
type QRCode struct {
	Content string `json:"content"`
	Width   int    `json:"width,omitempty"`
	Align   Align  `json:"align,omitempty"`
}

// Barcode 携带要编码为条形码的文本及其编码格式。
type Barcode struct {
	Content   string    `json:"content"`
	Symbology Symbology `json:"symbology,omitempty"`
	Width     int       `json:"width,omitempty"`
	Align     Align     `json:"align,omitempty"`
}

// Descriptor 是一个封闭的带标签联合：Kind 决定哪个载荷指针非 nil。
// 序列化为带 "kind" 判别字段的扁平 JSON 对象；该格式同时是导出格式
// 与批量请求的输入格式（round-trip）。
type Descriptor struct {
	Kind    Kind
	Heading *Heading
	Text    *Text
	Divider *Divider
	Columns *Columns
	Image   *Image
	QRCode  *QRCode
	Barcode *Barcode
}

// MarshalJSON 以稳定字段名输出扁平对象，保证导出结果可直接作为批量输入。
func (d Descriptor) MarshalJSON() ([]byte, error) {
	var payload any
	switch d.Kind {
	case KindHeading:
		payload = d.Heading
	case KindText:
		payload = d.Text
	case KindDivider:
		payload = d.Divider
	case KindColumns:
		payload = d.Columns
	case KindImage:
		payload = d.Image
	case KindQRCode:
		payload = d.QRCode
	case KindBarcode:
		payload = d.Barcode
	default:
		return nil, fmt.Errorf("marshal descriptor: unknown kind %q", d.Kind)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	flat := map[string]any{}
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, err
	}
	flat["kind"] = string(d.Kind)
	return json.Marshal(flat)
}

// UnmarshalJSON 先校验再解码；非法输入返回 *ValidationError。
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := Validate(raw); err != nil {
		return err
	}
	decoded, err := Decode(raw.(map[string]any))
	if err != nil {
		return err
	}
	*d = decoded
	return nil
}

// discriminator 读取 "kind" 字段；历史格式使用 "type"，作为输入别名接受。
func discriminator(obj map[string]any) (string, bool) {
	if v, ok := obj["kind"]; ok {
		s, ok := v.(string)
		return s, ok
	}
	if v, ok := obj["type"]; ok {
		s, ok := v.(string)
		return s, ok
	}
	return "", false
}

// Decode 将一个已通过 Validate 的原始对象转换为类型化 Descriptor 并填充默认值。
// 调用方必须先校验；Decode 不重复做合法性检查。
func Decode(obj map[string]any) (Descriptor, error) {
	kindRaw, ok := discriminator(obj)
	if !ok {
		return Descriptor{}, fmt.Errorf("decode descriptor: missing kind")
	}

	switch Kind(kindRaw) {
	case KindHeading:
		h := &Heading{
			Text:  stringField(obj, "text"),
			Level: intFieldDefault(obj, "level", 1),
			Align: Align(stringField(obj, "align")),
		}
		return Descriptor{Kind: KindHeading, Heading: h}, nil
	case KindText:
		t := &Text{
			Text:      stringField(obj, "text"),
			Size:      TextSize(stringField(obj, "size")),
			Weight:    TextWeight(stringField(obj, "thickness")),
			Italic:    boolField(obj, "italic"),
			Underline: boolField(obj, "underline"),
			Align:     Align(stringField(obj, "align")),
		}
		return Descriptor{Kind: KindText, Text: t}, nil
	case KindDivider:
		div := &Divider{
			Thickness: DividerThickness(stringFieldDefault(obj, "thickness", string(DividerThin))),
			Style:     DividerStyle(stringFieldDefault(obj, "style", string(DividerSolid))),
		}
		return Descriptor{Kind: KindDivider, Divider: div}, nil
	case KindColumns:
		items, _ := obj["columns"].([]any)
		cols := make([]Column, 0, len(items))
		for _, item := range items {
			colObj, _ := item.(map[string]any)
			col := Column{
				Text:      stringField(colObj, "text"),
				Size:      TextSize(stringField(colObj, "size")),
				Weight:    TextWeight(stringField(colObj, "thickness")),
				Italic:    boolField(colObj, "italic"),
				Underline: boolField(colObj, "underline"),
				Align:     Align(stringField(colObj, "align")),
			}
			if w, ok := intField(colObj, "width"); ok {
				col.Width = &w
			}
			cols = append(cols, col)
		}
		return Descriptor{Kind: KindColumns, Columns: &Columns{Columns: cols}}, nil
	case KindImage:
		img := &Image{
			Src:   stringField(obj, "src"),
			Width: intFieldDefault(obj, "width", 100),
			Align: Align(stringFieldDefault(obj, "align", string(AlignCenter))),
		}
		return Descriptor{Kind: KindImage, Image: img}, nil
	case KindQRCode:
		qr := &QRCode{
			Content: stringField(obj, "content"),
			Width:   intFieldDefault(obj, "width", 100),
			Align:   Align(stringFieldDefault(obj, "align", string(AlignCenter))),
		}
		return Descriptor{Kind: KindQRCode, QRCode: qr}, nil
	case KindBarcode:
		bc := &Barcode{
			Content:   stringField(obj, "content"),
			Symbology: Symbology(stringFieldDefault(obj, "symbology", string(SymbologyCode128))),
			Width:     intFieldDefault(obj, "width", 100),
			Align:     Align(stringFieldDefault(obj, "align", string(AlignCenter))),
		}
		return Descriptor{Kind: KindBarcode, Barcode: bc}, nil
	default:
		return Descriptor{}, fmt.Errorf("decode descriptor: unknown kind %q", kindRaw)
	}
}

// DecodeBatch 按序解码一组已校验的原始对象。
func DecodeBatch(items []any) ([]Descriptor, error) {
	descriptors := make([]Descriptor, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("decode batch: item %d is not an object", i+1)
		}
		d, err := Decode(obj)
		if err != nil {
			return nil, fmt.Errorf("decode batch: item %d: %w", i+1, err)
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}

func stringField(obj map[string]any, field string) string {
	if v, ok := obj[field]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func stringFieldDefault(obj map[string]any, field, fallback string) string {
	if s := stringField(obj, field); s != "" {
		return s
	}
	return fallback
}

func boolField(obj map[string]any, field string) bool {
	if v, ok := obj[field]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// intField 读取经 encoding/json 解码后的数字字段（float64）。
func intField(obj map[string]any, field string) (int, bool) {
	if v, ok := obj[field]; ok {
		if f, ok := v.(float64); ok {
			return int(f), true
		}
	}
	return 0, false
}

func intFieldDefault(obj map[string]any, field string, fallback int) int {
	if n, ok := intField(obj, field); ok {
		return n
	}
	return fallback
}
