package receipt

import (
	"fmt"
	"strings"
)

// ValidationError 携带面向用户的、指明具体字段的拒绝原因。
// 它会原样透传给调用方（例如表单 UI 的行内提示）。
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalidf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

var (
	alignValues     = []string{string(AlignLeft), string(AlignCenter), string(AlignRight)}
	sizeValues      = []string{string(SizeXS), string(SizeSM), string(SizeBase), string(SizeLG), string(SizeXL)}
	weightValues    = []string{string(WeightNormal), string(WeightBolder), string(WeightLighter)}
	thicknessValues = []string{string(DividerThin), string(DividerMedium), string(DividerThick)}
	styleValues     = []string{string(DividerSolid), string(DividerDashed), string(DividerDotted), string(DividerDouble)}
	symbologyValues = []string{
		string(SymbologyCode128), string(SymbologyCode39), string(SymbologyEAN13),
		string(SymbologyEAN8), string(SymbologyCodabar), string(SymbologyITF),
	}
)

func kindList() string {
	names := make([]string, 0, len(Kinds))
	for _, k := range Kinds {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

// Validate 检查一个未类型化的值是否是合法的组件描述符。
// 纯函数：不修改输入，也不产生副作用。校验顺序固定为
// 结构检查 → kind 分发 → 必填 → 类型 → 枚举/范围，遇到第一个错误即停止。
// 未知的多余字段一律忽略。
func Validate(raw any) error {
	obj, ok := raw.(map[string]any)
	if !ok {
		return invalidf("payload must be a JSON object")
	}

	kindRaw, ok := discriminator(obj)
	if !ok {
		return invalidf("payload is missing a string \"kind\" field")
	}

	switch Kind(kindRaw) {
	case KindHeading:
		return validateHeading(obj)
	case KindText:
		return validateTextFields(obj, "")
	case KindDivider:
		return validateDivider(obj)
	case KindColumns:
		return validateColumns(obj)
	case KindImage:
		return validateImage(obj)
	case KindQRCode:
		return validateQRCode(obj)
	case KindBarcode:
		return validateBarcode(obj)
	default:
		return invalidf("unknown kind %q: must be one of %s", kindRaw, kindList())
	}
}

// ValidateBatch 逐项校验，遇到第一个非法项即失败，并在原因前加上 1 起始的序号。
func ValidateBatch(items []any) error {
	for i, item := range items {
		if err := Validate(item); err != nil {
			return invalidf("item %d: %s", i+1, err.Error())
		}
	}
	return nil
}

func validateHeading(obj map[string]any) error {
	if err := requireNonEmptyString(obj, "text"); err != nil {
		return err
	}
	if err := optionalIntRange(obj, "level", 1, 6); err != nil {
		return err
	}
	return optionalEnum(obj, "align", alignValues)
}

// validateTextFields 校验 text 类载荷的全部样式字段。
// prefix 用于 columns 场景，为错误信息加上列序号。
func validateTextFields(obj map[string]any, prefix string) error {
	if err := optionalString(obj, "text"); err != nil {
		return prefixed(prefix, err)
	}
	if err := optionalEnum(obj, "size", sizeValues); err != nil {
		return prefixed(prefix, err)
	}
	if err := optionalEnum(obj, "thickness", weightValues); err != nil {
		return prefixed(prefix, err)
	}
	if err := optionalBool(obj, "italic"); err != nil {
		return prefixed(prefix, err)
	}
	if err := optionalBool(obj, "underline"); err != nil {
		return prefixed(prefix, err)
	}
	if err := optionalEnum(obj, "align", alignValues); err != nil {
		return prefixed(prefix, err)
	}
	return nil
}

func validateDivider(obj map[string]any) error {
	if err := optionalEnum(obj, "thickness", thicknessValues); err != nil {
		return err
	}
	return optionalEnum(obj, "style", styleValues)
}

func validateColumns(obj map[string]any) error {
	raw, ok := obj["columns"]
	if !ok || raw == nil {
		return invalidf("field \"columns\" is required")
	}
	items, ok := raw.([]any)
	if !ok {
		return invalidf("field \"columns\" must be an array")
	}
	if len(items) == 0 {
		return invalidf("field \"columns\" must not be empty")
	}

	for i, item := range items {
		colObj, ok := item.(map[string]any)
		if !ok {
			return invalidf("column %d: must be a JSON object", i+1)
		}
		prefix := fmt.Sprintf("column %d: ", i+1)
		if err := validateTextFields(colObj, prefix); err != nil {
			return err
		}
		if err := optionalIntRange(colObj, "width", 1, 100); err != nil {
			return prefixed(prefix, err)
		}
	}
	return nil
}

func validateImage(obj map[string]any) error {
	if err := requireNonEmptyString(obj, "src"); err != nil {
		return err
	}
	src := stringField(obj, "src")
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") && !strings.HasPrefix(src, "data:") {
		return invalidf("field \"src\" must begin with http://, https://, or data:")
	}
	if err := optionalIntRange(obj, "width", 1, 100); err != nil {
		return err
	}
	return optionalEnum(obj, "align", alignValues)
}

func validateQRCode(obj map[string]any) error {
	if err := requireNonEmptyString(obj, "content"); err != nil {
		return err
	}
	if err := optionalIntRange(obj, "width", 1, 100); err != nil {
		return err
	}
	return optionalEnum(obj, "align", alignValues)
}

func validateBarcode(obj map[string]any) error {
	if err := requireNonEmptyString(obj, "content"); err != nil {
		return err
	}
	if err := optionalEnum(obj, "symbology", symbologyValues); err != nil {
		return err
	}
	if err := optionalIntRange(obj, "width", 1, 100); err != nil {
		return err
	}
	return optionalEnum(obj, "align", alignValues)
}

func prefixed(prefix string, err error) error {
	if err == nil || prefix == "" {
		return err
	}
	return invalidf("%s%s", prefix, err.Error())
}

func requireNonEmptyString(obj map[string]any, field string) error {
	v, ok := obj[field]
	if !ok || v == nil {
		return invalidf("field %q is required", field)
	}
	s, ok := v.(string)
	if !ok {
		return invalidf("field %q must be a string", field)
	}
	if strings.TrimSpace(s) == "" {
		return invalidf("field %q must not be empty", field)
	}
	return nil
}

func optionalString(obj map[string]any, field string) error {
	v, ok := obj[field]
	if !ok || v == nil {
		return nil
	}
	if _, ok := v.(string); !ok {
		return invalidf("field %q must be a string", field)
	}
	return nil
}

func optionalBool(obj map[string]any, field string) error {
	v, ok := obj[field]
	if !ok || v == nil {
		return nil
	}
	if _, ok := v.(bool); !ok {
		return invalidf("field %q must be a boolean", field)
	}
	return nil
}

func optionalIntRange(obj map[string]any, field string, min, max int) error {
	v, ok := obj[field]
	if !ok || v == nil {
		return nil
	}
	f, ok := v.(float64)
	if !ok {
		return invalidf("field %q must be a number", field)
	}
	if f != float64(int(f)) {
		return invalidf("field %q must be an integer", field)
	}
	n := int(f)
	if n < min || n > max {
		return invalidf("field %q must be between %d and %d", field, min, max)
	}
	return nil
}

func optionalEnum(obj map[string]any, field string, allowed []string) error {
	v, ok := obj[field]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return invalidf("field %q must be a string", field)
	}
	for _, a := range allowed {
		if s == a {
			return nil
		}
	}
	return invalidf("field %q must be one of %s", field, strings.Join(allowed, ", "))
}
