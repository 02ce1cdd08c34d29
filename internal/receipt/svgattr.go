package receipt

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// normalizeSymbolMarkup 重写矢量标记根元素上的属性：
// 丢弃字面的 width/height，把 max-width:{width}%;height:auto 合并进 style。
// 属性被解析成键值对后再序列化，避免对原始文本做正则拼接。
func normalizeSymbolMarkup(markup string, widthPct int) (string, error) {
	tokenizer := html.NewTokenizer(strings.NewReader(markup))
	consumed := 0

	for {
		tokenType := tokenizer.Next()
		raw := tokenizer.Raw()

		switch tokenType {
		case html.ErrorToken:
			return "", fmt.Errorf("symbol markup has no root element")
		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()

			kept := make([]html.Attribute, 0, len(token.Attr)+1)
			existingStyle := ""
			for _, attr := range token.Attr {
				switch strings.ToLower(attr.Key) {
				case "width", "height":
					// 根元素的固定尺寸会和百分比约束打架，直接丢弃
				case "style":
					existingStyle = attr.Val
				default:
					kept = append(kept, attr)
				}
			}
			kept = append(kept, html.Attribute{
				Key: "style",
				Val: mergeStyleDeclarations(existingStyle, widthPct),
			})

			var sb strings.Builder
			sb.WriteString(markup[:consumed])
			sb.WriteByte('<')
			sb.WriteString(token.Data)
			for _, attr := range kept {
				fmt.Fprintf(&sb, ` %s="%s"`, attr.Key, html.EscapeString(attr.Val))
			}
			if tokenType == html.SelfClosingTagToken {
				sb.WriteString("/>")
			} else {
				sb.WriteByte('>')
			}
			sb.WriteString(markup[consumed+len(raw):])
			return sb.String(), nil
		default:
			consumed += len(raw)
		}
	}
}

// mergeStyleDeclarations 把已有 style 内容解析为有序键值对，
// 覆盖或追加 max-width/height 后重新序列化，保证同名属性只出现一次。
func mergeStyleDeclarations(existing string, widthPct int) string {
	type declaration struct {
		property string
		value    string
	}

	decls := make([]declaration, 0, 4)
	index := make(map[string]int)

	for _, part := range strings.Split(existing, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		colon := strings.Index(part, ":")
		if colon < 0 {
			continue
		}
		property := strings.ToLower(strings.TrimSpace(part[:colon]))
		value := strings.TrimSpace(part[colon+1:])
		if property == "" {
			continue
		}
		if at, ok := index[property]; ok {
			decls[at].value = value
			continue
		}
		index[property] = len(decls)
		decls = append(decls, declaration{property: property, value: value})
	}

	set := func(property, value string) {
		if at, ok := index[property]; ok {
			decls[at].value = value
			return
		}
		index[property] = len(decls)
		decls = append(decls, declaration{property: property, value: value})
	}
	set("max-width", fmt.Sprintf("%d%%", widthPct))
	set("height", "auto")

	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.property+":"+d.value)
	}
	return strings.Join(parts, ";")
}
