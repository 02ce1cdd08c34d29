package receipt

import (
	"encoding/json"
	"strings"
	"testing"
)

func decodeJSON(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("decode test payload: %v", err)
	}
	return v
}

func mustBeValid(t *testing.T, raw string) {
	t.Helper()
	if err := Validate(decodeJSON(t, raw)); err != nil {
		t.Fatalf("expected valid, got: %v", err)
	}
}

func mustFailWith(t *testing.T, raw string, wantSubstring string) {
	t.Helper()
	err := Validate(decodeJSON(t, raw))
	if err == nil {
		t.Fatalf("expected validation failure containing %q, got nil", wantSubstring)
	}
	if !strings.Contains(err.Error(), wantSubstring) {
		t.Fatalf("expected error containing %q, got: %v", wantSubstring, err)
	}
}

func TestValidateMinimalDescriptors(t *testing.T) {
	cases := map[string]string{
		"heading": `{"kind":"heading","text":"STORE"}`,
		"text":    `{"kind":"text"}`,
		"divider": `{"kind":"divider"}`,
		"columns": `{"kind":"columns","columns":[{"text":"a"}]}`,
		"image":   `{"kind":"image","src":"https://example.com/x.png"}`,
		"qrcode":  `{"kind":"qrcode","content":"hello"}`,
		"barcode": `{"kind":"barcode","content":"12345"}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			mustBeValid(t, payload)
		})
	}
}

func TestValidateMissingRequiredFieldNamesField(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		field   string
	}{
		{"heading text", `{"kind":"heading"}`, `"text"`},
		{"image src", `{"kind":"image"}`, `"src"`},
		{"qrcode content", `{"kind":"qrcode"}`, `"content"`},
		{"barcode content", `{"kind":"barcode"}`, `"content"`},
		{"columns array", `{"kind":"columns"}`, `"columns"`},
		{"empty src", `{"kind":"image","src":""}`, `"src"`},
		{"empty content", `{"kind":"qrcode","content":"  "}`, `"content"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mustFailWith(t, tc.payload, tc.field)
		})
	}
}

func TestValidateEnumMembership(t *testing.T) {
	for _, align := range []string{"left", "center", "right"} {
		mustBeValid(t, `{"kind":"heading","text":"x","align":"`+align+`"}`)
	}
	for _, size := range []string{"xs", "sm", "base", "lg", "xl"} {
		mustBeValid(t, `{"kind":"text","size":"`+size+`"}`)
	}
	for _, weight := range []string{"normal", "bolder", "lighter"} {
		mustBeValid(t, `{"kind":"text","thickness":"`+weight+`"}`)
	}
	for _, thickness := range []string{"thin", "medium", "thick"} {
		mustBeValid(t, `{"kind":"divider","thickness":"`+thickness+`"}`)
	}
	for _, style := range []string{"solid", "dashed", "dotted", "double"} {
		mustBeValid(t, `{"kind":"divider","style":"`+style+`"}`)
	}
	for _, symbology := range []string{"CODE128", "CODE39", "EAN13", "EAN8", "CODABAR", "ITF"} {
		mustBeValid(t, `{"kind":"barcode","content":"x","symbology":"`+symbology+`"}`)
	}
}

func TestValidateEnumRejectionListsAllowedSet(t *testing.T) {
	mustFailWith(t, `{"kind":"heading","text":"x","align":"justify"}`, "left, center, right")
	mustFailWith(t, `{"kind":"text","size":"huge"}`, "xs, sm, base, lg, xl")
	mustFailWith(t, `{"kind":"text","thickness":"bold"}`, "normal, bolder, lighter")
	mustFailWith(t, `{"kind":"divider","style":"wavy"}`, "solid, dashed, dotted, double")
	mustFailWith(t, `{"kind":"barcode","content":"x","symbology":"UPC"}`, "CODE128, CODE39, EAN13, EAN8, CODABAR, ITF")
}

func TestValidateRangeChecks(t *testing.T) {
	mustBeValid(t, `{"kind":"heading","text":"x","level":6}`)
	mustFailWith(t, `{"kind":"heading","text":"x","level":0}`, "between 1 and 6")
	mustFailWith(t, `{"kind":"heading","text":"x","level":7}`, "between 1 and 6")
	mustFailWith(t, `{"kind":"image","src":"https://a/b","width":0}`, "between 1 and 100")
	mustFailWith(t, `{"kind":"image","src":"https://a/b","width":101}`, "between 1 and 100")
	mustFailWith(t, `{"kind":"qrcode","content":"x","width":2.5}`, "integer")
}

func TestValidateTypeChecks(t *testing.T) {
	mustFailWith(t, `{"kind":"text","text":42}`, `"text"`)
	mustFailWith(t, `{"kind":"text","italic":"yes"}`, "boolean")
	mustFailWith(t, `{"kind":"text","underline":1}`, "boolean")
	mustFailWith(t, `{"kind":"image","src":"https://a/b","width":"50"}`, "number")
	mustFailWith(t, `{"kind":"heading","text":42}`, "string")
}

func TestValidateSrcPrefix(t *testing.T) {
	mustBeValid(t, `{"kind":"image","src":"http://example.com/a.png"}`)
	mustBeValid(t, `{"kind":"image","src":"data:image/png;base64,AAAA"}`)
	mustFailWith(t, `{"kind":"image","src":"not-a-url"}`, `"src"`)
	mustFailWith(t, `{"kind":"image","src":"ftp://example.com/a.png"}`, "http://, https://, or data:")
}

func TestValidateUnknownKind(t *testing.T) {
	mustFailWith(t, `{"kind":"sparkle"}`, "unknown kind")
	mustFailWith(t, `{"kind":"sparkle"}`, "heading")
}

func TestValidateStructuralErrors(t *testing.T) {
	mustFailWith(t, `42`, "JSON object")
	mustFailWith(t, `"divider"`, "JSON object")
	mustFailWith(t, `{"text":"no discriminator"}`, `"kind"`)
	mustFailWith(t, `{"kind":7}`, `"kind"`)
}

func TestValidateTypeAliasAccepted(t *testing.T) {
	mustBeValid(t, `{"type":"divider"}`)
	mustBeValid(t, `{"type":"qrcode","content":"x"}`)
}

func TestValidateExtraFieldsIgnored(t *testing.T) {
	mustBeValid(t, `{"kind":"divider","unexpected":true,"legacy_field":"x"}`)
}

func TestValidateColumns(t *testing.T) {
	mustFailWith(t, `{"kind":"columns","columns":[]}`, "must not be empty")
	mustFailWith(t, `{"kind":"columns","columns":"nope"}`, "array")
	mustBeValid(t, `{"kind":"columns","columns":[{"text":"a","width":30},{"text":"b"},{"text":"c"}]}`)
	mustFailWith(t, `{"kind":"columns","columns":[{"text":"a"},{"text":"b","width":500}]}`, "column 2")
	mustFailWith(t, `{"kind":"columns","columns":[{"text":"a"},{"text":"b","align":"justify"}]}`, "column 2")
	mustFailWith(t, `{"kind":"columns","columns":[{"text":"a"},"b"]}`, "column 2")
}

func TestValidateBatchIndexesFailures(t *testing.T) {
	items := decodeJSON(t, `[{"kind":"divider"},{"kind":"image","src":"not-a-url"}]`).([]any)
	err := ValidateBatch(items)
	if err == nil {
		t.Fatalf("expected batch failure")
	}
	if !strings.Contains(err.Error(), "item 2:") {
		t.Fatalf("expected 1-based item index, got: %v", err)
	}
	if !strings.Contains(err.Error(), `"src"`) {
		t.Fatalf("expected field name in message, got: %v", err)
	}

	valid := decodeJSON(t, `[{"kind":"divider"},{"kind":"text","text":"ok"}]`).([]any)
	if err := ValidateBatch(valid); err != nil {
		t.Fatalf("expected valid batch, got: %v", err)
	}
}
