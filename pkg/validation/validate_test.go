package validation

import (
	"strings"
	"testing"
)

func record(overrides map[string]interface{}) map[string]interface{} {
	root := map[string]interface{}{
		"uuid":       "m-1",
		"senderUuid": "u-1",
		"content":    "hello",
		"sentAt":     "2020-01-01T00:00:00Z",
	}
	for k, v := range overrides {
		if v == nil {
			delete(root, k)
		} else {
			root[k] = v
		}
	}
	return root
}

func TestValidateRecordDefaults(t *testing.T) {
	SetRules(DefaultRules())
	if err := ValidateRecord(record(nil)); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	cases := []struct {
		name      string
		overrides map[string]interface{}
		wantIn    string
	}{
		{"missing uuid", map[string]interface{}{"uuid": nil}, "required path missing: uuid"},
		{"missing sender", map[string]interface{}{"senderUuid": nil}, "required path missing: senderUuid"},
		{"missing content", map[string]interface{}{"content": nil}, "required path missing: content"},
		{"missing sentAt", map[string]interface{}{"sentAt": nil}, "required path missing: sentAt"},
		{"numeric sentAt", map[string]interface{}{"sentAt": float64(1432302910)}, "type mismatch at sentAt"},
		{"object content", map[string]interface{}{"content": map[string]interface{}{"text": "hi"}}, "type mismatch at content"},
	}
	for _, c := range cases {
		err := ValidateRecord(record(c.overrides))
		if err == nil {
			t.Fatalf("%s: accepted", c.name)
		}
		if !strings.Contains(err.Error(), c.wantIn) {
			t.Fatalf("%s: error %q missing %q", c.name, err, c.wantIn)
		}
	}
}

func TestValidateRecordCustomRules(t *testing.T) {
	r := DefaultRules()
	r.MaxLen["content"] = 5
	r.Enums["senderUuid"] = []string{"u-1", "u-2"}
	SetRules(r)
	defer SetRules(DefaultRules())

	if err := ValidateRecord(record(map[string]interface{}{"content": "toolongcontent"})); err == nil {
		t.Fatalf("max length not enforced")
	}
	if err := ValidateRecord(record(map[string]interface{}{"senderUuid": "u-9"})); err == nil {
		t.Fatalf("enum not enforced")
	}
	if err := ValidateRecord(record(map[string]interface{}{"content": "ok"})); err != nil {
		t.Fatalf("valid record rejected under custom rules: %v", err)
	}
}
