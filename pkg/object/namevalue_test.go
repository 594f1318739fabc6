package object

import "testing"

func TestParseNameValuesSkipsEmptyLines(t *testing.T) {
	blob := "AvatarName STRING RW SV Bob\n\nScore F32 RW S 12.5\n"
	nvs := ParseNameValues(blob)
	if len(nvs) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(nvs), nvs)
	}
	if nvs[0].Name != "AvatarName" || nvs[0].Type != NameValueTypeString || nvs[0].Value != "Bob" {
		t.Fatalf("unexpected first record: %+v", nvs[0])
	}
	f, err := nvs[1].AsF32()
	if err != nil || f != 12.5 {
		t.Fatalf("expected Score=12.5, got %v err=%v", f, err)
	}
}

func TestParseNameValuesMalformedLineDropped(t *testing.T) {
	blob := "TooFewFields STRING\nGood STRING RW S hi\n"
	nvs := ParseNameValues(blob)
	if len(nvs) != 1 || nvs[0].Name != "Good" {
		t.Fatalf("expected malformed line dropped, got %+v", nvs)
	}
}

func TestNameValueStringRoundTrip(t *testing.T) {
	nv := NameValue{Name: "AvatarName", Type: NameValueTypeString, Class: "RW", SendTo: "SV", Value: "Bob"}
	parsed, ok := parseNameValueLine(nv.String())
	if !ok {
		t.Fatal("expected line to reparse")
	}
	if parsed != nv {
		t.Fatalf("round trip mismatch: got %+v want %+v", parsed, nv)
	}
}
