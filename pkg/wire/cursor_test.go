package wire

import "testing"

func TestReaderPrimitives(t *testing.T) {
	w := NewWriter(0)
	w.PutU8(0xAB)
	w.PutU16(0x1234)
	w.PutU32(0xDEADBEEF)
	w.PutF32(3.5)
	w.PutCString("hello")

	r := NewReader(w.Bytes())
	if v, err := r.U8("u8"); err != nil || v != 0xAB {
		t.Fatalf("U8: %v %v", v, err)
	}
	if v, err := r.U16("u16"); err != nil || v != 0x1234 {
		t.Fatalf("U16: %v %v", v, err)
	}
	if v, err := r.U32("u32"); err != nil || v != 0xDEADBEEF {
		t.Fatalf("U32: %v %v", v, err)
	}
	if v, err := r.F32("f32"); err != nil || v != 3.5 {
		t.Fatalf("F32: %v %v", v, err)
	}
	if s, err := r.CString("cstr"); err != nil || s != "hello" {
		t.Fatalf("CString: %q %v", s, err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("expected buffer exhausted, %d bytes remain", r.Remaining())
	}
}

func TestReaderRejectsShortBuffer(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})
	if _, err := r.U32("u32"); err == nil {
		t.Fatal("expected CursorError for short buffer")
	}
}

func TestReaderCStringRequiresTerminator(t *testing.T) {
	r := NewReader([]byte("no terminator"))
	if _, err := r.CString("cstr"); err == nil {
		t.Fatal("expected error for missing terminator")
	}
}

func TestAssetIdString(t *testing.T) {
	id := AssetId{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef, 0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef}
	want := "01234567-89ab-cdef-0123-456789abcdef"
	if got := id.String(); got != want {
		t.Fatalf("AssetId.String() = %q, want %q", got, want)
	}
}
