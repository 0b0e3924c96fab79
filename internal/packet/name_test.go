package packet

import "testing"

func TestEncodeName_AppendsTrailingDot(t *testing.T) {
	got, err := encodeName("example.com")
	if err != nil {
		t.Fatalf("encodeName error: %v", err)
	}
	want, err := encodeName("example.com.")
	if err != nil {
		t.Fatalf("encodeName error: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("encodeName(%q) = %v, want %v (trailing-dot form)", "example.com", got, want)
	}
}

func TestEncodeName_Root(t *testing.T) {
	got, err := encodeName(".")
	if err != nil {
		t.Fatalf("encodeName error: %v", err)
	}
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("encodeName(\".\") = %v, want [0]", got)
	}
}

func TestEncodeName_EmptyLabelRejected(t *testing.T) {
	if _, err := encodeName("a..b."); err != ErrEmptyLabel {
		t.Errorf("error = %v, want ErrEmptyLabel", err)
	}
}

func TestEncodeName_LabelTooLong(t *testing.T) {
	long := make([]byte, 64)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := encodeName(string(long) + ".com."); err != ErrLabelTooLong {
		t.Errorf("error = %v, want ErrLabelTooLong", err)
	}
}

func TestDecodeName_RoundTrip(t *testing.T) {
	encoded, err := encodeName("a.b.")
	if err != nil {
		t.Fatalf("encodeName error: %v", err)
	}
	name, next, err := decodeName(encoded, 0)
	if err != nil {
		t.Fatalf("decodeName error: %v", err)
	}
	if name != "a.b." {
		t.Errorf("name = %q, want %q", name, "a.b.")
	}
	if next != len(encoded) {
		t.Errorf("next = %d, want %d", next, len(encoded))
	}
}

func TestDecodeName_Compression(t *testing.T) {
	// "example.com" at offset 12, then a pointer back to it at offset 25.
	msg := make([]byte, 12)
	msg = append(msg, 7)
	msg = append(msg, "example"...)
	msg = append(msg, 3)
	msg = append(msg, "com"...)
	msg = append(msg, 0)
	pointerOffset := len(msg)
	msg = append(msg, 0xC0, 0x0C) // pointer to offset 12

	name, next, err := decodeName(msg, pointerOffset)
	if err != nil {
		t.Fatalf("decodeName error: %v", err)
	}
	if name != "example.com." {
		t.Errorf("name = %q, want %q", name, "example.com.")
	}
	if next != pointerOffset+2 {
		t.Errorf("next = %d, want %d", next, pointerOffset+2)
	}
}

func TestDecodeName_SelfPointerIsCycle(t *testing.T) {
	// The label at offset 12 is itself a pointer back to offset 12.
	msg := make([]byte, 12)
	msg = append(msg, 0xC0, 0x0C)

	_, _, err := decodeName(msg, 12)
	if err != ErrCompressionLoop {
		t.Errorf("error = %v, want ErrCompressionLoop", err)
	}
}

func TestDecodeName_ForwardPointerRejected(t *testing.T) {
	msg := make([]byte, 12)
	msg = append(msg, 0xC0, 0x10) // points forward, past current offset
	msg = append(msg, 0, 0, 0, 0)

	_, _, err := decodeName(msg, 12)
	if err != ErrCompressionLoop {
		t.Errorf("error = %v, want ErrCompressionLoop", err)
	}
}

func TestDecodeName_TruncatedMessage(t *testing.T) {
	msg := []byte{7, 'e', 'x'} // label claims 7 bytes, only 2 present
	_, _, err := decodeName(msg, 0)
	if err != ErrMessageTooShort {
		t.Errorf("error = %v, want ErrMessageTooShort", err)
	}
}
