package random

import "testing"

func TestTransactionID_Distribution(t *testing.T) {
	seen := make(map[uint16]bool)
	const iterations = 10000

	for i := 0; i < iterations; i++ {
		seen[TransactionID()] = true
	}

	uniqueCount := len(seen)
	if uniqueCount < iterations*9/10 {
		t.Errorf("too many collisions: got %d unique IDs from %d iterations", uniqueCount, iterations)
	}
}

func TestValidateResponse(t *testing.T) {
	if !ValidateResponse(0x1234, 0x1234) {
		t.Error("should validate matching txid")
	}
	if ValidateResponse(0x1234, 0x5678) {
		t.Error("should reject mismatched txid")
	}
}

func BenchmarkTransactionID(b *testing.B) {
	for i := 0; i < b.N; i++ {
		TransactionID()
	}
}
