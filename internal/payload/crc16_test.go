package payload

import "testing"

func TestCRC16_Deterministic(t *testing.T) {
	data := make([]byte, 89)
	for i := range data {
		data[i] = byte(i * 7)
	}
	if a, b := CRC16(data), CRC16(data); a != b {
		t.Fatalf("CRC16 not deterministic: %d != %d", a, b)
	}
}

func TestCRC16_SensitiveToSingleBitFlip(t *testing.T) {
	data := make([]byte, 89)
	base := CRC16(data)
	data[0] ^= 0x01
	if flipped := CRC16(data); flipped == base {
		t.Error("expected CRC16 to change after flipping one bit")
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	frame := make([]byte, 91)
	for i := 0; i < 89; i++ {
		frame[i] = byte(i * 3)
	}
	crc := CRC16(frame[0:89])
	frame[89] = byte(crc)
	frame[90] = byte(crc >> 8)

	if !Verify(frame) {
		t.Error("Verify should accept a correctly-computed CRC")
	}

	frame[89] ^= 0xFF
	if Verify(frame) {
		t.Error("Verify should reject a corrupted CRC")
	}
}

func TestVerify_ShortFrameFails(t *testing.T) {
	if Verify(make([]byte, 10)) {
		t.Error("Verify should reject a frame shorter than 91 bytes")
	}
}
