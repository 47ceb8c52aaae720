package cpu_test

import (
	"bytes"
	"testing"

	"github.com/VladimirJanus/go68xx/cpu"
)

func TestWordOrder(t *testing.T) {
	mem := cpu.NewMemory()
	mem.StoreWord(0x1000, 0x1234)

	if got := mem.LoadByte(0x1000); got != 0x12 {
		t.Errorf("high byte incorrect. exp: $12, got: $%02X", got)
	}
	if got := mem.LoadByte(0x1001); got != 0x34 {
		t.Errorf("low byte incorrect. exp: $34, got: $%02X", got)
	}
	if got := mem.LoadWord(0x1000); got != 0x1234 {
		t.Errorf("word incorrect. exp: $1234, got: $%04X", got)
	}
}

func TestAddressWrap(t *testing.T) {
	mem := cpu.NewMemory()
	mem.StoreWord(0xffff, 0xabcd)

	if got := mem.LoadByte(0xffff); got != 0xab {
		t.Errorf("byte at $FFFF incorrect. exp: $AB, got: $%02X", got)
	}
	if got := mem.LoadByte(0x0000); got != 0xcd {
		t.Errorf("wrapped byte at $0000 incorrect. exp: $CD, got: $%02X", got)
	}

	mem.StoreBytes(0xfffe, []byte{1, 2, 3, 4})
	var b [4]byte
	mem.LoadBytes(0xfffe, b[:])
	if b != [4]byte{1, 2, 3, 4} {
		t.Errorf("wrapped block incorrect. got: %v", b)
	}
}

func TestCommitRevert(t *testing.T) {
	mem := cpu.NewMemory()
	mem.StoreByte(0x0100, 0x42)
	mem.Commit()

	mem.StoreByte(0x0100, 0x99)
	mem.StoreByte(0x0101, 0x77)
	mem.Revert()

	if got := mem.LoadByte(0x0100); got != 0x42 {
		t.Errorf("reverted byte incorrect. exp: $42, got: $%02X", got)
	}
	if got := mem.LoadByte(0x0101); got != 0x00 {
		t.Errorf("reverted byte incorrect. exp: $00, got: $%02X", got)
	}
}

func TestImageRoundTrip(t *testing.T) {
	mem := cpu.NewMemory()
	mem.StoreByte(0x0000, 0x11)
	mem.StoreByte(0xffff, 0x22)

	var buf bytes.Buffer
	if _, err := mem.WriteTo(&buf); err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	if buf.Len() != cpu.MemSize {
		t.Fatalf("image size incorrect. exp: %d, got: %d", cpu.MemSize, buf.Len())
	}

	loaded := cpu.NewMemory()
	if _, err := loaded.ReadFrom(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := loaded.LoadByte(0x0000); got != 0x11 {
		t.Errorf("loaded byte incorrect. exp: $11, got: $%02X", got)
	}
	if got := loaded.LoadByte(0xffff); got != 0x22 {
		t.Errorf("loaded byte incorrect. exp: $22, got: $%02X", got)
	}

	// Short and oversized images are rejected.
	if _, err := cpu.NewMemory().ReadFrom(bytes.NewReader(buf.Bytes()[:100])); err == nil {
		t.Error("short image should be rejected")
	}
	long := append(buf.Bytes(), 0x00)
	if _, err := cpu.NewMemory().ReadFrom(bytes.NewReader(long)); err == nil {
		t.Error("oversized image should be rejected")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	mem := cpu.NewMemory()
	mem.StoreByte(0x0200, 0x5a)

	snap := mem.Snapshot()
	if snap[0x0200] != 0x5a {
		t.Errorf("snapshot byte incorrect. exp: $5A, got: $%02X", snap[0x0200])
	}

	snap[0x0200] = 0xff
	if got := mem.LoadByte(0x0200); got != 0x5a {
		t.Error("mutating a snapshot must not touch live memory")
	}
}
