package vm

import "testing"

func TestDivSignedOverflow(t *testing.T) {
	// INT32_MIN / -1 -> INT32_MIN
	got := divSigned(-2147483648, -1)
	if int32(got) != -2147483648 {
		t.Fatalf("div overflow: got %d, want INT32_MIN", int32(got))
	}
}

func TestRemSignedOverflow(t *testing.T) {
	got := remSigned(-2147483648, -1)
	if got != 0 {
		t.Fatalf("rem overflow: got %d, want 0", got)
	}
}

func TestDivSignedByZero(t *testing.T) {
	if got := divSigned(5, 0); got != 0xFFFFFFFF {
		t.Fatalf("div by zero: got 0x%x, want 0xFFFFFFFF", got)
	}
}

func TestRemSignedByZero(t *testing.T) {
	if got := remSigned(5, 0); got != 5 {
		t.Fatalf("rem by zero: got %d, want 5", got)
	}
}

func TestDivUnsignedByZero(t *testing.T) {
	if got := divUnsigned(5, 0); got != 0xFFFFFFFF {
		t.Fatalf("divu by zero: got 0x%x, want 0xFFFFFFFF", got)
	}
}

func TestRemUnsignedByZero(t *testing.T) {
	if got := remUnsigned(5, 0); got != 5 {
		t.Fatalf("remu by zero: got %d, want 5", got)
	}
}

func TestMulhSignedSigned(t *testing.T) {
	// (-1) * (-1) = 1, high 32 bits of the 64-bit product are 0.
	got, err := mulDiv(Funct3MULH, 0xFFFFFFFF, 0xFFFFFFFF)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Fatalf("mulh(-1,-1): got 0x%x, want 0", got)
	}
}

func TestMulhuUnsignedUnsigned(t *testing.T) {
	// 0xFFFFFFFF * 0xFFFFFFFF = 0xFFFFFFFE00000001; high word 0xFFFFFFFE
	got, err := mulDiv(Funct3MULHU, 0xFFFFFFFF, 0xFFFFFFFF)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0xFFFFFFFE {
		t.Fatalf("mulhu: got 0x%x, want 0xFFFFFFFE", got)
	}
}

func TestMulLowBits(t *testing.T) {
	got, err := mulDiv(Funct3MUL, 6, 7)
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Fatalf("mul: got %d, want 42", got)
	}
}

func TestMulhsuMixedSign(t *testing.T) {
	// -1 (signed) * 2 (unsigned) = -2; high word of 64-bit result is all ones.
	got, err := mulDiv(Funct3MULHSU, 0xFFFFFFFF, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0xFFFFFFFF {
		t.Fatalf("mulhsu: got 0x%x, want 0xFFFFFFFF", got)
	}
}
