package store

import "testing"

func TestNormalizeNative(t *testing.T) {
	cases := map[string]string{
		"  BAN_abc123  ": "ban_abc123",
		"ban_XYZ":        "ban_xyz",
	}
	for in, want := range cases {
		if got := NormalizeNative(in); got != want {
			t.Errorf("NormalizeNative(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeBlockchain(t *testing.T) {
	mixedCase := "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	got := NormalizeBlockchain(mixedCase)
	if got != NormalizeBlockchain(got) {
		t.Fatalf("NormalizeBlockchain is not idempotent: %q vs %q", got, NormalizeBlockchain(got))
	}
	lower := "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"
	if NormalizeBlockchain(lower) != got {
		t.Fatalf("NormalizeBlockchain(%q) = %q, want it to match %q regardless of input case", lower, NormalizeBlockchain(lower), got)
	}
}
