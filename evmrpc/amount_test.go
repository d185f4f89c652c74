package evmrpc

import (
	"math/big"
	"testing"
)

func TestWeiToHumanRoundTrip(t *testing.T) {
	wei, _ := big.NewInt(0).SetString("1500000000000000000", 10)
	human := weiToHuman(wei)

	back, ok := HumanToWei(human)
	if !ok {
		t.Fatalf("HumanToWei(%q) failed to parse", human)
	}
	if back.Cmp(wei) != 0 {
		t.Errorf("round trip mismatch: started %s, got back %s", wei.String(), back.String())
	}
}

func TestHumanToWeiRejectsGarbage(t *testing.T) {
	if _, ok := HumanToWei("not-a-number"); ok {
		t.Fatalf("expected HumanToWei to reject a non-numeric string")
	}
}

func TestWeiToHumanZero(t *testing.T) {
	got := weiToHuman(big.NewInt(0))
	want, ok := HumanToWei(got)
	if !ok || want.Sign() != 0 {
		t.Errorf("weiToHuman(0) round trip should stay zero, got %q", got)
	}
}
