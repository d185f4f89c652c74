package bridgeerr

import (
	"errors"
	"testing"
)

func TestIsMatchesByKind(t *testing.T) {
	err := Wrap(InsufficientBalance, "not enough", errors.New("underlying"))
	if !errors.Is(err, New(InsufficientBalance, "")) {
		t.Fatalf("expected errors.Is to match by Kind")
	}
	if errors.Is(err, New(InvalidOwner, "")) {
		t.Fatalf("expected errors.Is to not match a different Kind")
	}
}

func TestUnwrapReturnsCause(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(UpstreamChainFailure, "rpc failed", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected Unwrap to expose the original cause")
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(New(LockTimeout, "x")) != LockTimeout {
		t.Fatalf("expected KindOf to extract Kind")
	}
	if KindOf(errors.New("plain error")) != "" {
		t.Fatalf("expected KindOf of a non-bridgeerr to be empty")
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		kind Kind
		want bool
	}{
		{LockTimeout, true},
		{UpstreamChainFailure, true},
		{InsufficientBalance, true},
		{InsufficientHotWallet, true},
		{InvalidOwner, false},
		{DuplicateRequest, false},
		{InvalidSignature, false},
	}
	for _, c := range cases {
		if got := Retryable(New(c.kind, "")); got != c.want {
			t.Errorf("Retryable(%s) = %v, want %v", c.kind, got, c.want)
		}
	}
}
