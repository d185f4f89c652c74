package queue

// Job kinds, one per OP state machine (spec.md §4.3/§4.4/§4.5/§4.6).
const (
	KindDeposit          = "deposit"
	KindNativeWithdrawal = "native-withdrawal"
	KindSwapToWBAN       = "swap-to-wban"
	KindSwapToBAN        = "swap-to-ban"
)

// Job is the envelope carried through the per-account queue. Not every
// field is meaningful for every Kind; OP's four handlers each read only
// the fields their state machine needs.
type Job struct {
	Kind           string `json:"kind"`
	NativeAddr     string `json:"native_addr"`
	BlockchainAddr string `json:"blockchain_addr,omitempty"`
	Amount         string `json:"amount"`
	TxnHash        string `json:"txn_hash,omitempty"`
	Signature      string `json:"signature,omitempty"`
	TimestampMs    int64  `json:"timestamp_ms"`
	Attempt        int    `json:"attempt"`
}
