package config

import "time"

type Configuration struct {
	// Server config
	Server struct {
		UseSSL    bool   `yaml:"ssl"`
		RedisHost string `yaml:"redis_host"`
		RedisPort int    `yaml:"redis_port"`
		HTTPPort  int    `yaml:"http_port"`
	} `yaml:"server"`

	// BAN (native coin) node config
	BAN struct {
		RPCURL          string        `yaml:"rpc_url"`
		Confirmations   int           `yaml:"confirmations"`
		HotWallet       string        `yaml:"hot_wallet"`
		PollInterval    time.Duration `yaml:"poll_interval"`
		ReceivableBatch int           `yaml:"receivable_batch"`
	} `yaml:"BAN"`

	// EVM-related config
	EVM struct {
		ChainID         int      `yaml:"chain_id"`
		RPCList         []string `yaml:"rpc_list"`
		ContractAddress string   `yaml:"contract_address"`
		PublicAddress   string   `yaml:"address"`
		PrivateKey      string   `yaml:"private_key"`
		Explorer        string   `yaml:"explorer"`
		SafetyDepth     int      `yaml:"safety_depth"`
		BlockBatch      int      `yaml:"block_batch"`
	} `yaml:"EVM"`

	Queue struct {
		Workers      int           `yaml:"workers"`
		PollInterval time.Duration `yaml:"poll_interval"`
	} `yaml:"queue"`

	Scanner struct {
		PollInterval time.Duration `yaml:"poll_interval"`
	} `yaml:"scanner"`

	Blacklist []string `yaml:"blacklist"`

	GaslessSwapEnabled bool `yaml:"gasless_swap_enabled"`
}

var Config Configuration

// lock resource TTLs, per the Distributed Lock Manager contract (spec §4.2)
const (
	LockClockDriftFactor = 0.01
	LockMaxAttempts      = 10
	LockBaseDelay        = 200 * time.Millisecond
	LockMaxJitter        = 200 * time.Millisecond

	LockTTLRead     = 1 * time.Second
	LockTTLDeposit  = 30 * time.Second
	LockTTLWithdraw = 1 * time.Second
	LockTTLSwap     = 1 * time.Second
)

// PendingClaimTTL is the time window during which an unconfirmed claim holds
// its native_addr <-> blockchain_addr binding (spec §3, §4.7).
const PendingClaimTTL = 5 * time.Minute

// HistoryLimit bounds GetDeposits/GetWithdrawals/GetSwaps (spec §4.1, §8 scenario).
const HistoryLimit = 1000

// NativeExplorerBase renders native transaction explorer links (spec §6).
const NativeExplorerBase = "https://creeper.banano.cc/explorer/block/"

