package store

import (
	"context"
	"sort"

	"github.com/gomodule/redigo/redis"

	"banwbanbridge/config"
	"banwbanbridge/domain"
	"banwbanbridge/kv"
)

// recentMembers returns up to limit sorted-set members in descending score
// order (spec.md §4.1 "most recent <= 1000 entries sorted by timestamp
// descending").
func recentMembers(conn redis.Conn, key string, limit int) ([]string, error) {
	return redis.Strings(conn.Do("ZREVRANGE", key, 0, limit-1))
}

func hydrate(conn redis.Conn, members []string) ([]domain.HistoryEntry, error) {
	entries := make([]domain.HistoryEntry, 0, len(members))
	for _, m := range members {
		audit, err := readAudit(conn, m)
		if err != nil {
			return nil, err
		}
		entries = append(entries, domain.HistoryEntry{AuditEntry: audit})
	}
	return entries, nil
}

// GetDeposits returns nativeAddr's most recent deposits, descending by
// timestamp, each carrying the native explorer link (spec.md §4.1, §6).
func (s *Store) GetDeposits(ctx context.Context, nativeAddr string) ([]domain.HistoryEntry, error) {
	nativeAddr = NormalizeNative(nativeAddr)

	conn := kv.Conn()
	defer conn.Close()

	members, err := recentMembers(conn, depositsKey(nativeAddr), config.HistoryLimit)
	if err != nil {
		return nil, err
	}
	entries, err := hydrate(conn, members)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].ExplorerLink = config.NativeExplorerBase + entries[i].TxnHash
	}
	return entries, nil
}

// GetWithdrawals returns nativeAddr's most recent withdrawals, descending by
// timestamp, each carrying the native explorer link (spec.md §4.1, §6).
func (s *Store) GetWithdrawals(ctx context.Context, nativeAddr string) ([]domain.HistoryEntry, error) {
	nativeAddr = NormalizeNative(nativeAddr)

	conn := kv.Conn()
	defer conn.Close()

	members, err := recentMembers(conn, withdrawalsKey(nativeAddr), config.HistoryLimit)
	if err != nil {
		return nil, err
	}
	entries, err := hydrate(conn, members)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].ExplorerLink = config.NativeExplorerBase + entries[i].TxnHash
	}
	return entries, nil
}

// GetSwaps returns the concatenation of blockchainAddr's wBAN-to-BAN
// redemptions and nativeAddr's BAN-to-wBAN mint-receipt issuances, most
// recent 1000 by timestamp descending (spec.md §4.1). EVM-side entries carry
// the configured chain explorer link (spec.md §6); native-side entries have
// none (a receipt is not itself a chain transaction).
func (s *Store) GetSwaps(ctx context.Context, blockchainAddr, nativeAddr string, explorerBase string) ([]domain.HistoryEntry, error) {
	nativeAddr = NormalizeNative(nativeAddr)
	blockchainAddr = NormalizeBlockchain(blockchainAddr)

	conn := kv.Conn()
	defer conn.Close()

	wbanToBAN, err := recentMembers(conn, wbanToBANKey(blockchainAddr), config.HistoryLimit)
	if err != nil {
		return nil, err
	}
	banToWBAN, err := recentMembers(conn, banToWBANKey(nativeAddr), config.HistoryLimit)
	if err != nil {
		return nil, err
	}

	entries, err := hydrate(conn, append(append([]string{}, wbanToBAN...), banToWBAN...))
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].Type == domain.AuditTypeSwapToBAN {
			entries[i].ExplorerLink = explorerBase + "/tx/" + entries[i].TxnHash
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TimestampMs > entries[j].TimestampMs
	})
	if len(entries) > config.HistoryLimit {
		entries = entries[:config.HistoryLimit]
	}
	return entries, nil
}
