package store

import (
	"strconv"

	"github.com/gomodule/redigo/redis"

	"banwbanbridge/domain"
)

// Store is the Ledger Store (LS). It is stateless beyond the shared Redis
// pool in package kv; every exported method normalizes addresses, and the
// balance-mutating methods run under a resource lock from package lock.
type Store struct{}

func New() *Store {
	return &Store{}
}

func auditKey(idOrHash string) string {
	return "audit:" + idOrHash
}

// sendAudit queues an HSET for the write-once audit hash as part of an
// in-flight MULTI block. It must be called between conn.Send("MULTI") and
// conn.Do("EXEC").
func sendAudit(conn redis.Conn, idOrHash string, entry domain.AuditEntry) {
	args := []interface{}{auditKey(idOrHash),
		"type", entry.Type,
		"native_addr", entry.NativeAddr,
		"blockchain_addr", entry.BlockchainAddr,
		"txn_hash", entry.TxnHash,
		"receipt_id", entry.ReceiptID,
		"uuid", entry.UUID,
		"signature", entry.Signature,
		"amount", entry.Amount,
		"timestamp_ms", entry.TimestampMs,
	}
	conn.Send("HSET", args...)
}

func readAudit(conn redis.Conn, idOrHash string) (domain.AuditEntry, error) {
	values, err := redis.StringMap(conn.Do("HGETALL", auditKey(idOrHash)))
	if err != nil {
		return domain.AuditEntry{}, err
	}

	var entry domain.AuditEntry
	entry.Type = values["type"]
	entry.NativeAddr = values["native_addr"]
	entry.BlockchainAddr = values["blockchain_addr"]
	entry.TxnHash = values["txn_hash"]
	entry.ReceiptID = values["receipt_id"]
	entry.UUID = values["uuid"]
	entry.Signature = values["signature"]
	entry.Amount = values["amount"]
	if ts, ok := values["timestamp_ms"]; ok {
		if tsInt, err := strconv.ParseInt(ts, 10, 64); err == nil {
			entry.TimestampMs = tsInt
		}
	}
	return entry, nil
}
