// Package blacklist is the default Wallet Blacklist collaborator
// (SPEC_FULL §4.10): a static in-memory set loaded from configuration. A
// real deployment swaps this for a networked lookup behind the same
// claim.Blacklist interface.
package blacklist

import (
	"context"
	"strings"

	"banwbanbridge/config"
	"banwbanbridge/store"
)

type List struct {
	aliasByAddr map[string]string
}

// New builds a List from config.Config.Blacklist, each entry either a bare
// address or "address:alias".
func New() *List {
	l := &List{aliasByAddr: make(map[string]string)}
	for _, entry := range config.Config.Blacklist {
		addr, alias := splitAlias(entry)
		l.aliasByAddr[store.NormalizeNative(addr)] = alias
	}
	return l
}

func splitAlias(entry string) (addr, alias string) {
	if i := strings.Index(entry, ":"); i >= 0 {
		return entry[:i], entry[i+1:]
	}
	return entry, ""
}

// IsBlacklisted implements claim.Blacklist.
func (l *List) IsBlacklisted(ctx context.Context, nativeAddr string) (string, bool, error) {
	alias, blacklisted := l.aliasByAddr[store.NormalizeNative(nativeAddr)]
	return alias, blacklisted, nil
}
