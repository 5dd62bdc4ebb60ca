package runtime

import (
	"github.com/VictoriaMetrics/fastcache"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/ethereum/go-ethereum/common"
)

// accessList tracks the EIP-2929 warm/cold set for one transaction. Two
// backings are offered: the default in-memory set, and an optional
// fastcache-backed one for benchmarked runs touching far more addresses
// than fit comfortably in a Go map.
type accessList interface {
	addr(a common.Address) bool
	slot(a common.Address, s common.Hash) bool
	addAddr(a common.Address)
	addSlot(a common.Address, s common.Hash)
	removeAddr(a common.Address)
	removeSlot(a common.Address, s common.Hash)
}

type mapAccessList struct {
	addrs mapset.Set[common.Address]
	slots mapset.Set[accessTuple]
}

func newMapAccessList() *mapAccessList {
	return &mapAccessList{
		addrs: mapset.NewThreadUnsafeSet[common.Address](),
		slots: mapset.NewThreadUnsafeSet[accessTuple](),
	}
}

func (l *mapAccessList) addr(a common.Address) bool                { return l.addrs.Contains(a) }
func (l *mapAccessList) slot(a common.Address, s common.Hash) bool { return l.slots.Contains(accessTuple{a, s}) }
func (l *mapAccessList) addAddr(a common.Address)                  { l.addrs.Add(a) }
func (l *mapAccessList) addSlot(a common.Address, s common.Hash)   { l.slots.Add(accessTuple{a, s}) }
func (l *mapAccessList) removeAddr(a common.Address)               { l.addrs.Remove(a) }
func (l *mapAccessList) removeSlot(a common.Address, s common.Hash) {
	l.slots.Remove(accessTuple{a, s})
}

// fastcacheAccessList backs the warm/cold set with a fastcache.Cache keyed
// by the address/slot bytes, matching go-ethereum's use of fastcache
// elsewhere for large, short-lived hot sets. Membership is presence of a
// one-byte value; fastcache never evicts within the bounds set at
// construction so false-negatives only occur past maxBytes, a tradeoff
// acceptable for its benchmark-only use case.
type fastcacheAccessList struct {
	addrs *fastcache.Cache
	slots *fastcache.Cache
}

func newFastcacheAccessList(maxBytes int) *fastcacheAccessList {
	return &fastcacheAccessList{
		addrs: fastcache.New(maxBytes),
		slots: fastcache.New(maxBytes),
	}
}

func (l *fastcacheAccessList) addr(a common.Address) bool {
	return l.addrs.Has(a.Bytes())
}

func (l *fastcacheAccessList) slot(a common.Address, s common.Hash) bool {
	return l.slots.Has(slotKey(a, s))
}

func (l *fastcacheAccessList) addAddr(a common.Address) {
	l.addrs.Set(a.Bytes(), []byte{1})
}

func (l *fastcacheAccessList) addSlot(a common.Address, s common.Hash) {
	l.slots.Set(slotKey(a, s), []byte{1})
}

func (l *fastcacheAccessList) removeAddr(a common.Address) {
	l.addrs.Del(a.Bytes())
}

func (l *fastcacheAccessList) removeSlot(a common.Address, s common.Hash) {
	l.slots.Del(slotKey(a, s))
}

func slotKey(a common.Address, s common.Hash) []byte {
	key := make([]byte, 0, common.AddressLength+common.HashLength)
	key = append(key, a.Bytes()...)
	return append(key, s.Bytes()...)
}
