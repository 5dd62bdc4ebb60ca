// Package runtime is the reference Host implementation of vm.StateDB:
// an in-memory, journaled Substate used by tests and the cmd/evm driver.
// Production hosts back vm.StateDB with a real trie/database instead.
package runtime

import (
	"math/big"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/holiman/uint256"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
)

func codeHash(code []byte) common.Hash {
	if len(code) == 0 {
		return common.Hash{}
	}
	return crypto.Keccak256Hash(code)
}

type account struct {
	nonce   uint64
	balance *uint256.Int
	code    []byte
	codeHash common.Hash
	storage map[common.Hash]common.Hash
}

func newAccount() *account {
	return &account{
		balance: new(uint256.Int),
		storage: make(map[common.Hash]common.Hash),
	}
}

// journalEntry is one reversible mutation recorded by State.Snapshot,
// mirroring go-ethereum's core/state journal pattern.
type journalEntry func(s *State)

// State is the runtime's reference Substate: touched accounts, the
// self-destruct set, the refund counter, logs and transient storage, all
// undoable via a journal rather than full snapshots-of-the-world.
type State struct {
	accounts map[common.Address]*account

	transient map[common.Address]map[common.Hash]common.Hash

	selfDestructed mapset.Set[common.Address]
	touched        mapset.Set[common.Address]

	access accessList

	refund uint64
	logs   []*vm.Log

	journal   []journalEntry
	revisions []int

	blockHashes map[uint64]common.Hash
}

type accessTuple struct {
	addr common.Address
	slot common.Hash
}

// NewState returns an empty Substate, ready for a fresh transaction.
func NewState() *State {
	return &State{
		accounts:       make(map[common.Address]*account),
		transient:      make(map[common.Address]map[common.Hash]common.Hash),
		selfDestructed: mapset.NewThreadUnsafeSet[common.Address](),
		touched:        mapset.NewThreadUnsafeSet[common.Address](),
		access:         newMapAccessList(),
		blockHashes:    make(map[uint64]common.Hash),
	}
}

// UseFastcacheAccessList swaps the Substate's warm/cold backing for a
// fastcache-backed one, sized in bytes. Intended for the runtime harness's
// large benchmarked runs; must be called before any access-list mutation.
func (s *State) UseFastcacheAccessList(maxBytes int) {
	s.access = newFastcacheAccessList(maxBytes)
}

func (s *State) getOrNew(addr common.Address) *account {
	a, ok := s.accounts[addr]
	if !ok {
		a = newAccount()
		s.accounts[addr] = a
	}
	return a
}

func (s *State) append(entry journalEntry) {
	s.journal = append(s.journal, entry)
}

func (s *State) CreateAccount(addr common.Address) {
	_, existed := s.accounts[addr]
	s.append(func(s *State) {
		if !existed {
			delete(s.accounts, addr)
		}
	})
	s.getOrNew(addr)
	s.touched.Add(addr)
}

func (s *State) SubBalance(addr common.Address, amount *uint256.Int) {
	a := s.getOrNew(addr)
	prev := new(uint256.Int).Set(a.balance)
	s.append(func(s *State) { s.getOrNew(addr).balance = prev })
	a.balance.Sub(a.balance, amount)
	s.touched.Add(addr)
}

func (s *State) AddBalance(addr common.Address, amount *uint256.Int) {
	a := s.getOrNew(addr)
	prev := new(uint256.Int).Set(a.balance)
	s.append(func(s *State) { s.getOrNew(addr).balance = prev })
	a.balance.Add(a.balance, amount)
	s.touched.Add(addr)
}

func (s *State) GetBalance(addr common.Address) *uint256.Int {
	if a, ok := s.accounts[addr]; ok {
		return a.balance
	}
	return new(uint256.Int)
}

func (s *State) GetNonce(addr common.Address) uint64 {
	if a, ok := s.accounts[addr]; ok {
		return a.nonce
	}
	return 0
}

func (s *State) SetNonce(addr common.Address, nonce uint64) {
	a := s.getOrNew(addr)
	prev := a.nonce
	s.append(func(s *State) { s.getOrNew(addr).nonce = prev })
	a.nonce = nonce
}

func (s *State) GetCodeHash(addr common.Address) common.Hash {
	if a, ok := s.accounts[addr]; ok {
		return a.codeHash
	}
	return common.Hash{}
}

func (s *State) GetCode(addr common.Address) []byte {
	if a, ok := s.accounts[addr]; ok {
		return a.code
	}
	return nil
}

func (s *State) SetCode(addr common.Address, code []byte) {
	a := s.getOrNew(addr)
	prevCode, prevHash := a.code, a.codeHash
	s.append(func(s *State) {
		a := s.getOrNew(addr)
		a.code, a.codeHash = prevCode, prevHash
	})
	a.code = code
	a.codeHash = codeHash(code)
}

func (s *State) GetCodeSize(addr common.Address) int {
	return len(s.GetCode(addr))
}

func (s *State) AddRefund(gas uint64) {
	prev := s.refund
	s.append(func(s *State) { s.refund = prev })
	s.refund += gas
}

func (s *State) SubRefund(gas uint64) {
	prev := s.refund
	s.append(func(s *State) { s.refund = prev })
	if gas > s.refund {
		s.refund = 0
		return
	}
	s.refund -= gas
}

func (s *State) GetRefund() uint64 { return s.refund }

func (s *State) GetCommittedState(addr common.Address, key common.Hash) common.Hash {
	// The reference host never commits mid-transaction, so the committed
	// value equals whatever was present before this transaction started —
	// which is the current value, since journaling only covers this tx.
	return s.GetState(addr, key)
}

func (s *State) GetState(addr common.Address, key common.Hash) common.Hash {
	if a, ok := s.accounts[addr]; ok {
		return a.storage[key]
	}
	return common.Hash{}
}

func (s *State) SetState(addr common.Address, key, value common.Hash) {
	a := s.getOrNew(addr)
	prev := a.storage[key]
	s.append(func(s *State) { s.getOrNew(addr).storage[key] = prev })
	a.storage[key] = value
}

func (s *State) GetTransientState(addr common.Address, key common.Hash) common.Hash {
	if m, ok := s.transient[addr]; ok {
		return m[key]
	}
	return common.Hash{}
}

func (s *State) SetTransientState(addr common.Address, key, value common.Hash) {
	m, ok := s.transient[addr]
	if !ok {
		m = make(map[common.Hash]common.Hash)
		s.transient[addr] = m
	}
	prev, had := m[key]
	s.append(func(s *State) {
		if had {
			s.transient[addr][key] = prev
		} else {
			delete(s.transient[addr], key)
		}
	})
	m[key] = value
}

func (s *State) SelfDestruct(addr common.Address) {
	already := s.selfDestructed.Contains(addr)
	s.append(func(s *State) {
		if !already {
			s.selfDestructed.Remove(addr)
		}
	})
	s.selfDestructed.Add(addr)
}

func (s *State) HasSelfDestructed(addr common.Address) bool {
	return s.selfDestructed.Contains(addr)
}

func (s *State) Exist(addr common.Address) bool {
	_, ok := s.accounts[addr]
	return ok
}

func (s *State) Empty(addr common.Address) bool {
	a, ok := s.accounts[addr]
	if !ok {
		return true
	}
	return a.nonce == 0 && a.balance.IsZero() && len(a.code) == 0
}

func (s *State) AddressInAccessList(addr common.Address) bool {
	return s.access.addr(addr)
}

func (s *State) SlotInAccessList(addr common.Address, slot common.Hash) (bool, bool) {
	return s.access.addr(addr), s.access.slot(addr, slot)
}

func (s *State) AddAddressToAccessList(addr common.Address) {
	if s.access.addr(addr) {
		return
	}
	s.append(func(s *State) { s.access.removeAddr(addr) })
	s.access.addAddr(addr)
}

func (s *State) AddSlotToAccessList(addr common.Address, slot common.Hash) {
	s.AddAddressToAccessList(addr)
	if s.access.slot(addr, slot) {
		return
	}
	s.append(func(s *State) { s.access.removeSlot(addr, slot) })
	s.access.addSlot(addr, slot)
}

func (s *State) Snapshot() int {
	s.revisions = append(s.revisions, len(s.journal))
	return len(s.revisions) - 1
}

func (s *State) RevertToSnapshot(id int) {
	if id >= len(s.revisions) {
		return
	}
	target := s.revisions[id]
	for i := len(s.journal) - 1; i >= target; i-- {
		s.journal[i](s)
	}
	s.journal = s.journal[:target]
	s.revisions = s.revisions[:id]
}

func (s *State) AddLog(log *vm.Log) {
	n := len(s.logs)
	s.append(func(s *State) { s.logs = s.logs[:n] })
	s.logs = append(s.logs, log)
}

func (s *State) GetLogs(common.Hash) []*vm.Log {
	return s.logs
}

func (s *State) BlockHash(block *big.Int) common.Hash {
	return s.blockHashes[block.Uint64()]
}

// TouchedAddresses returns every address this Substate marked as touched:
// created, or had its balance changed.
func (s *State) TouchedAddresses() []common.Address {
	return s.touched.ToSlice()
}
