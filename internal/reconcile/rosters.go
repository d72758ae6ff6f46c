package reconcile

import (
	"import-reconciler/internal/match"
)

// Contract is a contract roster entry. Row references match either its
// number or its client name.
type Contract struct {
	ID         string
	Number     string
	ClientName string
}

// Equipment is an equipment roster entry, referenced by serial number.
type Equipment struct {
	ID           string
	SerialNumber string
}

// Rosters are the snapshots rows are resolved against. A nil Equipment
// roster means equipment resolution is not attempted.
type Rosters struct {
	Employees []match.Candidate
	Contracts []Contract
	Equipment []Equipment
}

// referenceIndex maps match.ReferenceKey values to ids. The first id
// registered for a key wins, so building it in roster order keeps roster
// precedence.
type referenceIndex map[string]string

func (idx referenceIndex) add(ref, id string) {
	key := match.ReferenceKey(ref)
	if key == "" {
		return
	}

	if _, taken := idx[key]; !taken {
		idx[key] = id
	}
}

func (idx referenceIndex) lookup(ref string) (string, bool) {
	key := match.ReferenceKey(ref)
	if key == "" {
		return "", false
	}

	id, ok := idx[key]

	return id, ok
}

// ContractIndex looks contracts up by number or client name.
type ContractIndex struct {
	refs referenceIndex
}

// NewContractIndex indexes contracts in roster order. The first contract
// whose number or client name equals a reference wins.
func NewContractIndex(contracts []Contract) *ContractIndex {
	idx := &ContractIndex{refs: make(referenceIndex, len(contracts)*2)}
	for _, c := range contracts {
		idx.refs.add(c.Number, c.ID)
		idx.refs.add(c.ClientName, c.ID)
	}

	return idx
}

// Lookup returns the id of the contract ref names.
func (idx *ContractIndex) Lookup(ref string) (string, bool) {
	return idx.refs.lookup(ref)
}

func newEquipmentIndex(equipment []Equipment) referenceIndex {
	idx := make(referenceIndex, len(equipment))
	for _, e := range equipment {
		idx.add(e.SerialNumber, e.ID)
	}

	return idx
}
