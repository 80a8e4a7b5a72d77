// Package tron is the opaque wallet collaborator: it checks the TRON
// address grammar and hands out simulated deposit addresses. There is no
// chain interaction here; on-chain settlement belongs to an external
// payout worker.
package tron

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// base58 alphabet used by TRON addresses (no 0, O, I, l).
const alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// AddressLen is the fixed base58 length of a mainnet/testnet address.
const AddressLen = 34

// AddressPrefix is the leading byte of every TRON base58 address.
const AddressPrefix = 'T'

// AddressService is what the core consumes; the simulator below is the
// default implementation.
type AddressService interface {
	Generate() (string, error)
	Validate(address string) bool
}

// Simulator generates well-formed addresses from random bytes. The
// addresses are not backed by keys and must never receive real funds.
type Simulator struct {
	Network string
}

func NewSimulator(network string) *Simulator {
	if network == "" {
		network = "NILE"
	}
	return &Simulator{Network: network}
}

// Generate returns a grammar-valid simulated address.
func (s *Simulator) Generate() (string, error) {
	buf := make([]byte, AddressLen-1)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("tron: address generation: %w", err)
	}
	var b strings.Builder
	b.WriteByte(AddressPrefix)
	for _, c := range buf {
		b.WriteByte(alphabet[int(c)%len(alphabet)])
	}
	return b.String(), nil
}

// Validate checks the documented grammar: 34 characters, 'T' prefix,
// base58-alphabet body.
func (s *Simulator) Validate(address string) bool {
	if len(address) != AddressLen || address[0] != AddressPrefix {
		return false
	}
	for i := 1; i < len(address); i++ {
		if !strings.ContainsRune(alphabet, rune(address[i])) {
			return false
		}
	}
	return true
}
