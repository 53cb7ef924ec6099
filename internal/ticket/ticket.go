// Package ticket issues the human-readable ticket identifiers attached to
// bookings. Issuing needs no coordination: each ticket takes its entropy
// from an independent v4 UUID, and the ledger's unique constraint is the
// backstop for the astronomically rare collision.
package ticket

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

const Prefix = "TICKET-"

// suffix length in random bytes; 8 bytes render as 16 hex characters.
const suffixBytes = 8

type Issuer struct{}

func NewIssuer() *Issuer {
	return &Issuer{}
}

// Issue returns an identifier like TICKET-9F86D081884C7D65.
func (i *Issuer) Issue() string {
	id := uuid.New()
	return Prefix + strings.ToUpper(hex.EncodeToString(id[:suffixBytes]))
}
