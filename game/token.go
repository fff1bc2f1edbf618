package game

import (
	"cmp"
	"fmt"
	"sync/atomic"
)

var lastToken atomic.Uint64

// PlayerToken identifies one player of one game instance. Tokens are ordered by
// creation; the zero value stands for "no player".
type PlayerToken struct {
	id   uint64
	name string
}

// NewPlayerToken mints a token that is unique within the process.
func NewPlayerToken(name string) PlayerToken {
	return PlayerToken{id: lastToken.Add(1), name: name}
}

func (p PlayerToken) IsZero() bool {
	return p.id == 0
}

func (p PlayerToken) Name() string {
	return p.name
}

func (p PlayerToken) Compare(other PlayerToken) int {
	return cmp.Compare(p.id, other.id)
}

func (p PlayerToken) String() string {
	if p.IsZero() {
		return "<none>"
	}
	if p.name == "" {
		return fmt.Sprintf("player#%d", p.id)
	}
	return p.name
}
