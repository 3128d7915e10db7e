package operation

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator hands out synthetic list identifiers. One generator per editing
// session is enough; identifiers carry no meaning outside it.
type IDGenerator interface {
	NextID() string
}

// Counter is a monotonic IDGenerator. Safe for concurrent use.
type Counter struct {
	n atomic.Uint64
}

func NewCounter() *Counter {
	return &Counter{}
}

func (c *Counter) NextID() string {
	return strconv.FormatUint(c.n.Add(1), 10)
}

// UUIDGenerator produces random identifiers, for sessions whose lists may be
// merged with lists from another session.
type UUIDGenerator struct{}

func (UUIDGenerator) NextID() string {
	return uuid.NewString()
}
