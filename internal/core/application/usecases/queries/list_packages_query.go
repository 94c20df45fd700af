package queries

import (
	"errors"
	"strings"

	"tracking/internal/pkg/guard"
)

var ErrListPackagesQueryIsNotConstructed = errors.New(
	"ListPackagesQuery must be created via NewListPackagesQuery constructor",
)

// ListPackagesQuery filters packages by case-insensitive substrings of the
// sender and recipient. Blank filters are ignored; both filters combine with AND.
type ListPackagesQuery struct {
	sender    string
	recipient string

	guard guard.ConstructorGuard
}

func NewListPackagesQuery(sender, recipient string) ListPackagesQuery {
	return ListPackagesQuery{
		sender:    strings.TrimSpace(sender),
		recipient: strings.TrimSpace(recipient),
		guard:     guard.NewConstructorGuard(),
	}
}

func (q ListPackagesQuery) Validate() error {
	return q.guard.Validate(ErrListPackagesQueryIsNotConstructed)
}

func (q ListPackagesQuery) Sender() string {
	return q.sender
}

func (q ListPackagesQuery) Recipient() string {
	return q.recipient
}
