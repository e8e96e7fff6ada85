package assign

import (
	"sort"
	"strconv"
	"strings"

	"github.com/okian/podsmith/internal/domain/model"
	"github.com/zeebo/xxh3"
)

// identity is the stable content of a participant that feeds the seed.
func identity(p model.Participant) string {
	var b strings.Builder
	b.WriteString(p.ID)
	b.WriteByte('|')
	b.WriteString(p.Name)
	b.WriteByte('|')
	b.WriteString(p.GroupID)
	for _, t := range p.Tiers {
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
	}
	return b.String()
}

// unitKey orders units canonically before shuffling so that input order has
// no influence on the outcome.
func unitKey(u model.Unit) string {
	members := u.Members()
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = identity(m)
	}
	sort.Strings(ids)
	return strings.Join(ids, "\x1f")
}

// Seed hashes the sorted participant identities of units. Identical rosters
// always produce the same seed, regardless of the order they were declared in.
func Seed(units []model.Unit) uint64 {
	var ids []string
	for _, u := range units {
		for _, m := range u.Members() {
			ids = append(ids, identity(m))
		}
	}
	sort.Strings(ids)
	return xxh3.HashString(strings.Join(ids, "\n"))
}
