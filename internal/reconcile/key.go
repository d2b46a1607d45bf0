package reconcile

import (
	"fmt"

	"github.com/noskrien/results-service/internal/domain"
	"github.com/noskrien/results-service/internal/latvian"
)

// Key identifies one real-world identity: the diacritic-folded lowercase
// name plus the distance category and gender buckets. Records are never
// merged across different keys.
type Key struct {
	Name     string
	Distance domain.Distance
	Gender   domain.Gender
}

// KeyFor computes the identity key for a raw participant record.
func KeyFor(rec domain.ParticipantRecord) Key {
	return Key{
		Name:     latvian.MatchKey(rec.Name),
		Distance: rec.Distance,
		Gender:   rec.Gender,
	}
}

// String renders the key in its pipe-delimited form.
func (k Key) String() string {
	return fmt.Sprintf("%s|%s|%s", k.Name, k.Distance, k.Gender)
}
