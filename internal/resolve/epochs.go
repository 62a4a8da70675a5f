package resolve

import (
	"strconv"
	"strings"

	"github.com/ItIsUday/artron/internal/model"
)

// EpochSet decides which sectors are supported by the archive.
type EpochSet interface {
	Contains(epoch int) bool
}

// EpochRange is the closed interval [Min, Max].
type EpochRange struct {
	Min int
	Max int
}

// DefaultEpochs is the range of sectors with published TESS-SPOC light curves
// that the pipeline targets unless configured otherwise.
var DefaultEpochs = EpochRange{Min: 1, Max: 26}

// Contains reports whether epoch lies in the range.
func (r EpochRange) Contains(epoch int) bool {
	return epoch >= r.Min && epoch <= r.Max
}

// Epochs is an explicit set of sectors.
type Epochs map[int]struct{}

// NewEpochs builds a set from the given sectors.
func NewEpochs(epochs ...int) Epochs {
	s := make(Epochs, len(epochs))
	for _, e := range epochs {
		s[e] = struct{}{}
	}
	return s
}

// Contains reports whether epoch is in the set.
func (s Epochs) Contains(epoch int) bool {
	_, ok := s[epoch]
	return ok
}

// ParseEpochs splits a comma-separated sector list into integers.
// Surrounding whitespace on each token is ignored. Every token must consist of
// decimal digits only; anything else is a *model.CatalogFormatError whose
// Value is the bad token. A blank list yields no sectors.
func ParseEpochs(list string) ([]int, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	parts := strings.Split(list, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		tok := strings.TrimSpace(p)
		if tok == "" || !isDigits(tok) {
			return nil, &model.CatalogFormatError{Value: tok, Reason: "sector is not an integer"}
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, &model.CatalogFormatError{Value: tok, Reason: "sector does not fit in an int"}
		}
		out = append(out, n)
	}
	return out, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
