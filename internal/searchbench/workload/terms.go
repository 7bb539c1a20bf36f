package workload

import (
	"bufio"
	"math/rand"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// LoadTerms reads one search term per line from path. Blank lines are ignored and surrounding whitespace is trimmed.
func LoadTerms(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	var terms []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		term := strings.TrimSpace(scanner.Text())
		if term == "" {
			continue
		}
		terms = append(terms, term)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WithMessagef(err, "reading terms from %s", path)
	}
	if len(terms) == 0 {
		return nil, errors.Errorf("no search terms found in %s", path)
	}
	return terms, nil
}

// Shuffle returns a shuffled copy of terms, leaving terms untouched so workers can share the loaded corpus.
func Shuffle(terms []string, rng *rand.Rand) []string {
	shuffled := slices.Clone(terms)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
