package textsource

import (
	"math/rand"
	"strings"
	"time"
	"unicode"
)

// DefaultPunctSet is appended to words when punctuation is requested.
const DefaultPunctSet = ".,;:!?"

// Generator produces randomized typing text.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator returns a Generator seeded with the current time.
func NewGenerator() *Generator {
	return NewSeededGenerator(time.Now().UnixNano())
}

// NewSeededGenerator returns a deterministic Generator.
func NewSeededGenerator(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate selects count words uniformly and joins them with single spaces.
// capsPct and punctPct are probabilities in [0, 1].
func (g *Generator) Generate(words []string, count int, capsPct, punctPct float64, punctSet string) string {
	if len(words) == 0 || count <= 0 {
		return ""
	}
	set := []rune(punctSet)
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		word := words[g.rnd.Intn(len(words))]
		word = applyCaps(g.rnd, word, capsPct)
		word = applyPunct(g.rnd, word, punctPct, set)
		result = append(result, word)
	}
	return strings.Join(result, " ")
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 || rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 || rnd.Float64() > punctPct {
		return word
	}
	return word + string(punctSet[rnd.Intn(len(punctSet))])
}
