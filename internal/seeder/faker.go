package seeder

import (
	"math/rand"
	"strings"
	"time"

	"github.com/Rana718/gridbase/internal/types"
)

const maxFakeNumber = 100000

var loremWords = []string{
	"lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipiscing", "elit",
	"sed", "do", "eiusmod", "tempor", "incididunt", "ut", "labore", "et", "dolore",
	"magna", "aliqua", "enim", "ad", "minim", "veniam", "quis", "nostrud",
	"exercitation", "ullamco", "laboris", "nisi", "aliquip", "ex", "ea", "commodo",
	"consequat", "duis", "aute", "irure", "in", "reprehenderit", "voluptate",
	"velit", "esse", "cillum", "fugiat", "nulla", "pariatur", "excepteur", "sint",
}

type DataGenerator struct {
	rand *rand.Rand
}

func NewDataGenerator() *DataGenerator {
	return NewSeededGenerator(time.Now().UnixNano())
}

// NewSeededGenerator returns a generator with a fixed seed, for repeatable output.
func NewSeededGenerator(seed int64) *DataGenerator {
	return &DataGenerator{rand: rand.New(rand.NewSource(seed))}
}

// Generate returns a value for a cell of the given column: a sentence for
// text columns, an integer in [0, 100000] for number columns.
func (g *DataGenerator) Generate(col types.Column) any {
	if col.Type == types.ColumnNumber {
		return g.rand.Intn(maxFakeNumber + 1)
	}
	return g.generateSentence()
}

// Row builds one attribute bag covering every column.
func (g *DataGenerator) Row(cols []types.Column) types.Attributes {
	attrs := make(types.Attributes, len(cols))
	for _, col := range cols {
		attrs[col.Name] = g.Generate(col)
	}
	return attrs
}

func (g *DataGenerator) generateSentence() string {
	n := 4 + g.rand.Intn(6)
	words := make([]string, n)
	for i := range words {
		words[i] = loremWords[g.rand.Intn(len(loremWords))]
	}
	words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	return strings.Join(words, " ") + "."
}
