package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbbreviators(t *testing.T) {
	assert.Equal(t, "KO", Prefix(2)(" kodambakkam "))
	assert.Equal(t, "AN", Prefix(2)("an"))
	assert.Equal(t, "", Prefix(2)(""))
	assert.Equal(t, "DAT", CompactPrefix(3)("Data Science"))
	assert.Equal(t, "HR", CompactPrefix(3)(" H  R "))
	assert.Equal(t, "ÉCO", CompactPrefix(3)("économie"))
}

func TestCodeTable(t *testing.T) {
	table := NewCodeTable(map[string]string{"Anna Nagar": "an", "  Online ": "ON"}, "UNK", Prefix(2))

	assert.True(t, table.Known("ANNA NAGAR"))
	assert.True(t, table.Known("online"))
	assert.False(t, table.Known("Adyar"))

	assert.Equal(t, "AN", table.Resolve("anna nagar"))
	assert.Equal(t, "AD", table.Resolve("Adyar"))
	assert.Equal(t, "UNK", table.Resolve(" \t"))

	assert.Equal(t, map[string]string{"anna nagar": "AN", "online": "ON"}, table.Entries())
}

func TestCodeTableWithoutFallback(t *testing.T) {
	table := NewCodeTable(nil, "N/A", nil)
	assert.Equal(t, "N/A", table.Resolve("anything"))
}
