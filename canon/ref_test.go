package canon

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		input   string
		want    Ref
		wantErr bool
	}{
		{"GEN 1:1", Ref{"GEN", 1, 1}, false},
		{"PSA 119:176", Ref{"PSA", 119, 176}, false},
		{"1SA 17:4", Ref{"1SA", 17, 4}, false},
		{"  REV 22:21  ", Ref{"REV", 22, 21}, false},
		{"PHI 3:8", Ref{"PHP", 3, 8}, false}, // legacy alias
		{"GEN 1", Ref{}, true},
		{"XYZ 1:1", Ref{}, true},
		{"GEN 0:1", Ref{}, true},
		{"gen 1:1", Ref{}, true},
		{"", Ref{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRef(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOSISID(t *testing.T) {
	tests := []struct {
		input string
		want  Ref
		ok    bool
	}{
		{"Gen.1.1", Ref{"GEN", 1, 1}, true},
		{"Ps.23.1", Ref{"PSA", 23, 1}, true},
		{"1Sam.17.4", Ref{"1SA", 17, 4}, true},
		{"Phil.3.8", Ref{"PHP", 3, 8}, true},
		{"Gen.1", Ref{}, false},
		{"Tob.1.1", Ref{}, false}, // deuterocanonical, outside the canon
		{"Gen.one.1", Ref{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseOSISID(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRefCompare(t *testing.T) {
	gen11 := Ref{"GEN", 1, 1}
	gen12 := Ref{"GEN", 1, 2}
	gen21 := Ref{"GEN", 2, 1}
	exo11 := Ref{"EXO", 1, 1}
	mal11 := Ref{"MAL", 1, 1}
	mat11 := Ref{"MAT", 1, 1}

	assert.Equal(t, 0, gen11.Compare(gen11))
	assert.Equal(t, -1, gen11.Compare(gen12))
	assert.Equal(t, -1, gen12.Compare(gen21))
	assert.Equal(t, -1, gen21.Compare(exo11))
	assert.Equal(t, 1, exo11.Compare(gen21))

	// Canonical order, not alphabetical: Malachi precedes Matthew.
	assert.True(t, mal11.Less(mat11))
}

func TestRefString(t *testing.T) {
	assert.Equal(t, "GEN 1:1", Ref{"GEN", 1, 1}.String())
	assert.Equal(t, "PSA 119:176", Ref{"PSA", 119, 176}.String())
}

func TestRefJSONRoundTrip(t *testing.T) {
	type record struct {
		Ref Ref `json:"ref"`
	}

	data, err := json.Marshal(record{Ref: Ref{"GEN", 3, 15}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ref":"GEN 3:15"}`, string(data))

	var rec record
	require.NoError(t, json.Unmarshal([]byte(`{"ref":"EXO 4:27"}`), &rec))
	assert.Equal(t, Ref{"EXO", 4, 27}, rec.Ref)
}

func TestNormalizeBook(t *testing.T) {
	b, ok := NormalizeBook("GEN")
	assert.True(t, ok)
	assert.Equal(t, Book("GEN"), b)

	b, ok = NormalizeBook("PHI")
	assert.True(t, ok)
	assert.Equal(t, Book("PHP"), b)

	_, ok = NormalizeBook("ABC")
	assert.False(t, ok)
}

func TestBooksOrder(t *testing.T) {
	books := Books()
	require.Len(t, books, 66)
	assert.Equal(t, Book("GEN"), books[0])
	assert.Equal(t, Book("MAL"), books[38])
	assert.Equal(t, Book("MAT"), books[39])
	assert.Equal(t, Book("REV"), books[65])

	for i, b := range books {
		assert.Equal(t, i, b.Order())
	}
}
