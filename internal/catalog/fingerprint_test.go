package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintDeterministic(t *testing.T) {
	a, err := Fingerprint(validDefinition())
	require.NoError(t, err)
	b, err := Fingerprint(validDefinition())
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64) // sha256 hex
}

func TestFingerprintSensitiveToContent(t *testing.T) {
	base, err := Fingerprint(validDefinition())
	require.NoError(t, err)

	renamed := validDefinition()
	renamed.Name = "element_wise_sum"
	other, err := Fingerprint(renamed)
	require.NoError(t, err)

	assert.NotEqual(t, base, other)
}

func TestFingerprintIgnoresNumberSpelling(t *testing.T) {
	// 27 and 27.0 decode differently from JSON and YAML but denote the
	// same tensor element, so they must hash identically.
	a := validDefinition()
	a.Examples[0].Inputs[0].Data = []any{27.0, 2.0}
	b := validDefinition()
	b.Examples[0].Inputs[0].Data = []any{27, 2}

	ha, err := Fingerprint(a)
	require.NoError(t, err)
	hb, err := Fingerprint(b)
	require.NoError(t, err)

	assert.Equal(t, ha, hb)
}

func TestFingerprintNormalizesUnicode(t *testing.T) {
	// Composed U+00E9 vs decomposed e + U+0301.
	a := validDefinition()
	a.Description = []string{"ajout\u00e9"}
	b := validDefinition()
	b.Description = []string{"ajouté"}

	ha, err := Fingerprint(a)
	require.NoError(t, err)
	hb, err := Fingerprint(b)
	require.NoError(t, err)

	assert.Equal(t, ha, hb)
}

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	out, err := marshalCanonical(map[string]any{
		"zeta":  true,
		"alpha": "x",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":"x","zeta":true}`, string(out))
}
