package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		// Case and whitespace
		{"Maria Silva", []string{"maria", "silva"}},
		{"  MARIA   silva  ", []string{"maria", "silva"}},
		{"Maria\tSilva\n", []string{"maria", "silva"}},

		// Built-in folds
		{"Luís Souza", []string{"luis", "souza"}},
		{"Luiz Souza", []string{"luis", "souza"}},
		{"LUIZ Souza", []string{"luis", "souza"}},
		{"Sérgio Lima", []string{"sergio", "lima"}},

		// Generic diacritic stripping
		{"José da Conceição", []string{"jose", "da", "conceicao"}},
		{"João Gonçalves", []string{"joao", "goncalves"}},

		// Periods
		{"J. Silva", []string{"j", "silva"}},
		{"Luis C. Souza", []string{"luis", "c", "souza"}},
		{"A.B. Costa", []string{"ab", "costa"}},

		// Folds only replace whole tokens
		{"Luizinho Souza", []string{"luizinho", "souza"}},

		// Edge cases
		{"", nil},
		{"   ", nil},
		{".", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizer_ExtraFolds(t *testing.T) {
	n := NewNormalizer(map[string][]string{
		"jose":  {"zé", "ze"},
		"thais": {"thaís", "tais"},
	})

	assert.Equal(t, []string{"jose", "silva"}, n.Tokens("Zé Silva"))
	assert.Equal(t, []string{"thais", "melo"}, n.Tokens("Tais Melo"))
	assert.Equal(t, []string{"luis", "souza"}, n.Tokens("Luiz Souza"), "built-in folds are kept")

	// The default normalizer is untouched.
	assert.Equal(t, []string{"ze", "silva"}, Normalize("Zé Silva"))
}

func TestNormalizer_MultiTokenFoldsIgnored(t *testing.T) {
	n := NewNormalizer(map[string][]string{
		"joao":       {"joão pedro", "jão"},
		"jose maria": {"zé"},
	})

	assert.Equal(t, []string{"pedro", "souza"}, n.Tokens("Pedro Souza"))
	assert.Equal(t, []string{"joao", "souza"}, n.Tokens("Jão Souza"), "single-token variants still fold")
	assert.Equal(t, []string{"ze", "lima"}, n.Tokens("Zé Lima"))

	for _, tok := range n.Tokens("Pedro Jão Zé") {
		assert.NotContains(t, tok, " ")
	}

	res := NewResolver(n).Resolve("Pedro Souza", []Candidate{{ID: "1", DisplayName: "João Souza"}})
	assert.False(t, res.Matched)
}

func TestCheckFolds(t *testing.T) {
	require.NoError(t, CheckFolds(nil))
	require.NoError(t, CheckFolds(DefaultFolds()))
	require.NoError(t, CheckFolds(map[string][]string{"jose": {"Zé", " ze. "}}))

	err := CheckFolds(map[string][]string{
		"joao":       {"joão pedro"},
		"jose maria": {"zé"},
		"ana":        {"..."},
	})
	require.ErrorIs(t, err, ErrInvalidFold)
	assert.Contains(t, err.Error(), `variant "joão pedro" of "joao"`)
	assert.Contains(t, err.Error(), `canonical "jose maria"`)
	assert.Contains(t, err.Error(), `variant "..." of "ana"`)
}

func TestNormalizer_Key(t *testing.T) {
	n := NewNormalizer(nil)

	assert.Equal(t, "luis carlos souza", n.Key(" Luiz  Carlos SOUZA "))
	assert.Equal(t, "", n.Key(""))
}

func TestDefaultFolds_ReturnsCopy(t *testing.T) {
	folds := DefaultFolds()
	folds["luis"] = append(folds["luis"], "lewis")
	delete(folds, "sergio")

	assert.Contains(t, DefaultFolds(), "sergio")
	assert.NotContains(t, DefaultFolds()["luis"], "lewis")
}

func TestReferenceKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"CT-001", "ct-001"},
		{"  ct-001 ", "ct-001"},
		{"CT.001", "ct.001"},
		{"Prefeitura de  São Paulo", "prefeitura de sao paulo"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ReferenceKey(tt.input))
		})
	}
}

func TestStripDiacritics(t *testing.T) {
	assert.Equal(t, "Acao", StripDiacritics("Ação"))
	assert.Equal(t, "plain", StripDiacritics("plain"))
	assert.Equal(t, "Muller", StripDiacritics("Müller"))
}
