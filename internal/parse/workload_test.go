package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWorkload_BasicTemplates(t *testing.T) {
	input := `
WORKLOAD
TRANSACTION (INPUTS: FROM, TO)
END
`
	templates, err := ParseWorkload(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, 2, templates[0].InputArity)
}

func TestParseWorkload_MultipleTemplates(t *testing.T) {
	input := `
WORKLOAD
TRANSACTION (INPUTS: DISTRICT, S1, S2, S3)
TRANSACTION (INPUTS: WAREHOUSE, DISTRICT, CUSTOMER)
END
`
	templates, err := ParseWorkload(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, 4, templates[0].InputArity)
	assert.Equal(t, 3, templates[1].InputArity)
}

func TestParseWorkload_NoInputsIsZeroArity(t *testing.T) {
	input := "WORKLOAD\nTRANSACTION (INPUTS:)\nEND\n"
	templates, err := ParseWorkload(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, 0, templates[0].InputArity)
}

// S5: an empty workload file (no TRANSACTION lines) is a fatal parse error.
func TestParseWorkload_NoTemplatesIsFatal(t *testing.T) {
	_, err := ParseWorkload(strings.NewReader("WORKLOAD\nEND\n"))
	assert.ErrorIs(t, err, ErrNoTemplates)

	_, err = ParseWorkload(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoTemplates)
}

func TestParseWorkload_MalformedTransactionLine(t *testing.T) {
	_, err := ParseWorkload(strings.NewReader("WORKLOAD\nTRANSACTION missing parens\nEND\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestCheckArity(t *testing.T) {
	oneTemplate := []WorkloadTemplate{{InputArity: 2}}
	twoTemplates := []WorkloadTemplate{{InputArity: 4}, {InputArity: 3}}

	assert.NoError(t, CheckArity("w1", oneTemplate))
	assert.Error(t, CheckArity("w1", twoTemplates))
	assert.NoError(t, CheckArity("w2", twoTemplates))
	assert.Error(t, CheckArity("w2", oneTemplate))
	assert.Error(t, CheckArity("w3", oneTemplate))
}
