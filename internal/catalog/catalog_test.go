package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ResolvesDuplicatePostalByLargerWeight(t *testing.T) {
	c := Default()
	require.NotNil(t, c)

	f, ok := c.Lookup("unified_postal")
	require.True(t, ok)
	assert.Equal(t, 12, f.Weight, "duplicate unified_postal entry must resolve to the larger weight")
}

func TestDefault_FieldsOrderedByWeightDescending(t *testing.T) {
	c := Default()
	fields := c.Fields()
	require.NotEmpty(t, fields)

	for i := 1; i < len(fields); i++ {
		assert.GreaterOrEqual(t, fields[i-1].Weight, fields[i].Weight, "fields must be sorted by descending weight")
	}
}

func TestDefault_LookupByNameIsWeightIndependent(t *testing.T) {
	c := Default()
	email, ok := c.Lookup("email")
	require.True(t, ok)
	assert.Equal(t, 22, email.Weight)

	// Weights only drive mapper iteration order; Lookup by name is weight-independent.
	companyName, ok := c.Lookup("company_name")
	require.True(t, ok)
	assert.NotEqual(t, email.Weight, companyName.Weight)
}

func TestIsHighPriority(t *testing.T) {
	c := Default()
	companyName, _ := c.Lookup("company_name")
	assert.True(t, companyName.IsHighPriority())

	dept, _ := c.Lookup("department")
	assert.False(t, dept.IsHighPriority())
}
