package provider

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursegate/internal/domain/subscription"
)

const plansYAML = `
recurring:
  plan_escola_mensal: escola-online
  plan_mentoria: Mentoria VIP
installment:
  "4051234": escola-online
`

func TestParsePlanMapping(t *testing.T) {
	m, err := ParsePlanMapping([]byte(plansYAML))
	require.NoError(t, err)

	course, err := m.CourseFor(subscription.ProviderRecurring, "plan_mentoria")
	require.NoError(t, err)
	assert.Equal(t, "mentoria-vip", course)

	course, err = m.CourseFor(subscription.ProviderInstallment, "4051234")
	require.NoError(t, err)
	assert.Equal(t, "escola-online", course)

	_, err = m.CourseFor(subscription.ProviderInstallment, "plan_escola_mensal")
	assert.ErrorIs(t, err, subscription.ErrUnmappedPlanIdentifier)
	assert.Contains(t, err.Error(), "plan_escola_mensal")
}

func TestParsePlanMapping_Invalid(t *testing.T) {
	_, err := ParsePlanMapping([]byte("paypal:\n  x: y\n"))
	assert.ErrorIs(t, err, subscription.ErrInvalidProvider)

	_, err = ParsePlanMapping([]byte("recurring:\n  x: \"\"\n"))
	assert.Error(t, err)

	_, err = ParsePlanMapping([]byte(":::"))
	assert.Error(t, err)
}

func TestLoadPlanMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.yaml")
	require.NoError(t, os.WriteFile(path, []byte(plansYAML), 0o600))

	m, err := LoadPlanMapping(path)
	require.NoError(t, err)
	_, err = m.CourseFor(subscription.ProviderRecurring, "plan_escola_mensal")
	assert.NoError(t, err)

	_, err = LoadPlanMapping(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
