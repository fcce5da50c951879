// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRegistry(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fiche-registry.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const testRegistry = `{
	"version": "1.0",
	"fiches": [
		{"id": "programme", "displayName": "Programme de formation", "wizardStep": 3, "dossierTypes": ["formation", "license"]},
		{"id": "plan", "displayName": "Plan d'intervention", "wizardStep": 4, "dossierTypes": ["formation"]},
		{"id": "presence", "displayName": "Feuille de présence", "wizardStep": 5, "dossierTypes": ["formation"]},
		{"id": "evaluation", "displayName": "Fiche d'évaluation", "wizardStep": 6, "dossierTypes": ["formation"]}
	]
}`

func TestLoad(t *testing.T) {
	reg, err := Load(writeRegistry(t, testRegistry))
	require.NoError(t, err)
	assert.Equal(t, "1.0", reg.Version)
	require.Len(t, reg.Fiches, 4)
}

func TestLoad_DuplicateID(t *testing.T) {
	_, err := Load(writeRegistry(t, `{"fiches": [{"id": "plan"}, {"id": "plan"}]}`))
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestRegistry_ByStep(t *testing.T) {
	reg, err := Load(writeRegistry(t, testRegistry))
	require.NoError(t, err)

	f := reg.ByStep(4, "formation")
	require.NotNil(t, f)
	assert.Equal(t, "plan", f.ID)

	assert.Nil(t, reg.ByStep(4, "license"), "license dossiers have no plan fiche")
	assert.Nil(t, reg.ByStep(7, "formation"), "step 7 has no generation transition")
}

func TestRegistry_ForDossier(t *testing.T) {
	reg, err := Load(writeRegistry(t, testRegistry))
	require.NoError(t, err)

	assert.Len(t, reg.ForDossier("formation"), 4)

	license := reg.ForDossier("license")
	require.Len(t, license, 1)
	assert.Equal(t, "programme", license[0].ID)
}
