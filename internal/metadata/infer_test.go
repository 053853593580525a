package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/snipdocs-go/internal/domain"
	"github.com/quantmind-br/snipdocs-go/internal/version"
)

func TestParseDirName(t *testing.T) {
	tests := []struct {
		name    string
		wantPkg string
		wantVer string
		wantOK  bool
	}{
		{"Billing_2.1", "Billing", "2.1", true},
		{"My_Lib_3", "My_Lib", "3", true},
		{"Billing", "", "", false},
		{"snake_case", "", "", false},
		{"_1.0", "", "", false},
		{"Billing_", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, ver, ok := ParseDirName(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantPkg, pkg)
			if tt.wantOK {
				require.NotNil(t, ver)
				assert.Equal(t, tt.wantVer, ver.String())
			}
		})
	}
}

func TestInferrer_Extract(t *testing.T) {
	root := t.TempDir()
	versioned := filepath.Join(root, "bill_2.0")
	child := filepath.Join(versioned, "samples")
	override := filepath.Join(child, "next")
	require.NoError(t, os.MkdirAll(override, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(override, ".snippets.yaml"), []byte("version: \"[3.0,)\"\n"), 0644))

	inferrer := NewInferrer(map[string]string{"Bill": "Billing"})

	rootMeta, err := inferrer.Extract(root, domain.Metadata{})
	require.NoError(t, err)
	assert.Equal(t, domain.Metadata{}, rootMeta)

	verMeta, err := inferrer.Extract(versioned, rootMeta)
	require.NoError(t, err)
	assert.Equal(t, "Billing", verMeta.Package)
	assert.Equal(t, "2.0", version.FormatPtr(verMeta.Version))

	childMeta, err := inferrer.Extract(child, verMeta)
	require.NoError(t, err)
	assert.Equal(t, verMeta.String(), childMeta.String())

	overrideMeta, err := inferrer.Extract(override, childMeta)
	require.NoError(t, err)
	assert.Equal(t, "Billing", overrideMeta.Package)
	assert.Equal(t, "[3.0,)", version.FormatPtr(overrideMeta.Version))
}

func TestInferrer_Extract_BadVersion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".snippets.yaml"), []byte("version: nope\n"), 0644))

	_, err := NewInferrer(nil).Extract(dir, domain.Metadata{})
	assert.ErrorIs(t, err, domain.ErrInvalidVersion)
}

func TestTranslator(t *testing.T) {
	translate := Translator(map[string]string{"nsb": "NServiceBus"})

	assert.Equal(t, "NServiceBus", translate("nsb"))
	assert.Equal(t, "NServiceBus", translate("NSB"))
	assert.Equal(t, "Other", translate("Other"))
}
