package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDefaultsMode(t *testing.T) {
	p := &Profile{Mode: "staging", Language: "chinese"}
	require.NoError(t, p.Validate())
	assert.Equal(t, "dev", p.Mode)
	assert.True(t, p.IsDev())
}

func TestValidateRejectsLanguage(t *testing.T) {
	p := &Profile{Mode: "prod", Language: "french"}
	assert.Error(t, p.Validate())
}

func TestValidateRejectsPort(t *testing.T) {
	p := &Profile{Mode: "prod", Language: "english", Port: 70000}
	assert.Error(t, p.Validate())
}

func TestValidateCreatesCacheDir(t *testing.T) {
	dir := t.TempDir() + "/nested/cache"
	p := &Profile{Mode: "prod", Language: "english", CacheDir: dir}
	require.NoError(t, p.Validate())
	assert.Equal(t, dir, p.CacheDir)
	assert.False(t, p.IsDev())
}

func TestListenAddr(t *testing.T) {
	p := &Profile{Addr: "127.0.0.1", Port: 8192}
	assert.Equal(t, "127.0.0.1:8192", p.ListenAddr())
}
