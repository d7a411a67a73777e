package fileurl

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinKey(t *testing.T) {
	assert.Equal(t, "a.png", JoinKey("", "/a.png"))
	assert.Equal(t, "notes/a.png", JoinKey("/notes/", "a.png"))
}

func TestNewUploadKey(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	k1 := NewUploadKey("Photo.PNG", now)
	k2 := NewUploadKey("Photo.PNG", now)

	assert.True(t, strings.HasPrefix(k1, "202610/19/"))
	assert.True(t, strings.HasSuffix(k1, ".png"))
	assert.NotEqual(t, k1, k2)
}

func TestCreatePathAndIsExist(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "a", "b", "c.txt")
	assert.False(t, IsExist(filepath.Dir(dst)))
	require.NoError(t, CreatePath(dst, 0755))
	assert.True(t, IsExist(filepath.Dir(dst)))
}
