package local_fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS_SendFile(t *testing.T) {
	tempDir := t.TempDir()
	client, err := NewClient(&Config{SavePath: tempDir, CustomPath: "notes"})
	require.NoError(t, err)

	key, err := client.SendFile(context.Background(), "202610/19/a.txt", strings.NewReader("hello world"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "notes/202610/19/a.txt", key)

	content, err := os.ReadFile(filepath.Join(tempDir, "notes", "202610", "19", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(content))
}

func TestLocalFS_Delete(t *testing.T) {
	tempDir := t.TempDir()
	client, err := NewClient(&Config{SavePath: tempDir})
	require.NoError(t, err)

	_, err = client.SendFile(context.Background(), "b.txt", strings.NewReader("x"), "text/plain")
	require.NoError(t, err)

	require.NoError(t, client.Delete(context.Background(), "b.txt"))
	_, err = os.Stat(filepath.Join(tempDir, "b.txt"))
	assert.True(t, os.IsNotExist(err))

	// 删除不存在的文件不报错
	assert.NoError(t, client.Delete(context.Background(), "b.txt"))
}

func TestNewClient_EmptySavePath(t *testing.T) {
	_, err := NewClient(&Config{})
	assert.Error(t, err)
}
