package fileurl

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IsExist determines if the given path exists
// IsExist 判断所给路径是否存在
func IsExist(dst string) bool {
	_, err := os.Stat(dst)
	if err != nil {
		return os.IsExist(err)
	}
	return true
}

// CreatePath creates the parent directory of dst
// CreatePath 创建 dst 的父目录
func CreatePath(dst string, perm os.FileMode) error {
	return os.MkdirAll(filepath.Dir(dst), perm)
}

// PathSuffixCheckAdd checks path suffix, adds it if not exists
// PathSuffixCheckAdd 检查路径后缀，如果没有则添加
func PathSuffixCheckAdd(p string, suffix string) string {
	if !strings.HasSuffix(p, suffix) {
		p = p + suffix
	}
	return p
}

// JoinKey joins a custom prefix and a storage key with single slashes
// JoinKey 以单斜杠拼接自定义前缀与存储键
func JoinKey(customPath, fileKey string) string {
	customPath = strings.Trim(customPath, "/")
	fileKey = strings.TrimPrefix(fileKey, "/")
	if customPath == "" {
		return fileKey
	}
	return customPath + "/" + fileKey
}

// GetFileExt gets file extension in lower case
// GetFileExt 获取小写文件后缀
func GetFileExt(name string) string {
	return strings.ToLower(path.Ext(name))
}

// GetDatePath gets date save path
// GetDatePath 获取日期保存路径
func GetDatePath(now time.Time) string {
	return PathSuffixCheckAdd(now.Format("200601/02"), "/")
}

// NewUploadKey returns a collision free key such as 202610/19/<uuid>.png
// NewUploadKey 生成不冲突的上传键，例如 202610/19/<uuid>.png
func NewUploadKey(fileName string, now time.Time) string {
	return GetDatePath(now) + uuid.NewString() + GetFileExt(fileName)
}
