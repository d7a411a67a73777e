package util

import (
	"regexp"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

// IsValidUsername verifies if the username format is correct
// IsValidUsername 验证用户名格式是否正确
// Username format: letters, numbers, underscores, length 3-20
// 用户名格式：字母、数字、下划线，长度3-20
func IsValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}
