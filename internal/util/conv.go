package util

import (
	"strconv"
)

// MustParseUint 将字符串转换为无符号整数，解析失败时返回 0
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// ParseID 严格解析路径参数里的数字ID，非法格式返回错误
func ParseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
