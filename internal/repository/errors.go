package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// 一意制約違反（gateway_referenceなど）
	ErrDuplicate = errors.New("duplicate key")
)
