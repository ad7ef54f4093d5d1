package listview

import "errors"

var (
	// ErrScreenClosed 表示屏幕已关闭。
	ErrScreenClosed = errors.New("screen closed")

	errLengthMismatch = errors.New("applied script length differs from target")
	errEntryMismatch  = errors.New("applied script differs from target")
	errItemMismatch   = errors.New("live items differ from target ids")
)
