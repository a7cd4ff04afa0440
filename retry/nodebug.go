//go:build !debug

package retry

func debugLog(string, ...any) {}
