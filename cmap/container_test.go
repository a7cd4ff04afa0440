package cmap_test

import (
	"github.com/utkarsh5026/mapretry/cmap"
	"github.com/utkarsh5026/mapretry/retry"
)

var (
	_ retry.Container[string, int]  = (*cmap.ShardedMap[string, int])(nil)
	_ retry.Container[int, *string] = (*cmap.ShardedMap[int, *string])(nil)
)
