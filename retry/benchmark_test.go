package retry

import (
	"context"
	"strconv"
	"testing"

	"github.com/utkarsh5026/mapretry/cmap"
)

func BenchmarkLookup_Hit(b *testing.B) {
	m := cmap.New[string, int]()
	m.Store("k", 1)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := Lookup(ctx, m, "k"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkInsert_Exhausted(b *testing.B) {
	m := cmap.New[string, int]()
	m.Store("k", 1)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Insert(ctx, m, "k", 2); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReplace_Parallel(b *testing.B) {
	m := cmap.New[string, int]()
	for i := range 1024 {
		m.Store(strconv.Itoa(i), 0)
	}
	ctx := context.Background()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			key := strconv.Itoa(i & 1023)
			cur, _, _ := Lookup(ctx, m, key, WithAttempts(1))
			_, _ = Replace(ctx, m, key, cur+1, cur, WithAttempts(1))
			i++
		}
	})
}
