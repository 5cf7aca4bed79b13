package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

func loadFixture(b *testing.B, name string) string {
	b.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		b.Fatal(err)
	}
	return string(data)
}

func BenchmarkScan(b *testing.B) {
	src := loadFixture(b, "edge_cases.cpp")
	b.SetBytes(int64(len(src)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Scan(src, "edge_cases.cpp")
	}
}

func BenchmarkClassify(b *testing.B) {
	src := loadFixture(b, "edge_cases.cpp")
	b.SetBytes(int64(len(src)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Classify(src)
	}
}
