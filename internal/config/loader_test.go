package config

import "testing"

func TestLoadRejectsInvalidByteSize(t *testing.T) {
	cfg := `
LogLevel = "info"
StoragePath = "./storage"
MaxPreviewBytes = "boom"
`
	path := writeTempConfig(t, cfg)
	if _, err := Load(path); err == nil {
		t.Fatalf("无效 ByteSize 应失败")
	}
}

func TestByteSizeUnmarshalVariants(t *testing.T) {
	testCases := []struct {
		raw  string
		want int64
	}{
		{"4194304", 4194304},
		{"4MB", 4 * 1024 * 1024},
		{"512KB", 512 * 1024},
		{"1G", 1 << 30},
		{"100B", 100},
		{"0x10", 16},
	}

	for _, tc := range testCases {
		var size ByteSize
		if err := size.UnmarshalText([]byte(tc.raw)); err != nil {
			t.Fatalf("解析 %q 失败: %v", tc.raw, err)
		}
		if size.Int64() != tc.want {
			t.Fatalf("%q 应解析为 %d，得到 %d", tc.raw, tc.want, size.Int64())
		}
	}
}
