package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ByteSize 提供更灵活的反序列化能力，兼容纯字节整数与 "4MB"/"512KB" 等写法。
type ByteSize int64

var byteUnits = []struct {
	suffix string
	factor int64
}{
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"G", 1 << 30},
	{"M", 1 << 20},
	{"K", 1 << 10},
	{"B", 1},
}

// UnmarshalText 使 Viper 可以识别诸如 "4MB"、"512KB" 或纯数字字节值等配置写法。
func (b *ByteSize) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*b = ByteSize(0)
		return nil
	}

	upper := strings.ToUpper(raw)
	for _, unit := range byteUnits {
		if strings.HasSuffix(upper, unit.suffix) {
			numPart := strings.TrimSpace(strings.TrimSuffix(upper, unit.suffix))
			value, err := strconv.ParseFloat(numPart, 64)
			if err != nil {
				return fmt.Errorf("invalid byte size value: %s", raw)
			}
			*b = ByteSize(value * float64(unit.factor))
			return nil
		}
	}

	intVal, err := parseInt(raw)
	if err != nil {
		return fmt.Errorf("invalid byte size value: %s", raw)
	}
	*b = ByteSize(intVal)
	return nil
}

// Int64 返回真实的字节数，便于调用方比较。
func (b ByteSize) Int64() int64 {
	return int64(b)
}

// parseInt 支持十进制或 0x 前缀的十六进制字符串解析。
func parseInt(value string) (int64, error) {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		return strconv.ParseInt(value, 0, 64)
	}
	return strconv.ParseInt(value, 10, 64)
}

// Config 是 TOML 文件映射的整体结构，服务内所有请求共享同一份参数。
type Config struct {
	ListenPort      int      `mapstructure:"ListenPort"`
	LogLevel        string   `mapstructure:"LogLevel"`
	LogFilePath     string   `mapstructure:"LogFilePath"`
	LogMaxSize      int      `mapstructure:"LogMaxSize"`
	LogMaxBackups   int      `mapstructure:"LogMaxBackups"`
	LogCompress     bool     `mapstructure:"LogCompress"`
	StoragePath     string   `mapstructure:"StoragePath"`
	PublicOrigin    string   `mapstructure:"PublicOrigin"`
	AutoIndex       bool     `mapstructure:"AutoIndex"`
	MaxPreviewBytes ByteSize `mapstructure:"MaxPreviewBytes"`
}
