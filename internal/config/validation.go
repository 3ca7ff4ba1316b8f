package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	if c.ListenPort <= 0 || c.ListenPort > 65535 {
		return newFieldError("ListenPort", "必须在 1-65535")
	}
	if c.StoragePath == "" {
		return newFieldError("StoragePath", "不能为空")
	}
	if c.MaxPreviewBytes.Int64() <= 0 {
		return newFieldError("MaxPreviewBytes", "必须大于 0")
	}
	if c.LogMaxSize < 0 {
		return newFieldError("LogMaxSize", "不能为负数")
	}
	if c.LogMaxBackups < 0 {
		return newFieldError("LogMaxBackups", "不能为负数")
	}
	if err := validateOrigin(c.PublicOrigin); err != nil {
		return fmt.Errorf("PublicOrigin: %w", err)
	}

	return nil
}

func validateOrigin(raw string) error {
	if raw == "" {
		return errors.New("不能为空")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("仅支持 http/https: %s", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("缺少 Host: %s", raw)
	}
	if strings.HasSuffix(parsed.Path, "/") && parsed.Path != "/" {
		return fmt.Errorf("不允许以 / 结尾: %s", raw)
	}
	return nil
}

// OriginBase 返回去除末尾斜杠的公网源地址，供模块改写拼接 URL。
func (c *Config) OriginBase() string {
	return strings.TrimSuffix(c.PublicOrigin, "/")
}
