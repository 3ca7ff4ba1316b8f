package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// RequestFields 提供包名/文件/分发模式字段，供请求日志复用。
func RequestFields(packageSpec, filename, mode, requestID string) logrus.Fields {
	return logrus.Fields{
		"package":    packageSpec,
		"file":       filename,
		"mode":       mode,
		"request_id": requestID,
	}
}
