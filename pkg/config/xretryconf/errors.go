package xretryconf

import "errors"

// 配置加载和策略构建相关错误。
var (
	// ErrEmptyPath 表示配置文件路径为空。
	ErrEmptyPath = errors.New("xretryconf: empty config path")

	// ErrUnsupportedFormat 表示不支持的配置格式。
	ErrUnsupportedFormat = errors.New("xretryconf: unsupported config format")

	// ErrLoadFailed 表示配置加载失败。
	ErrLoadFailed = errors.New("xretryconf: failed to load config")

	// ErrParseFailed 表示配置解析失败。
	ErrParseFailed = errors.New("xretryconf: failed to parse config")

	// ErrUnmarshalFailed 表示策略反序列化失败。
	ErrUnmarshalFailed = errors.New("xretryconf: failed to unmarshal policy")

	// ErrInvalidPolicy 表示策略字段不合法（如未知的退避类型）。
	ErrInvalidPolicy = errors.New("xretryconf: invalid retry policy")

	// ErrNotFromFile 表示操作要求配置源来自文件。
	// 从字节数据创建的 Source 不支持 Reload 和 Watch。
	ErrNotFromFile = errors.New("xretryconf: source not created from file")
)
