package xretryconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Format 定义配置文件格式。
type Format string

// 支持的配置格式。
const (
	// FormatYAML YAML 格式（推荐用于 K8s ConfigMap）。
	FormatYAML Format = "yaml"

	// FormatJSON JSON 格式。
	FormatJSON Format = "json"
)

// Source 定义重试策略配置源。
// 只提供增值功能，基础操作请直接使用 Client() 返回的 koanf 实例。
type Source interface {
	// Client 返回底层的 koanf 实例。
	// 用于执行所有 koanf 支持的操作。
	Client() *koanf.Koanf

	// Policy 解析指定键下的重试策略。
	// 从默认策略出发，配置中出现的键覆盖对应字段。
	// key 为空字符串时解析整个配置。
	Policy(key string) (Policy, error)

	// Reload 重新加载配置文件。
	// 此方法是并发安全的。
	// 仅对从文件创建的 Source 有效，从字节数据创建的调用会返回错误。
	Reload() error

	// Path 返回配置文件路径。
	// 从字节数据创建的 Source 返回空字符串。
	Path() string

	// Format 返回配置格式。
	Format() Format
}

// koanfSource 是 Source 接口的 koanf 实现。
type koanfSource struct {
	k       *koanf.Koanf
	path    string
	format  Format
	opts    *Options
	mu      sync.RWMutex
	isBytes bool // 标记是否从字节数据创建
}

// New 从文件路径创建配置源。
// 根据文件扩展名自动检测格式（.yaml/.yml 或 .json）。
func New(path string, opts ...Option) (Source, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	k := koanf.New(options.Delim)
	if err := loadData(k, data, format); err != nil {
		return nil, err
	}

	return &koanfSource{
		k:       k,
		path:    path,
		format:  format,
		opts:    options,
		isBytes: false,
	}, nil
}

// NewFromBytes 从字节数据创建配置源。
// 需要显式指定格式，适用于 K8s ConfigMap 等场景。
//
// 空数据（len(data) == 0）会创建一个空配置源，
// 此时 Policy 返回默认策略。
func NewFromBytes(data []byte, format Format, opts ...Option) (Source, error) {
	if !isValidFormat(format) {
		return nil, ErrUnsupportedFormat
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	k := koanf.New(options.Delim)

	if len(data) > 0 {
		if err := loadData(k, data, format); err != nil {
			return nil, err
		}
	}

	return &koanfSource{
		k:       k,
		path:    "",
		format:  format,
		opts:    options,
		isBytes: true,
	}, nil
}

// Client 返回底层的 koanf 实例。
func (s *koanfSource) Client() *koanf.Koanf {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.k
}

// Policy 解析指定键下的重试策略，未出现的键保留默认值。
func (s *koanfSource) Policy(key string) (Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	policy := DefaultPolicy()
	if err := s.k.UnmarshalWithConf(key, &policy, koanf.UnmarshalConf{
		Tag: s.opts.Tag,
	}); err != nil {
		return Policy{}, fmt.Errorf("%w: %w", ErrUnmarshalFailed, err)
	}

	if err := policy.Validate(); err != nil {
		return Policy{}, err
	}
	return policy, nil
}

// MustPolicy 与 Source.Policy 相同，但失败时 panic。
// 适用于程序启动时的必要配置加载。
func MustPolicy(src Source, key string) Policy {
	policy, err := src.Policy(key)
	if err != nil {
		panic(err)
	}
	return policy
}

// Reload 重新加载配置文件。
func (s *koanfSource) Reload() error {
	if s.isBytes {
		return ErrNotFromFile
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	newK := koanf.New(s.opts.Delim)
	if err := loadData(newK, data, s.format); err != nil {
		return err
	}

	s.mu.Lock()
	s.k = newK
	s.mu.Unlock()

	return nil
}

// Path 返回配置文件路径。
func (s *koanfSource) Path() string {
	return s.path
}

// Format 返回配置格式。
func (s *koanfSource) Format() Format {
	return s.format
}

// =============================================================================
// 内部辅助函数
// =============================================================================

// detectFormat 根据文件扩展名检测配置格式。
func detectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %s", ErrUnsupportedFormat, ext)
	}
}

// isValidFormat 检查格式是否有效。
func isValidFormat(format Format) bool {
	switch format {
	case FormatYAML, FormatJSON:
		return true
	default:
		return false
	}
}

// loadData 加载数据到 koanf 实例。
func loadData(k *koanf.Koanf, data []byte, format Format) error {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return ErrUnsupportedFormat
	}

	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return nil
}
