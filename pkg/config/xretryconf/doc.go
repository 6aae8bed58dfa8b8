// Package xretryconf 提供声明式的重试策略配置，基于 koanf 实现。
//
// # 设计理念
//
// xretryconf 定位为 xretry 的配置前端：从 YAML/JSON 文件或字节数据
// 加载重试策略描述，合并默认值后构建可直接使用的 *xretry.Retryer。
// 不负责配置治理（环境变量覆盖、多级配置合并），
// 这些能力由上层业务框架按需实现。
//
// xretryconf 采用与 xretry 相同的设计模式：
//   - 工厂函数：New, NewFromBytes
//   - Client() 暴露底层 koanf 实例
//   - 增值功能：并发安全的 Reload、带默认值合并的 Policy 解析
//
// # 支持的格式
//
//   - YAML（默认，推荐）：.yaml, .yml
//   - JSON：.json
//
// # 合并语义
//
// Policy 解析总是从默认值出发（3 次尝试、线性退避、1s 基础延迟、无抖动），
// 配置中出现的键覆盖对应字段，未出现的键保留默认值。
// 这与 xretry.NewRetryer 的零配置默认行为一致：空配置文件
// 构建出的 Retryer 与 xretry.NewRetryer() 等价。
//
// 延迟字段使用 mapstructure 的 duration 钩子解析，
// 支持 "500ms"、"2s" 等字符串写法。
//
// # 配置示例
//
//	retry:
//	  max_attempts: 5
//	  backoff: exponential
//	  base_delay: 200ms
//	  max_delay: 30s
//	  jitter: true
//
//	src, _ := xretryconf.New("/etc/app/config.yaml")
//	policy, _ := src.Policy("retry")
//	r, _ := policy.Build()
//	err := r.Do(ctx, fetchRemote)
//
// # 配置监视
//
// 支持文件变更监视和自动重载（基于 fsnotify）。
// 特性：监视目录、内置防抖、并发安全、支持 vim/emacs 原子写入。
// 从 bytes 创建的 Source 不支持监视。
package xretryconf
