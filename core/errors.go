package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 匹配引擎中的降级路径都必须是显式的：上游拿到带类型的错误后自行决定
// 用默认值、用兜底实现还是返回空结果，而不是把失败吞在控制流里。
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "CONFIG_UNAVAILABLE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "scoring", "search"）
	Cause   error  // 底层错误（可为 nil），用于日志排障
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// GetDomainError 获取 DomainError（支持 wrap 链），如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorWithCause 创建带底层错误的领域错误
func NewDomainErrorWithCause(module, code, message string, cause error) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// 错误代码常量
const (
	// 通用错误代码
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 服务不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误

	// 匹配引擎错误代码
	ErrorCodeConfigUnavailable     = "CONFIG_UNAVAILABLE"      // 权重/配置源不可用，应使用默认值
	ErrorCodeDataSourceUnavailable = "DATA_SOURCE_UNAVAILABLE" // 画像/职位存储不可用，应返回空结果
	ErrorCodeDelegatedUnavailable  = "DELEGATED_UNAVAILABLE"   // 委托检索服务不可用，应回退进程内排序
	ErrorCodeMalformedInput        = "MALFORMED_INPUT"         // 单条记录字段无法解析，按缺失处理
	ErrorCodeNoClass               = "NO_CLASS"                // 评估集缺少正类或负类，指标无定义
)

// 模块名称常量
const (
	ModuleStore    = "store"    // 存储模块
	ModuleConfig   = "config"   // 配置模块
	ModuleProfile  = "profile"  // 画像/职位数据模块
	ModuleScoring  = "scoring"  // 打分模块
	ModuleSearch   = "search"   // 检索模块
	ModuleEvaluate = "evaluate" // 离线评估模块
	ModuleFeature  = "feature"  // 特征模块
	ModuleDemand   = "demand"   // 需求模型模块
)

func codeIs(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool { return codeIs(err, ErrorCodeNotFound) }

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool { return codeIs(err, ErrorCodeNotSupported) }

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool { return codeIs(err, ErrorCodeUnavailable) }

// IsConfigUnavailable 检查错误是否为配置源不可用
func IsConfigUnavailable(err error) bool { return codeIs(err, ErrorCodeConfigUnavailable) }

// IsDataSourceUnavailable 检查错误是否为数据源不可用
func IsDataSourceUnavailable(err error) bool { return codeIs(err, ErrorCodeDataSourceUnavailable) }

// IsDelegatedUnavailable 检查错误是否为委托检索不可用
func IsDelegatedUnavailable(err error) bool { return codeIs(err, ErrorCodeDelegatedUnavailable) }

// IsMalformedInput 检查错误是否为单条记录解析失败
func IsMalformedInput(err error) bool { return codeIs(err, ErrorCodeMalformedInput) }

// IsNoClass 检查评估指标是否因缺少正/负类而无定义
func IsNoClass(err error) bool { return codeIs(err, ErrorCodeNoClass) }
