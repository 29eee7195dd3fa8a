package feast

import (
	"strconv"
	"strings"
)

// NewClient 统一的客户端创建函数。
//
// 参数：
//   - endpoint: 服务端点，例如 "localhost:6565" 或 "grpc://localhost:6565"
//   - project: 项目名称
//   - opts: 配置选项
//
// 示例：
//
//	client, err := feast.NewClient("localhost:6565", "matchkit")
func NewClient(endpoint, project string, opts ...ClientOption) (Client, error) {
	host, port := parseEndpoint(endpoint)
	return NewGrpcClient(host, port, project, opts...)
}

// parseEndpoint 解析端点地址，返回 host 和 port
func parseEndpoint(endpoint string) (string, int) {
	// 移除协议前缀
	endpoint = strings.TrimPrefix(endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "grpc://")

	// 分割 host:port
	parts := strings.Split(endpoint, ":")
	if len(parts) == 2 {
		port, err := strconv.Atoi(parts[1])
		if err == nil {
			return parts[0], port
		}
	}

	// 如果没有端口，返回默认值
	return endpoint, 0
}
