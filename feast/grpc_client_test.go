package feast

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/matchkit/core"
)

// TestGrpcClient_GetOnlineFeatures 测试 gRPC 客户端的基本功能
// 注意：需要连接真实的 Feast 服务器才能运行
func TestGrpcClient_GetOnlineFeatures(t *testing.T) {
	t.Skip("需要连接真实的 Feast 服务器才能运行")

	ctx := context.Background()

	client, err := NewGrpcClient("localhost", 6565, "matchkit")
	if err != nil {
		t.Fatalf("创建客户端失败: %v", err)
	}
	defer client.Close()

	req := &GetOnlineFeaturesRequest{
		Features: []string{"skill_demand:score"},
		EntityRows: []map[string]interface{}{
			{"skill": "python", "country": "cz", "city": "praha"},
			{"skill": "java", "country": "cz", "city": "praha"},
		},
	}

	resp, err := client.GetOnlineFeatures(ctx, req)
	if err != nil {
		t.Fatalf("获取特征失败: %v", err)
	}
	if len(resp.FeatureVectors) != 2 {
		t.Errorf("期望 2 个特征向量，实际得到 %d 个", len(resp.FeatureVectors))
	}
}

// TestToSDKValue 测试值类型转换
func TestToSDKValue(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
	}{
		{"string", "test"},
		{"int", 100},
		{"int64", int64(100)},
		{"float64", 3.14},
		{"bool", true},
		{"[]byte", []byte("test")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if toSDKValue(tt.input) == nil {
				t.Errorf("转换结果不应该为 nil")
			}
		})
	}
}

// TestFromSDKValue 测试从 SDK 值类型转换，数值统一为 float64
func TestFromSDKValue(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want interface{}
	}{
		{"string", "test", "test"},
		{"int64", int64(100), float64(100)},
		{"float64", 3.14, 3.14},
		{"bool_true", true, float64(1)},
		{"bool_false", false, float64(0)},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fromSDKValue(tt.in); got != tt.want {
				t.Errorf("fromSDKValue(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		host     string
		port     int
	}{
		{"localhost:6565", "localhost", 6565},
		{"grpc://feast.internal:6565", "feast.internal", 6565},
		{"localhost", "localhost", 0},
	}

	for _, tt := range tests {
		host, port := parseEndpoint(tt.endpoint)
		if host != tt.host || port != tt.port {
			t.Errorf("parseEndpoint(%q) = (%q, %d), want (%q, %d)", tt.endpoint, host, port, tt.host, tt.port)
		}
	}
}

// fakeClient 是测试用的内存 Feast 客户端
type fakeClient struct {
	scores map[string]float64 // skill -> score
	err    error
}

func (f *fakeClient) GetOnlineFeatures(ctx context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	feature := req.Features[0]
	vectors := make([]FeatureVector, len(req.EntityRows))
	for i, row := range req.EntityRows {
		values := map[string]interface{}{}
		if score, ok := f.scores[row["skill"].(string)]; ok {
			values[feature] = score
		}
		vectors[i] = FeatureVector{Values: values, EntityRow: row}
	}
	return &GetOnlineFeaturesResponse{FeatureVectors: vectors}, nil
}

func (f *fakeClient) Close() error { return nil }

func TestDemandSource_Scores(t *testing.T) {
	src := &DemandSource{Client: &fakeClient{scores: map[string]float64{
		"python": 0.8,
		"scrum":  0.4,
	}}}

	scores, err := src.Scores(context.Background(), []string{"Python", "scrum", "cobol"}, "CZ", "Praha")
	if err != nil {
		t.Fatalf("Scores: %v", err)
	}
	if scores["Python"] != 0.8 || scores["scrum"] != 0.4 {
		t.Errorf("scores = %v", scores)
	}
	// 没有记录的技能缺席于结果
	if _, ok := scores["cobol"]; ok {
		t.Error("unknown skill must be absent from result")
	}
}

func TestDemandSource_Unavailable(t *testing.T) {
	src := &DemandSource{Client: &fakeClient{err: errors.New("connection refused")}}

	_, err := src.Scores(context.Background(), []string{"python"}, "cz", "praha")
	if err == nil {
		t.Fatal("expected error")
	}
	de := core.GetDomainError(err)
	if de == nil || de.Code != core.ErrorCodeDataSourceUnavailable {
		t.Errorf("err = %v, want DATA_SOURCE_UNAVAILABLE domain error", err)
	}
}

func TestDemandSource_EmptySkills(t *testing.T) {
	src := &DemandSource{Client: &fakeClient{}}
	scores, err := src.Scores(context.Background(), nil, "cz", "praha")
	if err != nil || len(scores) != 0 {
		t.Errorf("got (%v, %v), want empty map and nil error", scores, err)
	}
}
