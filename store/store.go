package store

// 注意：此包只包含实现，接口定义在 core 包。
// 使用 core.Store 和 core.KeyValueStore 接口。
//
// 示例：
//   var s core.Store = NewMemoryStore()
//   var kv core.KeyValueStore = NewMemoryStore()
//
// 在此之上的领域封装：
//   - RecommendationCache：(候选人, 职位) 维度的打分结果缓存
//   - Embeddings：按 owner id 寻址的向量持久化
