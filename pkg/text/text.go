// Package text 提供匹配链路共用的文本处理工具：分词、去变音符号、确定性哈希。
// Embedding、需求模型、词法检索都依赖同一套分词规则，保证口径一致。
package text

import (
	"hash/fnv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Tokenize 按词边界切分文本并统一小写。
// 词内字符为字母、数字以及 '-' '+' '.'（覆盖 c++ / .net / node.js 这类技能词），
// 长度小于 2 的 token 被丢弃。同一段文本任何时候都会得到相同的切分结果。
func Tokenize(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ToLower(s)
	tokens := make([]string, 0, 32)
	var b strings.Builder
	runeCount := 0
	flush := func() {
		// 按字符数而不是字节数过滤，"č" 这类多字节单字符不算有效 token
		if runeCount >= 2 {
			tokens = append(tokens, b.String())
		}
		b.Reset()
		runeCount = 0
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '+' || r == '.' {
			b.WriteRune(r)
			runeCount++
			continue
		}
		flush()
	}
	flush()
	return tokens
}

var diacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripDiacritics 去掉变音符号（"vývojář" -> "vyvojar"），用于关键词匹配前的归一化。
// 转换失败时原样返回，不中断调用方。
func StripDiacritics(s string) string {
	out, _, err := transform.String(diacritics, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize 组合小写 + 去变音符号，是关键词扫描的标准入口。
func Normalize(s string) string {
	return StripDiacritics(strings.ToLower(s))
}

// Hash01 把任意字符串确定性地映射到 [0,1)。
// 用于探索位选择这类“伪随机但可复现”的场景：同一输入永远得到同一分数。
func Hash01(s string) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return float64(h.Sum64()>>11) / float64(uint64(1)<<53)
}
