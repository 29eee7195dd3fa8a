package taxonomy

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"
)

// Load 按声明式来源加载分类表，失败时逐级回退：
// JSON 文件 → CSV 文件 → 内置默认表。任何一环失败都不报错，
// 调用方永远拿到一张可用的表。路径为空视为跳过该环。
//
// 所有关键词在返回前统一归一化（小写 + 去变音符号），
// 与匹配时的文本口径一致。
func Load(jsonPath, csvPath string) *Taxonomy {
	if jsonPath != "" {
		if t, err := loadJSON(jsonPath); err == nil {
			return t.normalized()
		}
	}
	if csvPath != "" {
		if t, err := loadCSV(csvPath); err == nil {
			return t.normalized()
		}
	}
	return Default().normalized()
}

func loadJSON(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t Taxonomy
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	if t.Version == "" || len(t.DomainKeywords) == 0 {
		return nil, os.ErrInvalid
	}
	return &t, nil
}

// loadCSV 解析扁平化的 CSV 表示，每行为 kind,family,value[,weight]：
//
//	version,,builtin-2,
//	domain_keyword,software,vyvojar,
//	role_keyword,driver,ridic,
//	relation,driver,courier,0.7
//	qual_job,medical_license,lekar,
//	qual_candidate,medical_license,atestace,
func loadCSV(path string) (*Taxonomy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t := &Taxonomy{
		DomainKeywords:      make(map[string][]string),
		RoleFamilyKeywords:  make(map[string][]string),
		RoleFamilyRelations: make(map[string]map[string]float64),
	}
	rules := make(map[string]*RequiredQualificationRule)
	var order []string

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) < 3 {
			continue
		}
		kind, family, value := rec[0], rec[1], rec[2]
		switch kind {
		case "version":
			t.Version = value
		case "domain_keyword":
			t.DomainKeywords[family] = append(t.DomainKeywords[family], value)
		case "role_keyword":
			t.RoleFamilyKeywords[family] = append(t.RoleFamilyKeywords[family], value)
		case "relation":
			if len(rec) < 4 {
				continue
			}
			w, err := strconv.ParseFloat(rec[3], 64)
			if err != nil {
				continue
			}
			if t.RoleFamilyRelations[family] == nil {
				t.RoleFamilyRelations[family] = make(map[string]float64)
			}
			t.RoleFamilyRelations[family][value] = w
		case "qual_job", "qual_candidate":
			rule, ok := rules[family]
			if !ok {
				rule = &RequiredQualificationRule{Name: family}
				rules[family] = rule
				order = append(order, family)
			}
			if kind == "qual_job" {
				rule.JobTerms = append(rule.JobTerms, value)
			} else {
				rule.CandidateTerms = append(rule.CandidateTerms, value)
			}
		}
	}

	if t.Version == "" || len(t.DomainKeywords) == 0 {
		return nil, os.ErrInvalid
	}
	for _, name := range order {
		t.RequiredQualifications = append(t.RequiredQualifications, *rules[name])
	}
	return t, nil
}

// normalized 返回关键词全部归一化后的副本。
func (t *Taxonomy) normalized() *Taxonomy {
	out := &Taxonomy{
		Version:             t.Version,
		DomainKeywords:      normalizeGroups(t.DomainKeywords),
		RoleFamilyKeywords:  normalizeGroups(t.RoleFamilyKeywords),
		RoleFamilyRelations: t.RoleFamilyRelations,
	}
	for _, rule := range t.RequiredQualifications {
		out.RequiredQualifications = append(out.RequiredQualifications, RequiredQualificationRule{
			Name:           rule.Name,
			JobTerms:       normalizeAll(rule.JobTerms),
			CandidateTerms: normalizeAll(rule.CandidateTerms),
		})
	}
	return out
}

func normalizeGroups(groups map[string][]string) map[string][]string {
	out := make(map[string][]string, len(groups))
	for family, kws := range groups {
		out[family] = normalizeAll(kws)
	}
	return out
}

func normalizeAll(kws []string) []string {
	out := make([]string, 0, len(kws))
	for _, kw := range kws {
		if n := normalize(kw); n != "" {
			out = append(out, n)
		}
	}
	return out
}
