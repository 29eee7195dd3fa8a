package taxonomy

// Default 返回内置的角色分类表，加载链（JSON → CSV → 内置）的最后一环。
// 关键词为去变音符号后的小写形式，覆盖捷克语与英语的常见写法。
func Default() *Taxonomy {
	return &Taxonomy{
		Version: "builtin-1",
		DomainKeywords: map[string][]string{
			"software": {
				"software", "programator", "vyvojar", "developer", "backend",
				"frontend", "devops", "python", "java", "javascript", "golang",
				"kubernetes", "databaze", "it podpora",
			},
			"healthcare": {
				"nemocnice", "ordinace", "zdravotni", "lekar", "sestra",
				"pacient", "klinika", "farmacie", "physician", "nurse",
			},
			"construction": {
				"stavba", "stavebni", "zednik", "maliř", "malir", "pokryvac",
				"instalater", "construction", "omitky",
			},
			"transportation": {
				"ridic", "kamion", "doprava", "logistika", "kuryr", "sklad",
				"vozidlo", "driver", "spedice",
			},
			"finance": {
				"ucetni", "finance", "banka", "pojistovna", "audit", "dane",
				"accountant", "fakturace",
			},
			"education": {
				"ucitel", "skola", "vyuka", "lektor", "teacher", "vzdelavani",
			},
			"gastronomy": {
				"kuchar", "restaurace", "cisnik", "gastro", "pekar", "barista",
			},
			"manufacturing": {
				"vyroba", "operator vyroby", "svarec", "cnc", "montaz",
				"elektrikar", "udrzba", "lisovna",
			},
		},
		RoleFamilyKeywords: map[string][]string{
			"developer":   {"programator", "vyvojar", "developer", "software engineer"},
			"tester":      {"tester", "qa ", "quality assurance"},
			"devops":      {"devops", "sre", "site reliability"},
			"driver":      {"ridic", "kamion", "driver", "rozvoz"},
			"courier":     {"kuryr", "courier", "dorucovani"},
			"warehouse":   {"skladnik", "sklad", "warehouse", "vychystavani"},
			"painter":     {"malir", "natery", "painter", "lakyrnik"},
			"plasterer":   {"omitkar", "sadrokartonar", "zednik"},
			"nurse":       {"sestra", "osetrovatel", "nurse"},
			"physician":   {"lekar", "doktor", "physician"},
			"teacher":     {"ucitel", "lektor", "teacher"},
			"accountant":  {"ucetni", "fakturant", "accountant"},
			"cook":        {"kuchar", "cook", "chef"},
			"baker":       {"pekar", "baker"},
			"waiter":      {"cisnik", "servirka", "waiter"},
			"electrician": {"elektrikar", "elektromontér", "elektromonter", "electrician"},
			"welder":      {"svarec", "welder", "svarovani"},
		},
		RoleFamilyRelations: map[string]map[string]float64{
			"developer": {"tester": 0.6, "devops": 0.7},
			"driver":    {"courier": 0.7, "warehouse": 0.4},
			"painter":   {"plasterer": 0.8},
			"cook":      {"baker": 0.6, "waiter": 0.4},
			"nurse":     {"physician": 0.3},
			"welder":    {"electrician": 0.3},
		},
		RequiredQualifications: []RequiredQualificationRule{
			{
				Name:           "medical_license",
				JobTerms:       []string{"lekar", "physician", "atestace", "ordinace hleda lekare"},
				CandidateTerms: []string{"lekar", "atestace", "md", "mudr", "medicina", "lekarska fakulta"},
			},
			{
				Name:           "nursing_qualification",
				JobTerms:       []string{"zdravotni sestra", "vseobecna sestra", "registered nurse"},
				CandidateTerms: []string{"sestra", "zdravotnicky asistent", "nursing", "osetrovatelstvi"},
			},
			{
				Name:           "truck_license_ce",
				JobTerms:       []string{"ridic kamionu", "ridicsky prukaz c+e", "mkd"},
				CandidateTerms: []string{"c+e", "ridicsky prukaz c", "profesni prukaz", "karta ridice"},
			},
			{
				Name:           "electrician_certificate",
				JobTerms:       []string{"elektrikar", "vyhlaska 50"},
				CandidateTerms: []string{"vyhlaska 50", "§50", "elektrotechnicka zpusobilost", "elektro vzdelani"},
			},
			{
				Name:           "legal_license",
				JobTerms:       []string{"advokat", "advokatni koncipient", "attorney"},
				CandidateTerms: []string{"pravnicka fakulta", "advokatni zkouska", "mgr. pravo", "law degree"},
			},
		},
	}
}
