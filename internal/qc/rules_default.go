package qc

// defaultMislabelRules is the compiled-in fallback mislabel table, mirrored
// by mislabel-rules.yaml for operator overrides.
func defaultMislabelRules() mislabelFile {
	return mislabelFile{Rules: []mislabelRule{
		{DocType: "sentenca", Patterns: []string{`julg(o|ou|amos).*(procedente|improcedente)`, `vistos`}},
		{DocType: "acordao", Patterns: []string{`ac[oó]rd[aã]o`, `relator`}},
		{DocType: "acordao-carf", Patterns: []string{`carf|conselho administrativo de recursos fiscais`}},
		{DocType: "peticao-inicial", Patterns: []string{`propor a presente a[cç][aã]o|vem[,]? respeitosamente`}},
		{DocType: "contestacao", Patterns: []string{`contesta[cç][aã]o|improced[eê]ncia`}},
		{DocType: "impugnacao", Patterns: []string{`impugna[cç][aã]o`}},
		{DocType: "despacho", Patterns: []string{`despacho|intimem-se`}},
		{DocType: "decisao", Patterns: []string{`decis[aã]o|defiro`}},
		{DocType: "apelacao", Patterns: []string{`apela[cç][aã]o`}},
		{DocType: "agravo-instrumento", Patterns: []string{`agravo de instrumento`}},
		{DocType: "recurso-especial", Patterns: []string{`recurso especial`}},
		{DocType: "recurso-extraordinario", Patterns: []string{`recurso extraordin[aá]rio`}},
		{DocType: "certidao", Patterns: []string{`certifico`}},
		{DocType: "certidao-transito-julgado", Patterns: []string{`tr[aâ]nsito em julgado`}},
		{DocType: "oficio", Patterns: []string{`of[ií]cio`}},
		{DocType: "mandado", Patterns: []string{`mandado`}},
		{DocType: "laudo-pericial", Patterns: []string{`laudo pericial|perito`}},
		{DocType: "procuracao", Patterns: []string{`procura[cç][aã]o|poderes`}},
		{DocType: "cda", Patterns: []string{`d[ií]vida ativa`}},
		{DocType: "ata-audiencia", Patterns: []string{`audi[eê]ncia`}},
	}}
}
