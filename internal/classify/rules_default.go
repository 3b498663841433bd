package classify

// defaultRuleFile is the compiled-in fallback rule table, used whenever no
// external YAML rule file is supplied or it fails to load. Mirrors the
// structure of the external data file exactly so the two stay
// interchangeable.
func defaultRuleFile() RuleFile {
	return RuleFile{
		ValidTypes: []string{
			"peticao-inicial", "inicial-eef", "inicial-execfiscal", "inicial-embargos",
			"contestacao", "impugnacao", "contrarrazoes", "replica", "treplica",
			"manifestacao", "alegacoes-finais", "sentenca", "sentenca-edcl", "edcl",
			"despacho", "decisao", "decisao-interlocutoria", "acordao", "acordao-carf",
			"acordao-csrf", "apelacao", "agravo-instrumento", "agravo-interno",
			"recurso-especial", "recurso-extraordinario", "embargos-infringentes",
			"embargos-divergencia", "recurso-ordinario", "cda", "certidao",
			"certidao-publicacao", "certidao-transito-julgado", "oficio",
			"mandado", "intimacao", "citacao", "notificacao", "laudo-pericial",
			"parecer-ministerio-publico", "parecer-tecnico", "procuracao",
			"substabelecimento", "comprovante-pagamento", "guia-custas",
			"extrato-processual", "ata-audiencia", "termo-audiencia",
			"peticao-juntada", "peticao-diversos", "recurso-adesivo",
			"contrarrazoes-especial", "contrarrazoes-extraordinario",
			"cumprimento-sentenca", "impugnacao-cumprimento-sentenca",
			"exceção-pre-executividade", "embargos-execucao", "penhora",
			"auto-penhora", "carta-precatoria", "capa-processo", "lixo",
			"documento-pessoal", "comprovante-residencia", "anexo-diverso",
		},
		Rules: []RuleSpec{
			{Type: "peticao-inicial", Weight: 0.85, Patterns: []string{
				`excelent[ií]ssimo senhor doutor juiz`, `vem[,]? respeitosamente[,]? à presença`,
				`propor a presente a[cç][aã]o`, `requer a cita[cç][aã]o do r[ée]u`,
				`dá-se à causa`,
			}},
			{Type: "inicial-eef", Weight: 0.88, Patterns: []string{
				`execu[cç][aã]o fiscal`, `embargos à execu[cç][aã]o fiscal`,
				`cert[ií]d[aã]o de d[ií]vida ativa`,
			}},
			{Type: "inicial-execfiscal", Weight: 0.80, Patterns: []string{
				`execu[cç][aã]o fiscal`, `d[ií]vida ativa`, `fazenda (p[uú]blica|nacional)`,
			}},
			{Type: "inicial-embargos", Weight: 0.85, Patterns: []string{
				`embargos (à|a) execu[cç][aã]o`, `opõe embargos`,
			}},
			{Type: "contestacao", Weight: 0.85, Patterns: []string{
				`apresenta (sua )?contesta[cç][aã]o`, `impugna os termos da inicial`,
				`requer a improced[eê]ncia`,
			}},
			{Type: "impugnacao", Weight: 0.80, Patterns: []string{
				`impugna[cç][aã]o à contesta[cç][aã]o`, `impugna os c[aá]lculos`,
			}},
			{Type: "contrarrazoes", Weight: 0.82, Patterns: []string{
				`apresenta (suas )?contrarraz[oõ]es`, `contrarraz[oõ]es de apela[cç][aã]o`,
			}},
			{Type: "replica", Weight: 0.78, Patterns: []string{`apresenta r[ée]plica`}},
			{Type: "treplica", Weight: 0.78, Patterns: []string{`apresenta tr[ée]plica`}},
			{Type: "manifestacao", Weight: 0.72, Patterns: []string{
				`vem manifestar-se`, `em manifesta[cç][aã]o`,
			}},
			{Type: "alegacoes-finais", Weight: 0.82, Patterns: []string{
				`alega[cç][oõ]es finais`, `mem[oó]riais finais`,
			}},
			{Type: "sentenca", Weight: 0.88, Patterns: []string{
				`vistos[.]`, `ante o exposto`, `julgo (procedente|improcedente)`,
				`p\.?r\.?i\.?`,
			}},
			{Type: "sentenca-edcl", Weight: 0.85, Patterns: []string{
				`embargos de declara[cç][aã]o`, `acolho os embargos de declara[cç][aã]o`,
			}},
			{Type: "edcl", Weight: 0.80, Patterns: []string{
				`op[oõ]e embargos de declara[cç][aã]o`, `omiss[aã]o|contradi[cç][aã]o|obscuridade`,
			}},
			{Type: "despacho", Weight: 0.75, Patterns: []string{`^despacho`, `intimem-se as partes`}},
			{Type: "decisao", Weight: 0.75, Patterns: []string{`^decis[aã]o`, `defiro o pedido`}},
			{Type: "decisao-interlocutoria", Weight: 0.78, Patterns: []string{
				`decis[aã]o interlocut[oó]ria`, `defiro parcialmente`,
			}},
			{Type: "acordao", Weight: 0.85, Patterns: []string{
				`ac[oó]rd[aã]o`, `a turma[,]? por unanimidade`, `relator[(a)]*:`,
			}},
			{Type: "acordao-carf", Weight: 0.88, Patterns: []string{
				`conselho administrativo de recursos fiscais`, `carf`,
			}},
			{Type: "acordao-csrf", Weight: 0.88, Patterns: []string{
				`c[aâ]mara superior de recursos fiscais`, `csrf`,
			}},
			{Type: "apelacao", Weight: 0.85, Patterns: []string{
				`recurso de apela[cç][aã]o`, `interp[oõ]e apela[cç][aã]o`,
			}},
			{Type: "agravo-instrumento", Weight: 0.83, Patterns: []string{
				`agravo de instrumento`,
			}},
			{Type: "agravo-interno", Weight: 0.80, Patterns: []string{`agravo interno`}},
			{Type: "recurso-especial", Weight: 0.85, Patterns: []string{
				`recurso especial`, `superior tribunal de justi[cç]a`,
			}},
			{Type: "recurso-extraordinario", Weight: 0.85, Patterns: []string{
				`recurso extraordin[aá]rio`, `supremo tribunal federal`,
			}},
			{Type: "embargos-infringentes", Weight: 0.80, Patterns: []string{`embargos infringentes`}},
			{Type: "embargos-divergencia", Weight: 0.80, Patterns: []string{`embargos de diverg[eê]ncia`}},
			{Type: "recurso-ordinario", Weight: 0.78, Patterns: []string{`recurso ordin[aá]rio`}},
			{Type: "cda", Weight: 0.85, Patterns: []string{
				`cert[ií]d[aã]o de d[ií]vida ativa`, `cda n[º°o]`,
			}},
			{Type: "certidao", Weight: 0.75, Patterns: []string{`^certid[aã]o`, `certifico que`}},
			{Type: "certidao-publicacao", Weight: 0.80, Patterns: []string{
				`certid[aã]o de publica[cç][aã]o`, `certifico que foi publicado`,
			}},
			{Type: "certidao-transito-julgado", Weight: 0.85, Patterns: []string{
				`tr[aâ]nsito em julgado`, `certifico o tr[aâ]nsito`,
			}},
			{Type: "oficio", Weight: 0.80, Patterns: []string{`of[ií]cio n[º°o]`, `^of[ií]cio`}},
			{Type: "mandado", Weight: 0.78, Patterns: []string{`mandado de (cita[cç][aã]o|intima[cç][aã]o|penhora)`}},
			{Type: "intimacao", Weight: 0.75, Patterns: []string{`fica (a parte )?intimad[oa]`}},
			{Type: "citacao", Weight: 0.75, Patterns: []string{`fica (o r[ée]u )?citad[oa]`}},
			{Type: "notificacao", Weight: 0.73, Patterns: []string{`notifica[cç][aã]o extrajudicial`}},
			{Type: "laudo-pericial", Weight: 0.85, Patterns: []string{
				`laudo pericial`, `perito nomeado`, `quesitos formulados`,
			}},
			{Type: "parecer-ministerio-publico", Weight: 0.85, Patterns: []string{
				`minist[ée]rio p[uú]blico`, `parecer minister(ial|io p[uú]blico)`,
			}},
			{Type: "parecer-tecnico", Weight: 0.75, Patterns: []string{`parecer t[ée]cnico`}},
			{Type: "procuracao", Weight: 0.85, Patterns: []string{
				`procura[cç][aã]o`, `confere poderes`, `outorga poderes`,
			}},
			{Type: "substabelecimento", Weight: 0.83, Patterns: []string{`substabelece[,]? sem reserva`}},
			{Type: "comprovante-pagamento", Weight: 0.78, Patterns: []string{
				`comprovante de pagamento`, `dare|darf paga`,
			}},
			{Type: "guia-custas", Weight: 0.78, Patterns: []string{`guia de (custas|recolhimento)`}},
			{Type: "extrato-processual", Weight: 0.70, Patterns: []string{`extrato process(ual|o)`}},
			{Type: "ata-audiencia", Weight: 0.82, Patterns: []string{`ata de audi[eê]ncia`}},
			{Type: "termo-audiencia", Weight: 0.82, Patterns: []string{`termo de audi[eê]ncia`}},
			{Type: "peticao-juntada", Weight: 0.70, Patterns: []string{`vem[,]? respeitosamente[,]? juntar`}},
			{Type: "peticao-diversos", Weight: 0.60, Patterns: []string{`vem[,]? à presença de vossa excel[eê]ncia`}},
			{Type: "recurso-adesivo", Weight: 0.78, Patterns: []string{`recurso adesivo`}},
			{Type: "contrarrazoes-especial", Weight: 0.80, Patterns: []string{`contrarraz[oõ]es (ao|do) recurso especial`}},
			{Type: "contrarrazoes-extraordinario", Weight: 0.80, Patterns: []string{`contrarraz[oõ]es (ao|do) recurso extraordin[aá]rio`}},
			{Type: "cumprimento-sentenca", Weight: 0.83, Patterns: []string{`cumprimento de senten[cç]a`}},
			{Type: "impugnacao-cumprimento-sentenca", Weight: 0.82, Patterns: []string{
				`impugna[cç][aã]o ao cumprimento de senten[cç]a`,
			}},
			{Type: "exceção-pre-executividade", Weight: 0.82, Patterns: []string{
				`exce[cç][aã]o de pr[ée]-executividade`,
			}},
			{Type: "embargos-execucao", Weight: 0.82, Patterns: []string{`embargos [aà] execu[cç][aã]o`}},
			{Type: "penhora", Weight: 0.75, Patterns: []string{`penhora (sobre|de) (o|os) bem`}},
			{Type: "auto-penhora", Weight: 0.80, Patterns: []string{`auto de penhora`}},
			{Type: "carta-precatoria", Weight: 0.80, Patterns: []string{`carta precat[oó]ria`}},
			{Type: "capa-processo", Weight: 0.70, Patterns: []string{`capa do processo|autos n[º°o]`}},
			{Type: "documento-pessoal", Weight: 0.65, Patterns: []string{
				`carteira de identidade`, `cpf n[º°o]`, `registro geral`,
			}},
			{Type: "comprovante-residencia", Weight: 0.70, Patterns: []string{`comprovante de resid[eê]ncia`}},
			{Type: "anexo-diverso", Weight: 0.55, Patterns: []string{`documento anexo`}},
			{Type: "lixo", Weight: 0.90, Patterns: []string{
				`^\s*$`, `p[aá]gina em branco`, `esta p[aá]gina foi deixada`,
			}},
		},
		Disambiguation: []DisambiguationSpec{
			{Type: "acordao-carf", Structural: []string{`a turma[,]? por`, `ac[oó]rd[aã]o n[º°o]`}, EntityOnly: []string{`carf`}},
			{Type: "acordao-csrf", Structural: []string{`a turma[,]? por`, `ac[oó]rd[aã]o n[º°o]`}, EntityOnly: []string{`csrf`}},
			{Type: "recurso-especial", Structural: []string{`interp[oõ]e recurso especial`}, EntityOnly: []string{`superior tribunal de justi[cç]a`}},
			{Type: "recurso-extraordinario", Structural: []string{`interp[oõ]e recurso extraordin[aá]rio`}, EntityOnly: []string{`supremo tribunal federal`}},
			{Type: "cda", Structural: []string{`cda n[º°o]`}, EntityOnly: []string{`cert[ií]d[aã]o de d[ií]vida ativa`}},
			{Type: "inicial-eef", Structural: []string{`propor a presente`, `vem[,]? respeitosamente`}, EntityOnly: []string{`execu[cç][aã]o fiscal`}},
			{Type: "mandado", Structural: []string{`mandado de`}, EntityOnly: []string{`cita[cç][aã]o|intima[cç][aã]o|penhora`}},
			{Type: "citacao", Structural: []string{`fica (o r[ée]u )?citad[oa]`}, EntityOnly: []string{`cita[cç][aã]o`}},
			{Type: "intimacao", Structural: []string{`fica (a parte )?intimad[oa]`}, EntityOnly: []string{`intima[cç][aã]o`}},
			{Type: "penhora", Structural: []string{`penhora (sobre|de)`}, EntityOnly: []string{`penhora`}},
			{Type: "parecer-ministerio-publico", Structural: []string{`opina o minist[ée]rio p[uú]blico`}, EntityOnly: []string{`minist[ée]rio p[uú]blico`}},
			{Type: "procuracao", Structural: []string{`confere poderes`, `outorga poderes`}, EntityOnly: []string{`procura[cç][aã]o`}},
		},
		Specificity: []string{
			"inicial-eef", "acordao-carf", "acordao-csrf", "sentenca-edcl",
			"impugnacao-cumprimento-sentenca", "contrarrazoes-especial",
			"contrarrazoes-extraordinario", "certidao-publicacao",
			"certidao-transito-julgado", "auto-penhora",
			"inicial-execfiscal", "acordao", "sentenca", "contrarrazoes",
			"certidao", "peticao-inicial",
		},
	}
}
