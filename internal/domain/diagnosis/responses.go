package diagnosis

// responses holds the canned payloads. Professions without an entry fall
// back to Physio.
var responses = map[Profession]Result{
	Physio: {
		ContextAnalysis: "Com base nos sintomas descritos, o paciente apresenta um quadro consistente com lombalgia mecânica crônica, com componente miofascial importante e possível relação com encurtamento da cadeia posterior e fraqueza da musculatura estabilizadora do core. Há indicação de alteração postural associada ao comportamento sedentário e ergonomia inadequada no ambiente de trabalho.",
		Recommendations: "Recomendo iniciar com fisioterapia focada em mobilidade articular, liberação miofascial e fortalecimento progressivo da musculatura estabilizadora. Exercícios de baixo impacto 3 vezes por semana, complementados com alongamentos diários e orientações ergonômicas são essenciais. É importante seguir uma progressão gradual de carga e intensidade, respeitando os limites de dor do paciente.",
		Resources: []Resource{
			{Title: "Guia de Exercícios para Coluna", Type: "PDF", URL: "#"},
			{Title: "Exercícios de Alongamento da Cadeia Posterior", Type: "Vídeo", URL: "#"},
			{Title: "Orientações Ergonômicas para Trabalho Sentado", Type: "Artigo", URL: "#"},
		},
		Plan: []PlanDay{
			{Day: 1, Activities: []string{"Avaliação física completa", "Exercícios básicos de mobilidade", "Aplicação de terapia manual inicial"}},
			{Day: 2, Activities: []string{"Alongamentos específicos", "Técnicas de relaxamento muscular", "Orientações posturais básicas"}},
			{Day: 3, Activities: []string{"Exercícios de fortalecimento inicial", "Mobilização articular", "Técnicas de autocuidado"}},
			{Day: 7, Activities: []string{"Reavaliação de progresso", "Ajustes no plano de tratamento", "Incremento na intensidade dos exercícios"}},
			{Day: 14, Activities: []string{"Avaliação final do ciclo", "Definição de próximos passos", "Plano de manutenção e prevenção"}},
		},
		References: []string{
			"American Physical Therapy Association - Clinical Practice Guidelines for Low Back Pain, 2023",
			"Sociedade Brasileira de Fisioterapia - Diretrizes para tratamento da dor lombar crônica, 2022",
			"European Spine Journal - Effectiveness of exercise therapy for chronic low back pain, 2021",
		},
	},
	Nutritionist: {
		ContextAnalysis: "De acordo com a descrição, o paciente apresenta sinais de alimentação desregulada com consumo excessivo de carboidratos refinados e alimentos ultraprocessados. Há também relato de rotina agitada que dificulta a preparação de refeições balanceadas.",
		Recommendations: "Recomendo uma reestruturação gradual do plano alimentar, com foco em alimentos integrais e preparação prévia de refeições. É importante considerar os horários irregulares do paciente e fornecer opções práticas que possam ser transportadas.",
		Resources: []Resource{
			{Title: "Guia Alimentar para a População Brasileira", Type: "PDF", URL: "#"},
			{Title: "Técnicas de preparo de marmitas saudáveis", Type: "Vídeo", URL: "#"},
			{Title: "Lista de substitutos para alimentos ultraprocessados", Type: "Artigo", URL: "#"},
		},
		Plan: []PlanDay{
			{Day: 1, Activities: []string{"Avaliação nutricional completa", "Registro alimentar de 3 dias", "Orientação inicial"}},
			{Day: 7, Activities: []string{"Análise do registro alimentar", "Ajustes no plano alimentar", "Introdução de novas receitas"}},
			{Day: 15, Activities: []string{"Avaliação de adaptação", "Ajustes finos nas porções", "Estratégias para alimentação fora de casa"}},
			{Day: 30, Activities: []string{"Reavaliação completa", "Análise de exames bioquímicos", "Ajustes no plano baseados em resultados"}},
		},
		NutritionPlan: &NutritionPlan{Meals: []Meal{
			{
				Name:  "Café da manhã",
				Time:  "7:00 - 8:00",
				Foods: []string{"1 fatia de pão integral", "1 ovo mexido", "1 fruta média", "Chá verde ou café sem açúcar"},
				Notes: "Priorizar proteínas no café da manhã para maior saciedade",
			},
			{
				Name:  "Lanche da manhã",
				Time:  "10:00 - 10:30",
				Foods: []string{"1 punhado de oleaginosas (castanhas, amêndoas)", "1 fruta pequena"},
				Notes: "Pode ser substituído por um iogurte natural com frutas",
			},
			{
				Name:  "Almoço",
				Time:  "12:30 - 13:30",
				Foods: []string{"Vegetais folhosos à vontade", "4-5 colh. sopa de arroz integral ou quinoa", "120g proteína magra (frango, peixe)", "1-2 colh. sopa azeite extra virgem"},
				Notes: "Método do prato: metade vegetais, 1/4 proteínas, 1/4 carboidratos",
			},
			{
				Name:  "Lanche da tarde",
				Time:  "16:00 - 16:30",
				Foods: []string{"Smoothie: 1 fruta + folhas verdes + leite vegetal", "1 fatia de torrada integral"},
				Notes: "Opção prática para levar em recipiente térmico",
			},
			{
				Name:  "Jantar",
				Time:  "19:30 - 20:30",
				Foods: []string{"Sopa de legumes com proteína", "1 porção pequena de carboidrato complexo", "Chá digestivo"},
				Notes: "Refeição leve para melhorar qualidade do sono",
			},
		}},
		References: []string{
			"Sociedade Brasileira de Alimentação e Nutrição (SBAN) - Diretrizes para uma alimentação saudável, 2023",
			"American Journal of Clinical Nutrition - Efeitos da distribuição proteica ao longo do dia, 2021",
			"Ministério da Saúde - Guia Alimentar para a População Brasileira, 2022",
		},
	},
	Psychologist: {
		ContextAnalysis: "O paciente apresenta sintomas consistentes com transtorno de ansiedade generalizada, com preocupações excessivas em múltiplos contextos, dificuldade para controlar essas preocupações e sintomas somáticos como tensão muscular e dificuldade para dormir. Os sintomas estão presentes há mais de 6 meses e causam prejuízo significativo no funcionamento social e profissional.",
		Recommendations: "Recomendo uma abordagem multipronged incluindo terapia cognitivo-comportamental (TCC) focada em técnicas de enfrentamento, reestruturação cognitiva para identificar e desafiar pensamentos catastróficos, e treinamento em técnicas de relaxamento e mindfulness. É importante estabelecer uma rotina de sono regular e considerar encaminhamento para avaliação psiquiátrica para possível tratamento medicamentoso complementar. O plano terapêutico deve incluir sessões semanais inicialmente, com reavaliação após 8 semanas.",
		Resources: []Resource{
			{Title: "Diário de pensamentos e emoções", Type: "PDF", URL: "#"},
			{Title: "Áudios guiados de relaxamento progressivo", Type: "Áudio", URL: "#"},
			{Title: "Técnicas de respiração diafragmática", Type: "Vídeo", URL: "#"},
		},
		Plan: []PlanDay{
			{Day: 1, Activities: []string{"Avaliação clínica completa", "Estabelecimento de aliança terapêutica", "Psicoeducação sobre ansiedade"}},
			{Day: 7, Activities: []string{"Introdução às técnicas de respiração e relaxamento", "Identificação de gatilhos de ansiedade", "Estabelecimento de metas iniciais"}},
			{Day: 14, Activities: []string{"Revisão do diário de pensamentos", "Início da reestruturação cognitiva", "Prática guiada de mindfulness"}},
			{Day: 28, Activities: []string{"Desenvolvimento de estratégias de enfrentamento", "Exposição gradual a situações ansiogênicas", "Revisão do progresso inicial"}},
			{Day: 56, Activities: []string{"Reavaliação completa", "Ajuste do plano terapêutico", "Prevenção de recaídas"}},
		},
		References: []string{
			"American Psychological Association - Diretrizes para tratamento de transtornos de ansiedade, 2023",
			"Beck, J. S. (2021). Terapia Cognitivo-Comportamental: Teoria e Prática. 3ª ed.",
			"Barlow, D. H. (2022). Manual clínico dos transtornos psicológicos: Tratamento passo a passo. 6ª ed.",
		},
	},
	Physician: {
		ContextAnalysis: "O paciente apresenta quadro sugestivo de hipertensão arterial estágio 1 (140-159/90-99 mmHg), associada a fatores de risco como sobrepeso, sedentarismo e histórico familiar positivo. Não há evidências de lesão em órgãos-alvo até o momento, mas o risco cardiovascular é moderado segundo o escore de Framingham.",
		Recommendations: "Recomendo iniciar com medidas não-farmacológicas intensivas por 3 meses, incluindo dieta DASH com restrição de sódio (<2g/dia), atividade física regular (150 min/semana de atividade moderada), redução do consumo de álcool e cessação do tabagismo se aplicável. Monitorização domiciliar da pressão arterial é essencial. Se após 3 meses não houver resposta adequada, iniciar monoterapia com inibidor da ECA ou bloqueador do canal de cálcio, conforme características individuais do paciente.",
		Resources: []Resource{
			{Title: "Diário de monitorização da pressão arterial", Type: "PDF", URL: "#"},
			{Title: "Orientações sobre dieta DASH", Type: "Artigo", URL: "#"},
			{Title: "Técnica correta de aferição da pressão arterial", Type: "Vídeo", URL: "#"},
		},
		Plan: []PlanDay{
			{Day: 1, Activities: []string{"Avaliação clínica completa", "Solicitação de exames complementares", "Orientações iniciais sobre mudanças no estilo de vida"}},
			{Day: 15, Activities: []string{"Avaliação dos exames laboratoriais", "Estratificação de risco cardiovascular", "Ajustes nas recomendações não-farmacológicas"}},
			{Day: 30, Activities: []string{"Reavaliação da pressão arterial", "Avaliação da adesão às medidas não-farmacológicas", "Decisão sobre necessidade de tratamento farmacológico"}},
			{Day: 90, Activities: []string{"Reavaliação completa", "Ajustes no tratamento", "Solicitação de exames de controle"}},
		},
		References: []string{
			"Sociedade Brasileira de Cardiologia - Diretrizes de Hipertensão Arterial, 2023",
			"American Heart Association - Guideline for the Prevention, Detection, Evaluation, and Management of High Blood Pressure in Adults, 2022",
			"European Society of Cardiology - ESC/ESH Guidelines for the management of arterial hypertension, 2023",
		},
	},
	Dentist: {
		ContextAnalysis: "O paciente apresenta quadro de doença periodontal moderada localizada, com bolsas periodontais de 4-5mm nas faces proximais dos molares superiores e inferiores. Há presença de cálculo supragengival generalizado e subgengival localizado. Higiene oral deficiente, com índice de placa de aproximadamente 65% e sangramento à sondagem em 40% dos sítios.",
		Recommendations: "Recomendo tratamento periodontal não-cirúrgico inicial, incluindo raspagem e alisamento radicular nas áreas afetadas, associado a orientação intensiva de higiene oral com técnica de Bass modificada, uso de fio dental e escovas interdentais. Após a fase inicial, reavaliação em 45 dias para determinar a necessidade de terapia adicional. Manutenção periodontal a cada 3 meses no primeiro ano é essencial para o controle da doença.",
		Resources: []Resource{
			{Title: "Técnica correta de escovação", Type: "Vídeo", URL: "#"},
			{Title: "Uso adequado do fio dental e escovas interdentais", Type: "PDF", URL: "#"},
			{Title: "Controle químico da placa bacteriana", Type: "Artigo", URL: "#"},
		},
		Plan: []PlanDay{
			{Day: 1, Activities: []string{"Exame clínico e periodontal completo", "Radiografias interproximais e periapicais", "Orientação inicial de higiene oral"}},
			{Day: 7, Activities: []string{"Raspagem supragengival", "Polimento coronário", "Reforço das técnicas de higiene oral"}},
			{Day: 14, Activities: []string{"Raspagem e alisamento radicular por quadrante", "Aplicação de agente dessensibilizante", "Avaliação da adesão às técnicas de higiene"}},
			{Day: 45, Activities: []string{"Reavaliação periodontal", "Procedimentos complementares se necessário", "Planejamento da fase de manutenção"}},
		},
		References: []string{
			"American Academy of Periodontology - Classification of Periodontal and Peri-Implant Diseases and Conditions, 2023",
			"Sociedade Brasileira de Periodontologia - Diretrizes para tratamento da doença periodontal, 2022",
			"Journal of Clinical Periodontology - Effectiveness of non-surgical periodontal therapy: A systematic review, 2021",
		},
	},
}

// Lookup returns the canned result for profession. The input text does not
// influence the result.
func Lookup(profession Profession, _ string) Result {
	r, ok := responses[profession]
	if !ok {
		r = responses[Physio]
	}
	return r.clone()
}
