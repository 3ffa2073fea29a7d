package patient

func datePtr(s string) *string { return &s }

// DemoPatients is the sample registry a fresh installation starts with when
// SEED_DEMO_DATA is enabled.
func DemoPatients() []Patient {
	return []Patient{
		{
			ID:        1,
			Name:      "João Silva",
			CPF:       "123.456.789-00",
			Phone:     "(11) 98765-4321",
			Email:     "joao.silva@email.com",
			LastVisit: datePtr("2023-04-28"),
			NextVisit: datePtr("2023-05-12"),
			Status:    StatusActive,
			Notes: []Note{
				{Date: "2023-04-28", Content: "Paciente relatou melhora significativa na mobilidade após 3 sessões."},
				{Date: "2023-03-15", Content: "Iniciou tratamento para dor lombar crônica. Recomendado exercícios diários."},
			},
			Files: []File{
				{Name: "Exame Raio-X.pdf", Date: "2023-03-10", MimeType: "application/pdf"},
				{Name: "Avaliação Inicial.pdf", Date: "2023-03-01", MimeType: "application/pdf"},
			},
			ConsultationNotes: "Paciente precisa manter o uso de compressas de gelo após os exercícios.",
		},
		{
			ID:        2,
			Name:      "Maria Oliveira",
			CPF:       "987.654.321-00",
			Phone:     "(11) 91234-5678",
			Email:     "maria.oliveira@email.com",
			LastVisit: datePtr("2023-05-02"),
			NextVisit: datePtr("2023-05-16"),
			Status:    StatusActive,
			Notes: []Note{
				{Date: "2023-05-02", Content: "Realizados exercícios de fortalecimento. Paciente apresentou evolução na propriocepção."},
			},
			Files: []File{
				{Name: "Ressonância Magnética.pdf", Date: "2023-04-20", MimeType: "application/pdf"},
			},
		},
		{
			ID:        3,
			Name:      "Lucas Santos",
			CPF:       "456.789.123-00",
			Phone:     "(11) 95555-9999",
			Email:     "lucas.santos@email.com",
			LastVisit: datePtr("2023-04-18"),
			Status:    StatusInactive,
			Notes: []Note{
				{Date: "2023-04-18", Content: "Paciente completou tratamento. Alta médica concedida."},
			},
			Files:             []File{},
			ConsultationNotes: "Reavaliação em 6 meses para monitoramento preventivo.",
		},
	}
}
