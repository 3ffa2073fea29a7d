package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/zuro/agenda/internal/platform/latency"
)

// Analysis is the simulated AI recommendation for one patient.
type Analysis struct {
	PatientID      int       `json:"patient_id"`
	Recommendation string    `json:"recommendation"`
	GeneratedAt    time.Time `json:"generated_at"`
}

const recommendationTemplate = `Com base nos dados do paciente %s e seu histórico de tratamento, a IA recomenda:

1. Continuar com o protocolo de fortalecimento muscular, com foco especial em estabilizadores do core.

2. Incrementar gradualmente a intensidade dos exercícios de propriocepção.

3. Considerar a introdução de técnicas de liberação miofascial nas áreas de maior tensão.

4. Manter a frequência de 2x por semana, reavaliando em 30 dias.

5. Complementar o tratamento com exercícios domiciliares diários de baixa intensidade.

Observações adicionais: Os exames mostram melhora na condição inflamatória, corroborando com o relato de diminuição da dor pelo paciente. Recomenda-se manter a abordagem atual com os ajustes sugeridos acima.`

// Analyst produces canned recommendations after a simulated delay. Nothing
// about the patient except the name influences the text.
type Analyst struct {
	store *Store
	delay latency.Simulator
}

func NewAnalyst(store *Store, delay latency.Simulator) *Analyst {
	return &Analyst{store: store, delay: delay}
}

func (a *Analyst) Analyze(ctx context.Context, id int) (Analysis, error) {
	p, err := a.store.Get(id)
	if err != nil {
		return Analysis{}, err
	}
	if err := a.delay.Wait(ctx); err != nil {
		return Analysis{}, err
	}
	return Analysis{
		PatientID:      p.ID,
		Recommendation: fmt.Sprintf(recommendationTemplate, p.Name),
		GeneratedAt:    a.store.now().UTC(),
	}, nil
}
