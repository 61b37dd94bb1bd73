// Package upstream consumes the national primary-care financing API and
// maps its payloads into the core domain types. Decoding is deliberately
// tolerant: the upstream schema evolves independently of this service,
// so unknown fields are ignored and missing optionals read as zero.
package upstream

// FinancingData is the raw per municipality-period payload.
type FinancingData struct {
	ResumosPlanosOrcamentarios []ResumoPlanoOrcamentario `json:"resumosPlanosOrcamentarios"`
	Pagamentos                 []Pagamento               `json:"pagamentos"`
}

// ResumoPlanoOrcamentario is one budget-plan summary line.
type ResumoPlanoOrcamentario struct {
	DsPlanoOrcamentario         *string  `json:"dsPlanoOrcamentario"`
	VlIntegral                  *float64 `json:"vlIntegral"`
	VlAjuste                    *float64 `json:"vlAjuste"`
	VlDesconto                  *float64 `json:"vlDesconto"`
	VlEfetivoRepasse            *float64 `json:"vlEfetivoRepasse"`
	DsFaixaIndiceEquidadeEsfEap *string  `json:"dsFaixaIndiceEquidadeEsfEap"`
	QtPopulacao                 *int     `json:"qtPopulacao"`
}

// Pagamento carries the per-category payment record with team counts and
// classification labels. Only the fields the projection needs are
// declared; everything else upstream sends is ignored.
type Pagamento struct {
	CoUf          *string `json:"coUf"`
	CoMunicipio   *string `json:"coMunicipio"`
	NuCompetencia *string `json:"nuCompetencia"`

	QtEsfCredenciado         *int `json:"qtEsfCredenciado"`
	QtEsfHomologado          *int `json:"qtEsfHomologado"`
	QtEapCredenciadas        *int `json:"qtEapCredenciadas"`
	QtEap20hCompletas        *int `json:"qtEap20hCompletas"`
	QtEap30hCompletas        *int `json:"qtEap30hCompletas"`
	QtEmultiPagas            *int `json:"qtEmultiPagas"`
	QtSbPagamentoModalidadeI *int `json:"qtSbPagamentoModalidadeI"`

	DsClassificacaoVinculoEsfEap   *string `json:"dsClassificacaoVinculoEsfEap"`
	DsClassificacaoQualidadeEsfEap *string `json:"dsClassificacaoQualidadeEsfEap"`
	DsClassificacaoQualidadeEmulti *string `json:"dsClassificacaoQualidadeEmulti"`

	VlVinculoEsf   *float64 `json:"vlVinculoEsf"`
	VlQualidadeEsf *float64 `json:"vlQualidadeEsf"`
	VlVinculoEap   *float64 `json:"vlVinculoEap"`
	VlQualidadeEap *float64 `json:"vlQualidadeEap"`
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func floatOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
