package core

// Flow tags an entry type code as increasing or decreasing the cash
// position. Codes absent from the classification table are Unclassified;
// they are reported, never silently dropped.
type Flow string

const (
	Inflow       Flow = "Entrada"
	Outflow      Flow = "Saída"
	Unclassified Flow = "Não classificado"
)

// UnclassifiedCategory labels ledger rows whose code has no entry in the
// classification table.
const UnclassifiedCategory = "Não classificado"

// ClassEntry is one row of the externally supplied classification table.
type ClassEntry struct {
	Code     EntryTypeCode
	Category string
	Flow     Flow
}

// Classification maps entry type codes to a category label and a flow
// tag. It is immutable after construction and passed explicitly into
// every normalizer and aggregation call; nothing consults it as ambient
// state. Lookups compare codes numerically, so "08" and "8" resolve to
// the same row.
type Classification struct {
	byCode map[int]ClassEntry
}

// NewClassification builds a lookup from table rows. A later duplicate
// code wins, matching replace-on-reload semantics of the dimension table.
func NewClassification(entries []ClassEntry) Classification {
	byCode := make(map[int]ClassEntry, len(entries))
	for _, e := range entries {
		if n := e.Code.Num(); n >= 0 {
			byCode[n] = e
		}
	}
	return Classification{byCode: byCode}
}

// FlowOf returns the flow tag for a code. Exactly one of Inflow, Outflow
// or Unclassified applies to every code.
func (c Classification) FlowOf(code EntryTypeCode) Flow {
	if e, ok := c.byCode[code.Num()]; ok {
		return e.Flow
	}
	return Unclassified
}

// CategoryOf returns the category label and flow for a code. Unknown
// codes resolve to the Unclassified category rather than vanishing.
func (c Classification) CategoryOf(code EntryTypeCode) (string, Flow) {
	if e, ok := c.byCode[code.Num()]; ok {
		return e.Category, e.Flow
	}
	return UnclassifiedCategory, Unclassified
}

// Len reports the number of classified codes.
func (c Classification) Len() int { return len(c.byCode) }

// ExclusionSet is a small fixed set of codes left out of a specific
// aggregate. The headline net inflow/outflow figures exclude internal
// transfer codes that the per-bank and per-category breakdowns keep.
type ExclusionSet map[int]struct{}

// NewExclusionSet builds a set from numeric codes.
func NewExclusionSet(codes ...int) ExclusionSet {
	s := make(ExclusionSet, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

// Contains reports whether a code is excluded.
func (s ExclusionSet) Contains(code EntryTypeCode) bool {
	_, ok := s[code.Num()]
	return ok
}

// HeadlineInflowExclusions returns the internal-transfer inflow codes
// (aplicação/resgate shuffling between own accounts) excluded from the
// headline net inflow and from the 7-day trend.
func HeadlineInflowExclusions() ExclusionSet {
	return NewExclusionSet(11, 8, 9)
}

// HeadlineOutflowExclusions returns the internal-transfer outflow codes
// excluded from the headline net outflow and from the 7-day trend.
func HeadlineOutflowExclusions() ExclusionSet {
	return NewExclusionSet(94, 98, 97)
}

// DefaultClassification is the treasury's standing code table. Callers
// with their own dimension table pass their own Classification instead.
func DefaultClassification() Classification {
	return NewClassification([]ClassEntry{
		{"01", "Recebimento de Clientes", Inflow},
		{"02", "Recebimento de Cartões", Inflow},
		{"03", "Antecipação de Recebíveis", Inflow},
		{"04", "Recebimento de Aluguéis", Inflow},
		{"05", "Rendimentos Financeiros", Inflow},
		{"08", "Resgate de Aplicação", Inflow},
		{"09", "Transferência entre Contas", Inflow},
		{"11", "Aporte Interno", Inflow},
		{"101", "Cobrança", Inflow},
		{"102", "Recebimento de Convênios", Inflow},
		{"90", "Pagamento de Fornecedores", Outflow},
		{"91", "Folha de Pagamento", Outflow},
		{"92", "Impostos e Taxas", Outflow},
		{"93", "Despesas Operacionais", Outflow},
		{"94", "Aplicação Financeira", Outflow},
		{"95", "Tarifas Bancárias", Outflow},
		{"96", "Empréstimos e Financiamentos", Outflow},
		{"97", "Transferência entre Contas", Outflow},
		{"98", "Resgate Interno", Outflow},
		{"205", "Pagamento de Fornecedores", Outflow},
	})
}
