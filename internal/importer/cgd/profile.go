package cgd

// amountMode determines how amounts are read from a row.
type amountMode int

const (
	// amountSigned is one signed column, e.g. "Montante" holding "-10,00".
	amountSigned amountMode = iota
	// amountSplit is a pair of debit and credit columns, e.g. "Débito"/"Crédito".
	amountSplit
)

// layout describes the columns of one CGD export format.
type layout struct {
	name      string
	dateCol   string
	descCol   string
	mode      amountMode
	amountCol string
	debitCol  string
	creditCol string
}

func (l layout) requiredCols() []string {
	cols := []string{l.dateCol, l.descCol}

	if l.mode == amountSplit {
		return append(cols, l.debitCol, l.creditCol)
	}

	return append(cols, l.amountCol)
}

// layouts are tried in order; more specific ones come first.
var layouts = []layout{
	{name: "cartão", dateCol: "Data", descCol: "Descrição", mode: amountSplit, debitCol: "Débito", creditCol: "Crédito"},
	{name: "extrato", dateCol: "Data mov.", descCol: "Descrição", mode: amountSigned, amountCol: "Movimento"},
	{name: "conta", dateCol: "Data mov.", descCol: "Descrição", mode: amountSigned, amountCol: "Montante"},
}
