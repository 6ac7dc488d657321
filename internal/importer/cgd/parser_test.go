package cgd_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/stash/internal/budget"
	"github.com/MrJamesThe3rd/stash/internal/importer/cgd"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

const contaCSV = `Consultar saldos e movimentos à ordem - 31-01-2026;"=""0000"""
Nome cliente;JOHN DOE
NIF;"=""123"""

Dados da conta
Conta;0000 - EUR - Conta Extracto
Saldo contabilístico;1.000,00 EUR

Data mov.;Data-valor;Descrição;Montante;Saldo contabilístico após movimento
30-01-2026;30-01-2026;INSTITUTO GESTAO FINA;-588,74;48.825,46
09-01-2026;09-01-2026;TFI Wise;8.608,52;52.532,78
`

const extratoCSV = `Consultar extrato - 15-02-2026 : 0829015676030
Conta ;0829015676030 - EUR - Conta Extracto
Saldo contabilístico final ;41.393,66

Data mov. ;Data valor ;Origem ;Descrição ;Movimento ;Estorno ;Saldo contabilístico após movimento ;
13-02-2026;13-02-2026;"=""0003""";PAGAMENTO TSU ;-608,13;  ;41.393,66;
04-02-2026;04-02-2026;SIBS ;TFI Wise ;4.324,06;  ;51.302,85;
`

const cartaoCSV = `Consultar saldos e movimentos de cartões - 15-02-2026
Conta cartão ;4163 **** **** 8016 - EUR - Business Débito

Data ;Data valor ;Descrição ;Débito ;Crédito ;
16-12-2025 ;14-12-2025 ;PA GONDOMAR         GONDOMAR ;64,00 ; ;
31-12-2025 ;29-12-2025 ;UBER   *TRIP             HELP.UBER.COMNL ;47,91 ; ;
20-12-2025 ;20-12-2025 ;REFUND AMAZON ;  ;25,00 ;
 ; ; ; ;Página 1/2 ;
`

func TestParser_Parse(t *testing.T) {
	type testCase struct {
		name  string
		input string
		want  []budget.Entry
	}

	tests := []testCase{
		{
			name:  "Conta",
			input: contaCSV,
			want: []budget.Entry{
				{Amount: 588.74, Description: "INSTITUTO GESTAO FINA", Date: date(2026, 1, 30)},
				{Amount: 8608.52, Description: "TFI Wise", Date: date(2026, 1, 9), Income: true},
			},
		},
		{
			name:  "Extrato",
			input: extratoCSV,
			want: []budget.Entry{
				{Amount: 608.13, Description: "PAGAMENTO TSU", Date: date(2026, 2, 13)},
				{Amount: 4324.06, Description: "TFI Wise", Date: date(2026, 2, 4), Income: true},
			},
		},
		{
			name:  "CartaoDebitAndCredit",
			input: cartaoCSV,
			want: []budget.Entry{
				{Amount: 64, Description: "PA GONDOMAR         GONDOMAR", Date: date(2025, 12, 16)},
				{Amount: 47.91, Description: "UBER   *TRIP             HELP.UBER.COMNL", Date: date(2025, 12, 31)},
				{Amount: 25, Description: "REFUND AMAZON", Date: date(2025, 12, 20), Income: true},
			},
		},
		{
			name:  "DifferentColumnOrder",
			input: "Random;MetaData\nMontante;Descrição;Data mov.;Ignored\n-10,00;TEST_ORDER;30-01-2026;XXX\n",
			want:  []budget.Entry{{Amount: 10, Description: "TEST_ORDER", Date: date(2026, 1, 30)}},
		},
		{
			name:  "LargeAmount",
			input: "Data mov.;Descrição;Montante\n30-01-2026;BIG TRANSFER;-1.234.567,89\n",
			want:  []budget.Entry{{Amount: 1234567.89, Description: "BIG TRANSFER", Date: date(2026, 1, 30)}},
		},
		{
			name:  "SkipsFooterAndZeroRows",
			input: "Data mov.;Descrição;Montante\n30-01-2026;TEST;-10,00\n31-01-2026;NOTHING;0,00\nTotais;;;;\n",
			want:  []budget.Entry{{Amount: 10, Description: "TEST", Date: date(2026, 1, 30)}},
		},
		{
			name:  "HeaderOnly",
			input: "Data mov.;Data-valor;Descrição;Montante",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cgd.NewParser().Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParser_Latin1Encoding(t *testing.T) {
	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte("Data mov.;Descrição;Montante\n30-01-2026;CAFÉ CENTRAL;-10,00\n"))
	require.NoError(t, err)

	got, err := cgd.NewParser().Parse(bytes.NewReader(latin1))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "CAFÉ CENTRAL", got[0].Description)
}

func TestParser_Errors(t *testing.T) {
	t.Run("EmptyFile", func(t *testing.T) {
		_, err := cgd.NewParser().Parse(strings.NewReader(""))
		assert.ErrorIs(t, err, cgd.ErrUnknownLayout)
	})

	t.Run("MissingDescription", func(t *testing.T) {
		_, err := cgd.NewParser().Parse(strings.NewReader("Data mov.;Descrição;Montante\n30-01-2026;;-10,00\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 2: missing description")
	})
}
