package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/stash/internal/encoding"
)

func TestNewUTF8Reader(t *testing.T) {
	const want = "date,category,description,amount\n2026-01-30,Food,Café Água,12.50\n"

	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(want))
	require.NoError(t, err)

	type testCase struct {
		name  string
		input []byte
		want  string
	}

	tests := []testCase{
		{name: "UTF8Passthrough", input: []byte(want), want: want},
		{name: "UTF8BOMStripped", input: append([]byte{0xEF, 0xBB, 0xBF}, want...), want: want},
		{name: "UTF16LE", input: utf16, want: want},
		{
			name:  "Windows1252",
			input: []byte{'D', 'e', 's', 'c', 'r', 'i', 0xE7, 0xE3, 'o', ';', 'M', 'o', 'n', 't', 'a', 'n', 't', 'e', '\n'},
			want:  "Descrição;Montante\n",
		},
		{name: "Empty", input: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := encoding.NewUTF8Reader(bytes.NewReader(tt.input))
			require.NoError(t, err)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
