package importer

import (
	"io"

	"github.com/MrJamesThe3rd/stash/internal/budget"
)

type Format string

const (
	// FormatStash is the CSV layout written by the export package.
	FormatStash Format = "stash"
	// FormatCGD is a Caixa Geral de Depósitos account or card statement.
	FormatCGD Format = "cgd"
)

var Formats = []Format{FormatStash, FormatCGD}

type Parser interface {
	Parse(r io.Reader) ([]budget.Entry, error)
}
