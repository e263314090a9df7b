package services_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"github.com/shashiranjanraj/wardrobe/app/services"
)

func TestExportWritesOneRowPerVariant(t *testing.T) {
	f := newFixture(t)
	f.createProduct(t, "TS-001", "10.50", variant("Black", "S", "2"), variant("White", "M", "3"))
	f.createProduct(t, "PANTS-1", "30", variant("Blue", "L", "1"))

	var buf bytes.Buffer
	require.NoError(t, f.catalog.Export(f.ctx, services.ProductQuery{Search: "TS-0"}, &buf))

	book, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, book.Sheets, 1)

	rows := book.Sheets[0].Rows
	require.Len(t, rows, 3)
	assert.Equal(t, services.ExportHeaders[0], rows[0].Cells[0].Value)

	assert.Equal(t, "TS-001", rows[1].Cells[0].Value)
	assert.Equal(t, "Black", rows[1].Cells[1].Value)
	assert.Equal(t, "2", rows[1].Cells[3].Value)
	assert.Equal(t, "White", rows[2].Cells[1].Value)
	assert.Equal(t, "admin", rows[2].Cells[8].Value)
}
