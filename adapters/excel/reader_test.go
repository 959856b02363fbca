package excel

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"multistats/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadTable_CSV(t *testing.T) {
	path := writeFile(t, "data.csv", "a, b ,c\n1,2,3\n4,NA,6\n7,8\n")

	tbl, err := NewDataReader(path, nil).ReadTable()
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, tbl.Names())
	assert.Equal(t, 3, tbl.RowCount())

	b, _ := tbl.Column("b")
	assert.Equal(t, 2.0, b.Values[0])
	assert.True(t, math.IsNaN(b.Values[1]))
	c, _ := tbl.Column("c")
	assert.True(t, math.IsNaN(c.Values[2]), "short rows are padded as missing")
}

func TestReadTable_CSVNonNumeric(t *testing.T) {
	path := writeFile(t, "data.csv", "a,b\n1,2\n3,hello\n")

	_, err := NewDataReader(path, nil).ReadTable()
	require.Error(t, err)

	var invalid *core.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "b", invalid.Input)
	assert.Equal(t, 3, invalid.Index)
	assert.Equal(t, "hello", invalid.Value)
}

func TestReadTable_Excel(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"height", "weight"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{1.62, 58}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{1.80, 81.5}))

	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.SaveAs(path))

	tbl, err := NewDataReader(path, nil).ReadTable()
	require.NoError(t, err)
	assert.Equal(t, []string{"height", "weight"}, tbl.Names())

	w, _ := tbl.Column("weight")
	assert.Equal(t, []float64{58, 81.5}, w.Values)

	_, err = NewDataReader(path, nil).WithSheet("Missing").ReadTable()
	assert.Error(t, err)
}

func TestReadTable_MissingFile(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "nope.csv"), nil).ReadTable()
	assert.Error(t, err)
}

func TestParseRows_RequiresData(t *testing.T) {
	_, err := ParseRows([][]string{{"a", "b"}})
	assert.True(t, core.IsInvalidInput(err))
}
