package export

import (
	"fmt"
	"os"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/compress"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
)

// IndexColumn names the row index column in Parquet and SQLite output.
const IndexColumn = "row_index"

// Parquet writes gzip-compressed Apache Parquet files with an int64 index
// column followed by one nullable string column per table column.
type Parquet struct{}

// Ext implements Exporter.
func (Parquet) Ext() string { return "parquet" }

// Schema returns the Arrow schema used for t.
func (Parquet) Schema(t Table) *arrow.Schema {
	fields := make([]arrow.Field, 0, len(t.Columns)+1)
	fields = append(fields, arrow.Field{Name: IndexColumn, Type: arrow.PrimitiveTypes.Int64})
	for _, col := range t.Columns {
		fields = append(fields, arrow.Field{Name: col, Type: arrow.BinaryTypes.String, Nullable: true})
	}
	return arrow.NewSchema(fields, nil)
}

// WriteTable implements Exporter.
func (p Parquet) WriteTable(path string, t Table) error {
	if err := t.Validate(); err != nil {
		return err
	}

	schema := p.Schema(t)

	allocator := memory.NewGoAllocator()
	builder := array.NewRecordBuilder(allocator, schema)
	defer builder.Release()

	index := builder.Field(0).(*array.Int64Builder)
	for i, row := range t.Rows {
		index.Append(int64(i))
		for j, cell := range row {
			col := builder.Field(j + 1).(*array.StringBuilder)
			if cell == nil {
				col.AppendNull()
			} else {
				col.Append(*cell)
			}
		}
	}

	record := builder.NewRecord()
	defer record.Release()

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	// The parquet writer closes out.

	writer, err := pqarrow.NewFileWriter(
		schema,
		out,
		parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Gzip)),
		pqarrow.DefaultWriterProps(),
	)
	if err != nil {
		out.Close()
		return fmt.Errorf("parquet writer for %s: %w", path, err)
	}

	if err := writer.Write(record); err != nil {
		writer.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
