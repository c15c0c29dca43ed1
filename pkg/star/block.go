// Package star reads named tables out of RELION STAR files.
//
// A STAR file holds one or more blocks. A block starts at a line beginning
// with its name (e.g. "data_model_classes"), declares its columns on lines
// beginning with '_', and lists whitespace-delimited rows until a line that
// starts with a space, a blank line, or end of file.
package star

import (
	"bufio"
	"io"
	"strings"
)

const (
	fieldPrefix   = "_"
	commentPrefix = "#"
)

// Options control how column names are derived from header lines.
type Options struct {
	// KeepIndex keeps each header line verbatim (right-trimmed), including the
	// leading '_' and any "#n" column index comment.
	KeepIndex bool
}

// Block describes where a named table sits inside a file.
type Block struct {
	// Table is the name that was searched for.
	Table string

	// Found reports whether a line starting with Table was seen.
	Found bool

	// Columns are the header names in declaration order.
	Columns []string

	// SkipLines is the number of lines before the first data row.
	SkipLines int

	// Rows is the number of data rows in the block.
	Rows int
}

// DataLine returns the 1-based line number of data row i.
func (b *Block) DataLine(i int) int {
	return b.SkipLines + i + 1
}

// columnName derives a column name from a header line.
func columnName(line string, opts Options) string {
	if opts.KeepIndex {
		return strings.TrimRight(line, " \t\r\n")
	}
	if i := strings.Index(line, commentPrefix); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimRight(line, " \t\r\n")
	return strings.TrimLeft(line, fieldPrefix)
}

// endsData reports whether line closes the data section of a block.
func endsData(line string) bool {
	return strings.HasPrefix(line, " ") || strings.TrimSpace(line) == ""
}

// rowFunc receives each data row with its 1-based line number. The block's
// Columns are complete by the time the first row is delivered.
type rowFunc func(b *Block, lineNo int, line string) error

// scan walks r until the data section of table has been consumed, calling
// onRow for every data line. Lines after the block are never read.
func scan(r io.Reader, table string, opts Options, onRow rowFunc) (*Block, error) {
	block := &Block{Table: table}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	inHeader := false
	inData := false
	lineNo := 0

	for sc.Scan() {
		line := sc.Text()
		lineNo++

		if !block.Found {
			if strings.HasPrefix(line, table) {
				block.Found = true
			}
			continue
		}

		if strings.HasPrefix(line, fieldPrefix) && !inData {
			inHeader = true
			block.Columns = append(block.Columns, columnName(line, opts))
			continue
		}

		if !inHeader {
			// "loop_" and blank lines between the block name and the header
			continue
		}

		if !inData {
			inData = true
			block.SkipLines = lineNo - 1
		}
		if endsData(line) {
			break
		}

		block.Rows++
		if onRow != nil {
			if err := onRow(block, lineNo, line); err != nil {
				return block, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return block, err
	}

	if inHeader && !inData {
		// header ran to end of file: the table has no rows
		block.SkipLines = lineNo
	}
	return block, nil
}

// Locate finds table in r and reports its header and row extent.
// A missing table is not an error: the returned block has Found == false.
func Locate(r io.Reader, table string, opts Options) (*Block, error) {
	return scan(r, table, opts, nil)
}
