package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"godescribe/domain/core"
	"godescribe/domain/dataset"
	"godescribe/internal"
	"godescribe/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files into tables
type DataReader struct {
	filePath string
	fileType FileType
	config   ReaderConfig
	missing  map[string]bool
	logger   *internal.Logger
}

// DetectFileType maps a file name to its format by extension
func DetectFileType(name string) (FileType, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FileTypeCSV, nil
	case ".xlsx":
		return FileTypeXLSX, nil
	default:
		return "", errors.WithCode(errors.CodeUnsupportedFile, fmt.Errorf("%w: %q (expected .csv or .xlsx)", core.ErrUnsupportedFormat, name))
	}
}

// NewDataReader creates a reader for a CSV or XLSX file path
func NewDataReader(filePath string, config ReaderConfig) (*DataReader, error) {
	fileType, err := DetectFileType(filePath)
	if err != nil {
		return nil, err
	}
	r := newReader(fileType, config)
	r.filePath = filePath
	return r, nil
}

// NewStreamReader creates a reader for uploads that arrive as a stream
func NewStreamReader(fileType FileType, config ReaderConfig) *DataReader {
	return newReader(fileType, config)
}

func newReader(fileType FileType, config ReaderConfig) *DataReader {
	missing := make(map[string]bool, len(config.MissingTokens))
	for _, token := range config.MissingTokens {
		missing[token] = true
	}
	return &DataReader{
		fileType: fileType,
		config:   config,
		missing:  missing,
		logger:   internal.DefaultLogger.With("DataReader"),
	}
}

// ReadTable reads the reader's file into a table
func (r *DataReader) ReadTable() (*dataset.Table, error) {
	if r.filePath == "" {
		return nil, errors.InvalidInput("no file path configured; use ReadTableFrom")
	}
	r.logger.Info("reading %s file: %s", r.fileType, r.filePath)

	file, err := os.Open(r.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithCode(errors.CodeNotFound, fmt.Errorf("%s file not found: %s", strings.ToUpper(string(r.fileType)), r.filePath))
		}
		return nil, errors.Wrapf(err, "failed to open %s", r.filePath)
	}
	defer file.Close()

	return r.ReadTableFrom(file)
}

// ReadTableFrom reads a table from src in the reader's format
func (r *DataReader) ReadTableFrom(src io.Reader) (*dataset.Table, error) {
	start := time.Now()
	var (
		rows RawRows
		err  error
	)
	switch r.fileType {
	case FileTypeCSV:
		rows, err = r.readCSVRows(src)
	case FileTypeXLSX:
		rows, err = r.readExcelRows(src)
	default:
		return nil, errors.WithCode(errors.CodeUnsupportedFile, fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, r.fileType))
	}
	if err != nil {
		return nil, err
	}
	r.logger.Debug("%s rows read in %.2fms (%d rows)", r.fileType, float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	return r.BuildTable(rows)
}

func (r *DataReader) readCSVRows(src io.Reader) (RawRows, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read CSV: %w", err))
	}
	return rows, nil
}

func (r *DataReader) readExcelRows(src io.Reader) (RawRows, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to open Excel file: %w", err))
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.InvalidInput("Excel file has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read sheet %q: %w", sheet, err))
	}
	return rows, nil
}

// BuildTable turns raw rows into a typed table. A column is numeric when
// every non-missing cell parses as a finite number; a column with only
// missing cells is numeric too. Short rows are padded with missing cells.
func (r *DataReader) BuildTable(rows RawRows) (*dataset.Table, error) {
	if len(rows) == 0 {
		return nil, errors.InvalidInput("dataset must have at least a header row")
	}
	headers := r.normalizeHeaders(rows[0])
	data := rows[1:]

	columns := make([]dataset.Column, len(headers))
	for j, name := range headers {
		text := make([]string, len(data))
		for i, row := range data {
			if j < len(row) {
				text[i] = strings.TrimSpace(row[j])
			}
		}
		columns[j] = r.typeColumn(name, text)
	}

	table, err := dataset.NewTable(columns...)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}

	numeric := 0
	for _, col := range columns {
		if col.IsNumeric() {
			numeric++
		}
	}
	r.logger.Info("%s file processed (%d columns, %d numeric, %d rows)",
		strings.ToUpper(string(r.fileType)), len(headers), numeric, len(data))
	return table, nil
}

func (r *DataReader) typeColumn(name string, text []string) dataset.Column {
	cells := make([]dataset.Cell, len(text))
	for i, s := range text {
		if r.isMissing(s) {
			cells[i] = dataset.NewMissingCell()
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return dataset.NewTextColumn(name, text)
		}
		cells[i] = dataset.NewNumericCell(v)
	}
	return dataset.NewNumericColumn(name, cells)
}

func (r *DataReader) isMissing(s string) bool {
	return s == "" || r.missing[s]
}

// normalizeHeaders trims names, names blank headers "Unnamed: <i>" and
// suffixes repeats as name.1, name.2, ...
func (r *DataReader) normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			base := name
			for {
				n++
				name = fmt.Sprintf("%s.%d", base, n)
				if _, taken := seen[name]; !taken {
					break
				}
			}
			seen[base] = n
		}
		seen[name] = 0
		headers[i] = name
	}
	return headers
}
