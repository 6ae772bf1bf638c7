package excel

// FileType is the on-disk format of a dataset
type FileType string

const (
	FileTypeCSV  FileType = "csv"
	FileTypeXLSX FileType = "xlsx"
)

// RawRows is a header row followed by data rows, as read from the file
type RawRows [][]string
