package excel

// ReaderConfig controls how cells are interpreted
type ReaderConfig struct {
	// Sheet is the XLSX sheet to read; empty means the first sheet.
	Sheet string `json:"sheet"`
	// MissingTokens are cell texts treated as missing, besides the empty cell.
	MissingTokens []string `json:"missing_tokens"`
}

// DefaultReaderConfig returns the usual NA spellings found in CSV exports
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		MissingTokens: []string{
			"NA", "N/A", "n/a", "NaN", "nan", "-NaN", "-nan",
			"null", "NULL", "None", "#N/A", "<NA>",
		},
	}
}
