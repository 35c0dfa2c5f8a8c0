package doctext

// Format identifies a document type.
type Format string

const (
	FormatDocx    Format = "docx"
	FormatDoc     Format = "doc"
	FormatPDF     Format = "pdf"
	FormatHTML    Format = "html"
	FormatTXT     Format = "txt"
	FormatUnknown Format = "unknown"
)

// Table block markers in normalized output. Downstream consumers rely on
// these to tell tabular content from prose.
const (
	TableStart = "[ТАБЛИЦА]"
	TableEnd   = "[/ТАБЛИЦА]"
)
