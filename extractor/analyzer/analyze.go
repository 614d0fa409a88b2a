package analyzer

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aqlanhadi/recon/extractor/common"
	"github.com/aqlanhadi/recon/logger"
	"github.com/spf13/viper"
)

type Config struct {
	PreviewRows  int
	PreviewWidth int
	TextPreview  int
}

func DefaultConfig() Config {
	return Config{
		PreviewRows:  3,
		PreviewWidth: 20,
		TextPreview:  200,
	}
}

func loadConfig() Config {
	cfg := DefaultConfig()
	if viper.IsSet("analyzer.preview_rows") {
		cfg.PreviewRows = viper.GetInt("analyzer.preview_rows")
	}
	if viper.IsSet("analyzer.preview_width") {
		cfg.PreviewWidth = viper.GetInt("analyzer.preview_width")
	}
	if viper.IsSet("analyzer.text_preview") {
		cfg.TextPreview = viper.GetInt("analyzer.text_preview")
	}
	return cfg
}

type TableInfo struct {
	Index     int        `json:"index"`
	Columns   int        `json:"columns"`
	Rows      int        `json:"rows"`
	DataRows  int        `json:"data_rows"`
	BlankRows int        `json:"blank_rows"`
	Header    []string   `json:"header"`
	Preview   [][]string `json:"preview"`
}

type PageInfo struct {
	Number      int         `json:"number"`
	HasText     bool        `json:"has_text"`
	Characters  int         `json:"characters"`
	Glyphs      int         `json:"glyphs"`
	NeedsOCR    bool        `json:"needs_ocr"`
	ReportType  string      `json:"report_type,omitempty"`
	TextPreview string      `json:"text_preview,omitempty"`
	Tables      []TableInfo `json:"tables"`
}

type Analysis struct {
	Source         string     `json:"source,omitempty"`
	TotalPages     int        `json:"total_pages"`
	Pages          []PageInfo `json:"pages"`
	ReportType     string     `json:"report_type"`
	NeedsOCR       bool       `json:"needs_ocr"`
	Command        string     `json:"command,omitempty"`
	Recommendation string     `json:"recommendation"`
}

// Analyze inspects every page of doc, or only the given page when it is
// non-zero.
func Analyze(ctx context.Context, doc common.Document, page int) (*Analysis, error) {
	cfg := loadConfig()
	log := logger.FromContext(ctx)

	total := doc.NumPages()
	first, last := 1, total
	if page != 0 {
		if page < 0 || page > total {
			return nil, fmt.Errorf("%w: %d of %d", common.ErrPageOutOfRange, page, total)
		}
		first, last = page, page
	}

	a := &Analysis{TotalPages: total, ReportType: TypeUnknown}
	for n := first; n <= last; n++ {
		p, err := doc.Page(n)
		if err != nil {
			return nil, err
		}
		info := inspectPage(p, cfg)
		log.Debug().Int("page", n).Str("report_type", info.ReportType).Int("tables", len(info.Tables)).Msg("page analyzed")
		a.Pages = append(a.Pages, info)

		if a.ReportType == TypeUnknown && info.ReportType != "" {
			a.ReportType = info.ReportType
		}
	}

	a.NeedsOCR = len(a.Pages) > 0
	for _, p := range a.Pages {
		if p.HasText {
			a.NeedsOCR = false
			break
		}
	}
	a.Command, a.Recommendation = Recommend(a.ReportType, a.NeedsOCR)
	return a, nil
}

func inspectPage(p common.Page, cfg Config) PageInfo {
	info := PageInfo{
		Number:     p.Number,
		HasText:    p.HasText(),
		Characters: utf8.RuneCountInString(p.Text),
		Glyphs:     p.Glyphs,
		NeedsOCR:   !p.HasText(),
	}
	if !info.HasText {
		return info
	}

	for i, t := range p.Tables {
		info.Tables = append(info.Tables, inspectTable(i+1, t, cfg))
	}

	info.ReportType = ClassifyText(p.Text)
	if info.ReportType == TypeUnknown && len(p.Tables) > 0 {
		info.ReportType = ClassifyHeader(cells(p.Tables[0].Header(), 0))
	}
	info.TextPreview = Truncate(strings.TrimSpace(p.Text), cfg.TextPreview)
	return info
}

func inspectTable(index int, t common.Table, cfg Config) TableInfo {
	info := TableInfo{
		Index:   index,
		Columns: t.ColumnCount(),
		Rows:    len(t.Rows),
		Header:  cells(t.Header(), cfg.PreviewWidth),
	}
	for i, row := range t.Rows {
		if i == 0 {
			continue
		}
		if row.IsBlank() {
			info.BlankRows++
			continue
		}
		info.DataRows++
		if len(info.Preview) < cfg.PreviewRows {
			info.Preview = append(info.Preview, cells(row, cfg.PreviewWidth))
		}
	}
	return info
}

func cells(row common.Row, width int) []string {
	out := make([]string, len(row))
	for i := range row {
		out[i] = Truncate(row.Cell(i), width)
	}
	return out
}

// Truncate shortens s to width runes, marking the cut with "...".
func Truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// Recommend names the extraction command suited to a report type. Types are
// matched by the report family they mention, so header fallbacks such as
// "AP Aging or Subledger Report" resolve too.
func Recommend(reportType string, needsOCR bool) (command, text string) {
	if needsOCR {
		return "", "No extractable text found; the document looks scanned and needs OCR before extraction."
	}
	switch {
	case strings.Contains(reportType, "AP Aging"):
		command = "ap-aging"
	case strings.Contains(reportType, "GL Balance"), reportType == TypeTrialBalance:
		command = "gl-balance"
	case strings.Contains(reportType, "Transaction"), strings.Contains(reportType, "Journal"):
		command = "transactions"
	case reportType == TypeUnknown || reportType == "":
		return "", "Report type not recognised; inspect the table previews and pick an extractor manually."
	default:
		return "", fmt.Sprintf("Detected %s; no extractor handles this report type.", reportType)
	}
	return command, fmt.Sprintf("Detected %s; run `recon %s --input <file> --output <csv> --period YYYY-MM`.", reportType, command)
}
