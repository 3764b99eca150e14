package printing

import (
	"bytes"
	"embed"
	"html/template"
	"strconv"
	"time"

	"github.com/dms/backend/internal/domain/document"
	"github.com/dms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFiles = map[document.Kind]string{
	document.KindContract: "templates/contract.html",
	document.KindQuote:    "templates/quote.html",
}

// TemplateEngine renders the contract and quote HTML. It holds no clock:
// the signing date is passed in, so equal inputs give equal HTML.
type TemplateEngine struct {
	templates map[document.Kind]*template.Template
}

// NewTemplateEngine parses the embedded templates
func NewTemplateEngine() (*TemplateEngine, error) {
	e := &TemplateEngine{templates: make(map[document.Kind]*template.Template, len(templateFiles))}
	for kind, file := range templateFiles {
		content, err := templateFS.ReadFile(file)
		if err != nil {
			return nil, NewRenderError(ErrCodeTemplateFailed, "missing template "+file, err)
		}
		tmpl, err := template.New(string(kind)).Funcs(FuncMap()).Parse(string(content))
		if err != nil {
			return nil, NewRenderError(ErrCodeTemplateFailed, "failed to parse template "+file, err)
		}
		e.templates[kind] = tmpl
	}
	return e, nil
}

type contractView struct {
	Data        *document.ContractData
	SignedDay   string
	SignedMonth string
	SignedYear  int
}

type quoteView struct {
	Data     *document.QuoteData
	IssuedAt time.Time
}

// RenderContract renders the sales contract signed on signedAt
func (e *TemplateEngine) RenderContract(data *document.ContractData, signedAt time.Time) (string, error) {
	return e.execute(document.KindContract, contractView{
		Data:        data,
		SignedDay:   twoDigits(signedAt.Day()),
		SignedMonth: twoDigits(int(signedAt.Month())),
		SignedYear:  signedAt.Year(),
	})
}

// RenderQuote renders the quotation issued on issuedAt
func (e *TemplateEngine) RenderQuote(data *document.QuoteData, issuedAt time.Time) (string, error) {
	return e.execute(document.KindQuote, quoteView{Data: data, IssuedAt: issuedAt})
}

func (e *TemplateEngine) execute(kind document.Kind, view any) (string, error) {
	tmpl, ok := e.templates[kind]
	if !ok {
		return "", NewRenderError(ErrCodeTemplateFailed, "no template for "+string(kind), nil)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to execute "+string(kind)+" template", err)
	}
	return buf.String(), nil
}

// FuncMap returns the formatting helpers available to document templates
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"formatVND":     formatVND,
		"amountInWords": amountInWords,
		"formatDate":    formatDate,
		"orNA":          orNA,
		"inc":           func(i int) int { return i + 1 },
		"upper":         upper,
		"lineKind":      lineKindLabel,
	}
}

// formatVND formats an amount as "1.000.000 ₫"
func formatVND(v any) string {
	return valueobject.FormatVND(toDecimal(v))
}

// amountInWords reads an amount in Vietnamese, first letter capitalized
func amountInWords(v any) string {
	words := valueobject.AmountInWords(toDecimal(v))
	if words == "" {
		return words
	}
	r := []rune(words)
	return upper(string(r[0])) + string(r[1:])
}

// upper uppercases with Vietnamese casing rules
func upper(s string) string {
	return cases.Upper(language.Vietnamese).String(s)
}

// formatDate formats as dd/mm/yyyy, empty for a zero or nil time
func formatDate(v any) string {
	var t time.Time
	switch val := v.(type) {
	case time.Time:
		t = val
	case *time.Time:
		if val != nil {
			t = *val
		}
	}
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func orNA(s string) string {
	if s == "" {
		return document.NotAvailable
	}
	return s
}

func lineKindLabel(k document.LineKind) string {
	switch k {
	case document.LineAccessory:
		return "Phụ kiện"
	case document.LineOption:
		return "Tùy chọn"
	case document.LineDiscount:
		return "Giảm trừ"
	default:
		return ""
	}
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func toDecimal(v any) decimal.Decimal {
	switch val := v.(type) {
	case valueobject.Money:
		return val.Amount()
	case *valueobject.Money:
		if val == nil {
			return decimal.Zero
		}
		return val.Amount()
	case decimal.Decimal:
		return val
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case float64:
		return decimal.NewFromFloat(val)
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}
