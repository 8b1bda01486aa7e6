package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"loan-desk/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency formats an amount as whole US dollars, e.g. $500,000.
func Currency(amount float64) string {
	return printer.Sprintf("$%d", int64(math.Round(amount)))
}

var funcs = template.FuncMap{
	"currency":    Currency,
	"loanType":    func(v string) string { return domain.OptionLabel(domain.LoanTypeOptions, v) },
	"statusLabel": func(v string) string { return domain.OptionLabel(domain.StatusOptions, v) },
	"lower":       strings.ToLower,
	"kb": func(size int64) string {
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	},
}

// Renderer executes the page templates.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes the named template into w. Output is buffered so a failed
// template does not leave a half-written page.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// FieldView is one input of the application form.
type FieldView struct {
	Name    string
	Label   string
	Kind    string // text, email, tel, number or select
	Options []domain.Option
	Value   string
	Error   string
}

var fieldMeta = map[string]FieldView{
	domain.FieldFirstName:   {Label: "First Name", Kind: "text"},
	domain.FieldLastName:    {Label: "Last Name", Kind: "text"},
	domain.FieldEmail:       {Label: "Email Address", Kind: "email"},
	domain.FieldPhone:       {Label: "Phone Number", Kind: "tel"},
	domain.FieldLoanAmount:  {Label: "Loan Amount", Kind: "number"},
	domain.FieldLoanType:    {Label: "Type of Loan", Kind: "select", Options: domain.LoanTypeOptions},
	domain.FieldInstallment: {Label: "Installment (months)", Kind: "number"},
	domain.FieldEMI:         {Label: "EMI Amount", Kind: "number"},
	domain.FieldStatus:      {Label: "Loan Status", Kind: "select", Options: domain.StatusOptions},
}

// FormView is what the form template needs: the state plus its fields in
// display order.
type FormView struct {
	Scope  string
	State  *domain.FormState
	Fields []FieldView
	Notice string
}

func NewFormView(scope string, f *domain.FormState, notice string) *FormView {
	fields := make([]FieldView, 0, len(domain.Fields))
	for _, name := range domain.Fields {
		fv := fieldMeta[name]
		fv.Name = name
		fv.Value = f.Value(name)
		fv.Error = f.Error(name)
		fields = append(fields, fv)
	}
	return &FormView{Scope: scope, State: f, Fields: fields, Notice: notice}
}

// TablePage is the records table page.
type TablePage struct {
	Records  []domain.Record
	Selected string
	Record   *domain.Record
	Form     *FormView
	Notice   string
}

// ApplyPage is the standalone application page.
type ApplyPage struct {
	Form *FormView
}
