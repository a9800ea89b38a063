package payroll

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"
)

// Narrator phrases a computed payslip as prose. It is optional: callers fall
// back to FormatPayslip whenever it is absent or fails.
//
//go:generate mockgen -source=narrator.go -destination=mock/narrator_mock.go -package=mock
type Narrator interface {
	Render(ctx context.Context, in PayslipInput) (string, error)
}

var errEmptyNarrative = errors.New("narrator returned empty text")

var promptTemplate = template.Must(template.New("payslip").Funcs(template.FuncMap{
	"money": FormatPayslipMoney,
}).Parse(`Write a short, friendly payslip summary for {{.EmployeeName}} ({{.JobTitle}}) at {{.CompanyName}} for {{.PeriodLabel}}.
Use exactly these figures and do not invent any others.
Gross pay: {{money .CurrencySymbol .GrossPay}}
{{- range .Allowances}}
Allowance {{.Label}}: {{money $.CurrencySymbol .Amount}}
{{- end}}
{{- range .Deductions}}
Deduction {{.Label}}: {{money $.CurrencySymbol .Amount}}
{{- end}}
{{- range .Contributions}}
Contribution {{.Label}}: {{money $.CurrencySymbol .Amount}}
{{- end}}
Taxes: {{money .CurrencySymbol .Taxes}}
Net pay: {{money .CurrencySymbol .NetPay}}
Paid to {{.BankName}} account {{.AccountNumber}}.`))

// BuildPrompt renders the prompt sent to the text-generation endpoint.
func BuildPrompt(in PayslipInput) (string, error) {
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, in); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type HTTPNarratorConfig struct {
	URL     string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// HTTPNarrator posts {"model","prompt"} as JSON and expects {"text"} back.
type HTTPNarrator struct {
	url    string
	apiKey string
	model  string
	client *http.Client
	logger *zap.Logger
}

func NewHTTPNarrator(cfg HTTPNarratorConfig, logger ...*zap.Logger) *HTTPNarrator {
	l := zap.L().Named("payroll.narrator")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.narrator")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPNarrator{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		client: &http.Client{Timeout: timeout},
		logger: l,
	}
}

type narrateRequest struct {
	Model  string `json:"model,omitempty"`
	Prompt string `json:"prompt"`
}

type narrateResponse struct {
	Text string `json:"text"`
}

func (n *HTTPNarrator) Render(ctx context.Context, in PayslipInput) (string, error) {
	prompt, err := BuildPrompt(in)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(narrateRequest{Model: n.model, Prompt: prompt})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if n.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+n.apiKey)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("narrator status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out narrateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	text := strings.TrimSpace(out.Text)
	if text == "" {
		return "", errEmptyNarrative
	}
	n.logger.Debug("narrative rendered", zap.String("employee_id", in.EmployeeID), zap.Int("length", len(text)))
	return text, nil
}
