package payroll_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-payroll/internal/payroll"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	prompt, err := payroll.BuildPrompt(samplePayslip(t))
	require.NoError(t, err)

	assert.Contains(t, prompt, "Grace Hopper (Engineer) at Acme Ltd for March 2026")
	assert.Contains(t, prompt, "Gross pay: $1000.00")
	assert.Contains(t, prompt, "Allowance Holiday Bonus: $100.00")
	assert.Contains(t, prompt, "Deduction Loan Repayment: $50.00")
	assert.Contains(t, prompt, "Contribution Pension Fund: $50.00")
	assert.Contains(t, prompt, "Net pay: $900.00")
}

func TestHTTPNarrator_Render(t *testing.T) {
	var got struct {
		Model  string `json:"model"`
		Prompt string `json:"prompt"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"  Grace earned $900.00 this month.  "}`))
	}))
	defer srv.Close()

	n := payroll.NewHTTPNarrator(payroll.HTTPNarratorConfig{URL: srv.URL, APIKey: "secret", Model: "writer-1"})
	text, err := n.Render(context.Background(), samplePayslip(t))
	require.NoError(t, err)

	assert.Equal(t, "Grace earned $900.00 this month.", text)
	assert.Equal(t, "writer-1", got.Model)
	assert.Contains(t, got.Prompt, "Net pay: $900.00")
}

func TestHTTPNarrator_Failures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		},
		"empty text": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"text":""}`))
		},
		"bad json": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			n := payroll.NewHTTPNarrator(payroll.HTTPNarratorConfig{URL: srv.URL})
			_, err := n.Render(context.Background(), samplePayslip(t))
			assert.Error(t, err)
		})
	}
}

func TestHTTPNarrator_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	n := payroll.NewHTTPNarrator(payroll.HTTPNarratorConfig{URL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := n.Render(context.Background(), samplePayslip(t))
	assert.Error(t, err)
}
