package source

import (
	"strings"
	"testing"

	"github.com/kirill-demidov/gcp-cost-agent/internal/model"
)

func TestParseBasicExport(t *testing.T) {
	csv := strings.Join([]string{
		"invoice_month,project_id,service_description,cost,currency",
		"202507,proj-a,Compute Engine,100.50,USD",
		"202507,proj-b,Cloud Storage,20.25,USD",
		"202508,proj-a,Compute Engine,110.00,USD",
	}, "\n")

	result := Parse(strings.NewReader(csv))
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(result.Records))
	}
	if result.ParseErrors != 0 {
		t.Errorf("ParseErrors = %d, want 0", result.ParseErrors)
	}

	r := result.Records[0]
	if r.Month.String() != "2025-07" {
		t.Errorf("Month = %s, want 2025-07", r.Month)
	}
	if r.Project != "proj-a" || r.Service != "Compute Engine" {
		t.Errorf("identity = %s/%s", r.Project, r.Service)
	}
	if r.Cost.Cmp(model.MustMoney("100.50")) != 0 {
		t.Errorf("Cost = %s, want 100.50", r.Cost)
	}
}

func TestParseColumnOrderIrrelevant(t *testing.T) {
	csv := strings.Join([]string{
		"cost,service,month,project",
		"42.00,Compute Engine,2025-07,proj-a",
	}, "\n")

	result := Parse(strings.NewReader(csv))
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(result.Records))
	}
	if result.Records[0].Currency != "USD" {
		t.Errorf("Currency = %q, want default USD", result.Records[0].Currency)
	}
}

func TestParseSkipsMalformedRows(t *testing.T) {
	csv := strings.Join([]string{
		"invoice_month,project_id,service_description,cost",
		"202507,proj-a,Compute Engine,100.50",
		"not-a-month,proj-a,Compute Engine,10",
		"202507,proj-a,Compute Engine,not-a-cost",
		"202507,,Compute Engine,10",
		"202508,proj-a,Compute Engine,99.99",
	}, "\n")

	result := Parse(strings.NewReader(csv))
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Records) != 2 {
		t.Errorf("got %d records, want 2", len(result.Records))
	}
	if result.ParseErrors != 3 {
		t.Errorf("ParseErrors = %d, want 3", result.ParseErrors)
	}
}

func TestParseMissingRequiredColumn(t *testing.T) {
	csv := "project_id,cost\nproj-a,10\n"
	result := Parse(strings.NewReader(csv))
	if result.Err == nil {
		t.Fatal("expected error for missing columns")
	}
}

// FuzzParse tests that the CSV parser never panics on arbitrary input,
// which is important since it processes user-supplied export files.
func FuzzParse(f *testing.F) {
	f.Add("invoice_month,project_id,service_description,cost\n202507,p,s,10.00\n")
	f.Add("month,project,service,cost\n2025-07,p,s,0\n")
	f.Add("cost\n1\n")
	f.Add("")
	f.Add("\"unterminated")
	f.Add("invoice_month,project_id,service_description,cost\n202507,p,s\n")
	f.Add("invoice_month,project_id,service_description,cost\nnot-a-month,p,s,x\n")

	f.Fuzz(func(t *testing.T, data string) {
		result := Parse(strings.NewReader(data))
		if result.Err != nil {
			return
		}
		// Accepted rows must carry a valid month and identity.
		for _, r := range result.Records {
			if r.Project == "" || r.Service == "" {
				t.Errorf("accepted record with empty identity from %q", data)
			}
			if r.Month.IsZero() {
				t.Errorf("accepted record with zero month from %q", data)
			}
		}
	})
}
