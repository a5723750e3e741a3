package service

import (
	"testing"

	"github.com/Sachinsen7/grin/internal/model"

	"github.com/shopspring/decimal"
)

func TestParseDecimalLenient(t *testing.T) {
	cases := []struct {
		in   string
		want decimal.Decimal
	}{
		{"", decimal.Zero},
		{"12.50", decimal.NewFromFloat(12.5)},
		{"-3", decimal.NewFromInt(-3)},
		{"abc", decimal.Zero},
		{"1,200", decimal.Zero},
	}

	for _, tc := range cases {
		if got := parseDecimal(tc.in); !got.Equal(tc.want) {
			t.Errorf("parseDecimal(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseLineItems(t *testing.T) {
	items, err := parseLineItems("")
	if err != nil {
		t.Fatalf("empty tableData should parse: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty list, got %d items", len(items))
	}

	items, err = parseLineItems(`[{"item":"Bolts","quantity":"100","price":"2","amount":"200"}]`)
	if err != nil {
		t.Fatalf("valid tableData should parse: %v", err)
	}
	if len(items) != 1 || items[0].Item != "Bolts" {
		t.Fatalf("unexpected items: %+v", items)
	}

	if _, err = parseLineItems("{not json"); err == nil {
		t.Fatal("malformed tableData must be rejected on upload")
	}
}

func TestSanitizeLineItemsFallsBackToEmpty(t *testing.T) {
	cases := []struct {
		name  string
		value interface{}
		want  int
	}{
		{"json string", `[{"item":"Pipe"}]`, 1},
		{"garbage string", "{{{", 0},
		{"array", []interface{}{map[string]interface{}{"item": "Rod"}}, 1},
		{"scalar", 42, 0},
		{"nil", nil, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sanitizeLineItems(tc.value)
			if len(got) != tc.want {
				t.Errorf("sanitizeLineItems(%v) = %d items, want %d", tc.value, len(got), tc.want)
			}
		})
	}
}

func TestResolveSignatureColumn(t *testing.T) {
	cases := []struct {
		name    string
		req     VerifyPartyRequest
		want    string
		wantErr bool
	}{
		{"manager type", VerifyPartyRequest{ManagerType: "Store Manager"}, model.FieldStoreManagerSigned, false},
		{"auditor", VerifyPartyRequest{ManagerType: "Auditor"}, model.FieldAuditorSigned, false},
		{"explicit column", VerifyPartyRequest{FieldName: model.FieldGeneralManagerSigned}, model.FieldGeneralManagerSigned, false},
		{"document field spelling", VerifyPartyRequest{FieldName: "AccountManagerSigned"}, model.FieldAccountManagerSigned, false},
		{"document field auditor", VerifyPartyRequest{FieldName: "AuditorSigned"}, model.FieldAuditorSigned, false},
		{"field name wins", VerifyPartyRequest{ManagerType: "Store Manager", FieldName: model.FieldAuditorSigned}, model.FieldAuditorSigned, false},
		{"hidden flag not a signature", VerifyPartyRequest{ManagerType: "isHidden"}, "", true},
		{"hidden field not a signature", VerifyPartyRequest{FieldName: "isHidden"}, "", true},
		{"unknown manager", VerifyPartyRequest{ManagerType: "Plant Manager"}, "", true},
		{"sql injection attempt", VerifyPartyRequest{FieldName: "store_manager_signed; DROP TABLE gsn_entries"}, "", true},
		{"nothing given", VerifyPartyRequest{}, "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolveSignatureColumn(tc.req)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got column %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
