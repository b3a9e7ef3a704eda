package validator

import (
	"strings"
	"testing"
)

func validRegister() *RegisterRequest {
	return &RegisterRequest{
		ID:              "alice.01",
		Name:            "Alice",
		Affiliation:     "QA Team",
		Position:        "researcher",
		Password:        "secret-pw",
		PasswordConfirm: "secret-pw",
	}
}

func TestValidateRegisterAccepts(t *testing.T) {
	v := New()
	if errs := v.GetBusinessValidator().ValidateRegister(validRegister()); len(errs) > 0 {
		t.Fatalf("valid request rejected: %v", errs.Error())
	}
}

func TestValidateRegisterAccountIDCharset(t *testing.T) {
	v := New()

	for _, id := range []string{"has space", "semi;colon", "uni코드"} {
		req := validRegister()
		req.ID = id
		errs := v.GetBusinessValidator().ValidateRegister(req)
		if len(errs) == 0 {
			t.Fatalf("id %q must be rejected", id)
		}
	}

	for _, id := range []string{"alice", "a-b_c.d", "USER42"} {
		req := validRegister()
		req.ID = id
		if errs := v.GetBusinessValidator().ValidateRegister(req); len(errs) > 0 {
			t.Fatalf("id %q must be accepted: %v", id, errs.Error())
		}
	}
}

func TestValidateRegisterUnknownPosition(t *testing.T) {
	v := New()

	req := validRegister()
	req.Position = "intern"
	errs := v.GetBusinessValidator().ValidateRegister(req)
	if len(errs) == 0 {
		t.Fatal("unknown position must be rejected")
	}
	if !strings.Contains(errs.Error(), "position") {
		t.Fatalf("message should name the position field: %q", errs.Error())
	}
}

func TestValidateRegisterPasswordConfirm(t *testing.T) {
	v := New()

	req := validRegister()
	req.PasswordConfirm = "different"
	errs := v.GetBusinessValidator().ValidateRegister(req)
	if len(errs) == 0 {
		t.Fatal("mismatched confirmation must be rejected")
	}

	found := false
	for _, e := range errs {
		if e.Rule == "eqfield" {
			found = true
		}
	}
	if !found {
		t.Fatalf("want eqfield violation, got %v", errs)
	}
}

func TestValidateRegisterShortPassword(t *testing.T) {
	v := New()

	req := validRegister()
	req.Password = "abc"
	req.PasswordConfirm = "abc"
	if errs := v.GetBusinessValidator().ValidateRegister(req); len(errs) == 0 {
		t.Fatal("short password must be rejected")
	}
}

func TestValidateExportWindow(t *testing.T) {
	v := New()
	bv := v.GetBusinessValidator()

	if errs := bv.ValidateExportWindow(&HistoryExportRequest{}); len(errs) == 0 {
		t.Fatal("empty window must be rejected")
	}
	if errs := bv.ValidateExportWindow(&HistoryExportRequest{Period: "week"}); len(errs) > 0 {
		t.Fatalf("period window rejected: %v", errs.Error())
	}
	if errs := bv.ValidateExportWindow(&HistoryExportRequest{Period: "year"}); len(errs) == 0 {
		t.Fatal("unknown period must be rejected")
	}
	if errs := bv.ValidateExportWindow(&HistoryExportRequest{
		StartDate: "2026-08-01", EndDate: "2026-08-15",
	}); len(errs) > 0 {
		t.Fatalf("date window rejected: %v", errs.Error())
	}
	if errs := bv.ValidateExportWindow(&HistoryExportRequest{
		StartDate: "2026-08-15", EndDate: "2026-08-01",
	}); len(errs) == 0 {
		t.Fatal("inverted range must be rejected")
	}
	if errs := bv.ValidateExportWindow(&HistoryExportRequest{
		StartDate: "15/08/2026",
	}); len(errs) == 0 {
		t.Fatal("malformed date must be rejected")
	}
}

func TestValidateDeviceStatusRequest(t *testing.T) {
	v := New()

	if errs := v.Validate(&DeviceStatusRequest{SerialNumber: "SN-1", Status: "repair"}); len(errs) > 0 {
		t.Fatalf("valid status rejected: %v", errs.Error())
	}
	if errs := v.Validate(&DeviceStatusRequest{SerialNumber: "SN-1", Status: "broken"}); len(errs) == 0 {
		t.Fatal("unknown status must be rejected")
	}
}
