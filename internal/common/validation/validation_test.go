package validation

import (
	"errors"
	"testing"
)

type adminForm struct {
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	Password string `json:"password" validate:"required,min=8"`
	Balance  string `json:"balance" validate:"omitempty,decimal,nonneg"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name       string
		form       adminForm
		wantFields []string
	}{
		{"valid", adminForm{Email: "a@b.co", Password: "longenough", Phone: "+919876543210", Balance: "10.50"}, nil},
		{"missing", adminForm{}, []string{"email", "password"}},
		{"malformed", adminForm{Email: "nope", Password: "short", Phone: "12ab"}, []string{"email", "password", "phone"}},
		{"negative balance", adminForm{Email: "a@b.co", Password: "longenough", Balance: "-1"}, []string{"balance"}},
		{"bad amount", adminForm{Email: "a@b.co", Password: "longenough", Balance: "ten"}, []string{"balance"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.form)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Struct() = %v, want nil", err)
				}
				return
			}
			var verrs Errors
			if !errors.As(err, &verrs) {
				t.Fatalf("Struct() = %v, want Errors", err)
			}
			if len(verrs) != len(tt.wantFields) {
				t.Errorf("fields = %v, want %v", verrs, tt.wantFields)
			}
			for _, f := range tt.wantFields {
				if verrs[f] == "" {
					t.Errorf("missing message for %q in %v", f, verrs)
				}
			}
		})
	}
}

func TestPasswordMessage(t *testing.T) {
	err := Struct(adminForm{Email: "a@b.co", Password: "abc"})
	var verrs Errors
	if !errors.As(err, &verrs) {
		t.Fatal(err)
	}
	if got := verrs["password"]; got != "Must be at least 8 characters" {
		t.Errorf("message = %q", got)
	}
}
