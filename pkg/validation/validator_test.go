package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
)

type signupForm struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" json:"email_address" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

func TestToDetailsUsesFormNames(t *testing.T) {
	Init()
	err := binding.Validator.ValidateStruct(&signupForm{Email: "nope", Password: "abc"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	got := ToDetails(err)
	want := map[string]string{
		"name":     "is required",
		"email":    "must be a valid email",
		"password": "min length 6",
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("details[%s] = %q, want %q (all: %v)", k, got[k], v, got)
		}
	}
}

func TestToDetailsPayloadErrors(t *testing.T) {
	var v map[string]any
	err := json.Unmarshal([]byte("{"), &v)
	if got := ToDetails(err); got["payload"] != "invalid json" {
		t.Fatalf("got %v", got)
	}
	if got := ToDetails(errors.New("x")); got["payload"] != "invalid payload" {
		t.Fatalf("got %v", got)
	}
	if ToDetails(nil) != nil {
		t.Fatalf("expected nil")
	}
}
