package validation_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/fardannozami/ecoscan-bot/internal/domain"
	"github.com/fardannozami/ecoscan-bot/internal/validation"
)

func validActivity() domain.Activity {
	return domain.Activity{
		Code:         "reusable-cup",
		Name:         "Reusable Cup Champion",
		Category:     "Reuse/Reduce/Recycle",
		RewardPoints: 10,
		SDGs:         []int{12, 13},
		QRCodeValue:  "ecoscan:reusable-cup",
		Status:       domain.StatusActive,
	}
}

func TestStruct_ValidActivity(t *testing.T) {
	a := validActivity()
	if err := validation.Struct(&a); err != nil {
		t.Errorf("Expected valid activity, got %v", err)
	}
}

func TestStruct_Failures(t *testing.T) {
	testCases := map[string]struct {
		mutate func(a *domain.Activity)
		field  string
	}{
		"unknown category": {func(a *domain.Activity) { a.Category = "Sports" }, "Category"},
		"missing code":     {func(a *domain.Activity) { a.Code = "" }, "Code"},
		"negative points":  {func(a *domain.Activity) { a.RewardPoints = -1 }, "RewardPoints"},
		"sdg out of range": {func(a *domain.Activity) { a.SDGs = []int{18} }, "SDGs[0]"},
	}

	for name, tc := range testCases {
		a := validActivity()
		tc.mutate(&a)

		err := validation.Struct(&a)
		var verr *validation.Error
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected *validation.Error, got %v", name, err)
			continue
		}
		if len(verr.Fields) != 1 || verr.Fields[0].Field != tc.field {
			t.Errorf("%s: expected failure on %s, got %+v", name, tc.field, verr.Fields)
		}
	}
}

func TestError_MessageListsFields(t *testing.T) {
	a := validActivity()
	a.Code = ""
	a.Name = ""

	err := validation.Struct(&a)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if !strings.Contains(err.Error(), "Code: is required") || !strings.Contains(err.Error(), "Name: is required") {
		t.Errorf("Unexpected message: %s", err.Error())
	}
}
