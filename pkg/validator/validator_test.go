package validator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Content string  `json:"content" validate:"required,max=10"`
	ReplyTo *string `json:"reply_to_id" validate:"omitempty,uuid4"`
}

func TestValidateStructPasses(t *testing.T) {
	require.NoError(t, ValidateStruct(&samplePayload{Content: "hello"}))
}

func TestValidateStructReportsJSONFieldNames(t *testing.T) {
	err := ValidateStruct(&samplePayload{Content: ""})
	require.Error(t, err)

	fieldErrs, ok := err.(FieldErrors)
	require.True(t, ok)
	require.Len(t, fieldErrs, 1)
	require.Equal(t, "content", fieldErrs[0].Field)
	require.Equal(t, "required", fieldErrs[0].Tag)
}

func TestValidateStructCollectsMultipleFailures(t *testing.T) {
	bad := "not-a-uuid"
	err := ValidateStruct(&samplePayload{Content: "far too long for the limit", ReplyTo: &bad})
	require.Error(t, err)

	fieldErrs, ok := err.(FieldErrors)
	require.True(t, ok)
	require.Len(t, fieldErrs, 2)
}

func TestFieldErrorsMessage(t *testing.T) {
	errs := FieldErrors{
		{Field: "content", Tag: "max", Param: "10"},
		{Field: "reply_to_id", Tag: "uuid4"},
	}
	require.Equal(t, "content failed on max=10; reply_to_id failed on uuid4", errs.Error())
}
