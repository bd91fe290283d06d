package qr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vms/backend/internal/entity"
)

func TestPayloadEncode(t *testing.T) {
	got, err := NewPayload(acme()).Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"company_id":"7","company_name":"Acme Co","GSTN_number":"GST123","company_owner_name":"Jane Doe"}`, got)
}

func TestPayloadEncodeEmptyFields(t *testing.T) {
	v := entity.Vendor{}
	v.ID = 3

	got, err := NewPayload(v).Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"company_id":"3","company_name":"","GSTN_number":"","company_owner_name":""}`, got)
}

func TestPayloadEncodeKeepsMarkup(t *testing.T) {
	v := acme()
	v.CompanyName = strPtr("Tom & Jerry <Ltd>")

	got, err := NewPayload(v).Encode()
	require.NoError(t, err)
	assert.Contains(t, got, `"company_name":"Tom & Jerry <Ltd>"`)
}

func TestDecode(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		raw, err := NewPayload(acme()).Encode()
		require.NoError(t, err)

		got, err := Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, 7, got.CompanyID)
		assert.Equal(t, "Acme Co", *got.CompanyName)
		assert.Equal(t, "GST123", *got.GSTNNumber)
		assert.Equal(t, "Jane Doe", *got.CompanyOwnerName)
	})

	t.Run("numeric company id", func(t *testing.T) {
		got, err := Decode(`{"company_id": 12}`)
		require.NoError(t, err)
		assert.Equal(t, 12, got.CompanyID)
		assert.Nil(t, got.CompanyName)
		assert.Nil(t, got.GSTNNumber)
		assert.Nil(t, got.CompanyOwnerName)
	})

	t.Run("surrounding whitespace", func(t *testing.T) {
		got, err := Decode(" {\"company_id\":\"9\"}\n")
		require.NoError(t, err)
		assert.Equal(t, 9, got.CompanyID)
	})

	t.Run("padded string company id", func(t *testing.T) {
		got, err := Decode(`{"company_id": " 5 "}`)
		require.NoError(t, err)
		assert.Equal(t, 5, got.CompanyID)
	})

	invalidFormat := []string{"", "not json", "[1,2]", `"text"`, "null", "42", `{"company_id":"1"} trailing`, `{"company_id":"1"}}`, `{"company_id":"1"}]`, `{"company_id":"1"}{}`, `{"company_id":"1","company_name":{"x":1}}`}
	for _, raw := range invalidFormat {
		_, err := Decode(raw)
		assert.ErrorIs(t, err, ErrInvalidFormat, "input %q", raw)
	}

	invalidID := []string{`{}`, `{"company_id":"abc"}`, `{"company_id":1.5}`, `{"company_id":true}`, `{"company_id":null}`, `{"company_id":""}`}
	for _, raw := range invalidID {
		_, err := Decode(raw)
		assert.ErrorIs(t, err, ErrInvalidCompanyID, "input %q", raw)
	}
}
