// Package qr encodes vendor identities into QR codes and validates scanned
// codes against the live vendor records.
package qr

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"vms/backend/internal/entity"
)

var (
	ErrInvalidFormat    = errors.New("invalid QR format")
	ErrInvalidCompanyID = errors.New("invalid company identifier")
)

const (
	keyCompanyID   = "company_id"
	keyCompanyName = "company_name"
	keyGSTN        = "GSTN_number"
	keyOwnerName   = "company_owner_name"
)

// Payload is the identity snapshot embedded in a vendor's QR code. Field
// order is the serialized key order.
type Payload struct {
	CompanyID        string `json:"company_id"`
	CompanyName      string `json:"company_name"`
	GSTNNumber       string `json:"GSTN_number"`
	CompanyOwnerName string `json:"company_owner_name"`
}

func NewPayload(v entity.Vendor) Payload {
	return Payload{
		CompanyID:        strconv.Itoa(v.ID),
		CompanyName:      deref(v.CompanyName),
		GSTNNumber:       deref(v.GSTIN),
		CompanyOwnerName: v.OwnerName(),
	}
}

// Encode serializes the payload as compact JSON.
func (p Payload) Encode() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return "", errors.Wrap(err, "encoding qr payload")
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Scanned is a decoded payload. String fields are nil when the key was not
// present in the scanned text.
type Scanned struct {
	CompanyID        int
	CompanyName      *string
	GSTNNumber       *string
	CompanyOwnerName *string
}

// Decode parses scanned QR text. Anything that is not a JSON object yields
// ErrInvalidFormat; a missing or non-integer company_id yields
// ErrInvalidCompanyID.
func Decode(raw string) (Scanned, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil || doc == nil {
		return Scanned{}, ErrInvalidFormat
	}
	if _, err := dec.Token(); err != io.EOF {
		return Scanned{}, ErrInvalidFormat
	}

	id, err := companyID(doc[keyCompanyID])
	if err != nil {
		return Scanned{}, err
	}

	out := Scanned{CompanyID: id}
	for key, dst := range map[string]**string{
		keyCompanyName: &out.CompanyName,
		keyGSTN:        &out.GSTNNumber,
		keyOwnerName:   &out.CompanyOwnerName,
	} {
		v, ok := doc[key]
		if !ok || v == nil {
			continue
		}
		s, err := scalar(v)
		if err != nil {
			return Scanned{}, err
		}
		*dst = &s
	}

	return out, nil
}

func companyID(v interface{}) (int, error) {
	switch t := v.(type) {
	case string:
		id, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, ErrInvalidCompanyID
		}
		return id, nil
	case json.Number:
		id, err := strconv.Atoi(t.String())
		if err != nil {
			return 0, ErrInvalidCompanyID
		}
		return id, nil
	default:
		return 0, ErrInvalidCompanyID
	}
}

func scalar(v interface{}) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", ErrInvalidFormat
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
