package qr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"vms/backend/internal/entity"
	"vms/backend/internal/repository/postgres"
)

type memoryVendors struct {
	mu      sync.Mutex
	vendors map[int]entity.Vendor
	saves   int
	getErr  error
}

func newMemoryVendors(vendors ...entity.Vendor) *memoryVendors {
	m := &memoryVendors{vendors: map[int]entity.Vendor{}}
	for _, v := range vendors {
		m.vendors[v.ID] = v
	}
	return m
}

func (m *memoryVendors) GetById(ctx context.Context, id int) (entity.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return entity.Vendor{}, m.getErr
	}
	v, ok := m.vendors[id]
	if !ok {
		return entity.Vendor{}, postgres.NotFound("vendor")
	}
	return v, nil
}

func (m *memoryVendors) SaveQRCode(ctx context.Context, id int, data, imageURL string, generatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.vendors[id]
	v.QRCodeData, v.QRCodeImageURL, v.QRCodeGeneratedAt = &data, &imageURL, &generatedAt
	m.vendors[id] = v
	m.saves++
	return nil
}

func (m *memoryVendors) ListVerified(ctx context.Context) ([]entity.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Vendor
	for _, v := range m.vendors {
		if v.IsVerified() {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryVendors) ListVerifiedWithoutQRCode(ctx context.Context) ([]entity.Vendor, error) {
	all, _ := m.ListVerified(ctx)
	var out []entity.Vendor
	for _, v := range all {
		if !v.HasQRCode() {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memoryVendors) rename(id int, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.vendors[id]
	v.CompanyName = &name
	m.vendors[id] = v
}

type fakeUploader struct {
	mu      sync.Mutex
	uploads map[string][]byte
	failFor map[string]bool
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{uploads: map[string][]byte{}, failFor: map[string]bool{}}
}

func (u *fakeUploader) Upload(ctx context.Context, r io.Reader, folder, filename string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.failFor[filename] {
		return "", errors.New("storage unavailable")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	key := folder + "/" + filename
	u.uploads[key] = b
	return fmt.Sprintf("https://cdn.example.com/%s", key), nil
}

type stubRenderer struct {
	err error
}

func (s stubRenderer) Render(content string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte("png:" + content), nil
}

func strPtr(s string) *string { return &s }

func acme() entity.Vendor {
	v := entity.Vendor{
		CompanyName:        strPtr("Acme Co"),
		GSTIN:              strPtr("GST123"),
		VerificationStatus: entity.StatusVerified,
		Owner:              &entity.User{FullName: strPtr("Jane Doe")},
	}
	v.ID = 7
	return v
}
