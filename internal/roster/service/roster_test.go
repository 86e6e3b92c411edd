package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-system/internal/domain"
)

type fakeRosterRepo struct {
	members []domain.StaffMember
	nextSeq int64
}

func (f *fakeRosterRepo) List(ctx context.Context) ([]domain.StaffMember, error) {
	return f.members, nil
}

func (f *fakeRosterRepo) FindByCode(ctx context.Context, code string) (*domain.StaffMember, error) {
	for _, m := range f.members {
		if m.Code == code {
			return &m, nil
		}
	}
	return nil, domain.NotFound("staff", code)
}

func (f *fakeRosterRepo) Add(ctx context.Context, name string, format func(int64) string) (domain.StaffMember, error) {
	f.nextSeq++
	m := domain.StaffMember{ID: f.nextSeq, Name: name, Code: format(f.nextSeq)}
	f.members = append(f.members, m)
	return m, nil
}

func TestFormatCode(t *testing.T) {
	assert.Equal(t, "ENC-001", FormatCode(1))
	assert.Equal(t, "ENC-042", FormatCode(42))
	assert.Equal(t, "ENC-100", FormatCode(100))
	assert.Equal(t, "ENC-1234", FormatCode(1234))
}

func TestAddValidatesName(t *testing.T) {
	svc := NewRosterService(&fakeRosterRepo{})

	for _, bad := range []string{"ana perez", "Juan", "", "  "} {
		_, err := svc.Add(context.Background(), bad)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr, "name %q", bad)
	}

	m, err := svc.Add(context.Background(), "Ana María González")
	require.NoError(t, err)
	assert.Equal(t, "ENC-001", m.Code)
	assert.Equal(t, "Ana María González", m.Name)
}

func TestResolveExistingCode(t *testing.T) {
	repo := &fakeRosterRepo{members: []domain.StaffMember{{ID: 7, Name: "Juan Pérez", Code: "ENC-007"}}}
	svc := NewRosterService(repo)

	m, err := svc.Resolve(context.Background(), "", "ENC-007")
	require.NoError(t, err)
	assert.Equal(t, "Juan Pérez", m.Name)

	_, err = svc.Resolve(context.Background(), "", "ENC-999")
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestResolveFreshAdd(t *testing.T) {
	repo := &fakeRosterRepo{}
	svc := NewRosterService(repo)

	m, err := svc.Resolve(context.Background(), "Pedro Soto", "")
	require.NoError(t, err)
	assert.Equal(t, "ENC-001", m.Code)
	require.Len(t, repo.members, 1)
}
