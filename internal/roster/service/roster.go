package service

import (
	"context"
	"fmt"
	"strings"

	"laundry-system/internal/domain"
	"laundry-system/internal/phase"
	"laundry-system/internal/roster/repository"
)

type RosterServiceInterface interface {
	List(ctx context.Context) ([]domain.StaffMember, error)
	Add(ctx context.Context, name string) (domain.StaffMember, error)
	// Resolve turns operator input into a roster member: an existing code
	// wins, otherwise the name is registered as a fresh entry.
	Resolve(ctx context.Context, name, code string) (domain.StaffMember, error)
}

type RosterService struct {
	repo repository.RosterRepositoryInterface
}

func NewRosterService(repo repository.RosterRepositoryInterface) RosterServiceInterface {
	return &RosterService{repo: repo}
}

// FormatCode renders a sequence number as a staff code, zero-padded to
// three digits (ENC-001, ENC-012, ENC-1234).
func FormatCode(seq int64) string {
	return fmt.Sprintf("ENC-%03d", seq)
}

func (s *RosterService) List(ctx context.Context) ([]domain.StaffMember, error) {
	return s.repo.List(ctx)
}

func (s *RosterService) Add(ctx context.Context, name string) (domain.StaffMember, error) {
	name = strings.TrimSpace(name)
	if !phase.ValidStaffName(name) {
		return domain.StaffMember{}, domain.Validationf("name", "must be two or more capitalized words")
	}
	return s.repo.Add(ctx, name, FormatCode)
}

func (s *RosterService) Resolve(ctx context.Context, name, code string) (domain.StaffMember, error) {
	code = strings.TrimSpace(code)
	if code != "" {
		m, err := s.repo.FindByCode(ctx, code)
		if err != nil {
			return domain.StaffMember{}, err
		}
		return *m, nil
	}
	return s.Add(ctx, name)
}
