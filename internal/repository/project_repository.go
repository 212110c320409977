package repository

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/domain"
	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/store"
)

type ProjectRepository struct {
	Store *store.Store
}

type CreateProjectParams struct {
	ClientID            string
	ContractCode        string
	Name                string
	LeadName            string
	ContractSigningDate *domain.Date
	ContractDeadline    *domain.Date
	ContractType        domain.ContractType
	ProjectType         domain.ProjectType
	TotalValue          int64
	Architect           string
	StructuralEngineer  string
	MEEngineer          string
	PlumbingEngineer    string
}

// ProjectPatch updates individual contract fields. Nil pointers leave the
// stored value untouched. Changing TotalValue rebalances the difference into
// the final settlement milestone, matching the inline edit on the project card.
type ProjectPatch struct {
	ContractCode        *string
	Name                *string
	LeadName            *string
	ContractSigningDate *domain.Date
	ContractDeadline    *domain.Date
	ContractType        *domain.ContractType
	ProjectType         *domain.ProjectType
	TotalValue          *int64
	Architect           *string
	StructuralEngineer  *string
	MEEngineer          *string
	PlumbingEngineer    *string
}

type MilestonePatch struct {
	Name    *string
	Amount  *int64
	DueDate *domain.Date
	Status  *domain.PaymentStatus
}

type AttachFileParams struct {
	Name        string
	ContentType string
	StageID     *string
	ArchiveRoot string
}

// List returns projects, optionally filtered by project type (the tab filter).
func (r ProjectRepository) List(ctx context.Context, projectType domain.ProjectType) []domain.Project {
	projects := r.Store.Projects()
	if projectType == "" {
		return projects
	}
	out := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		if p.ProjectType == projectType {
			out = append(out, p)
		}
	}
	return out
}

func (r ProjectRepository) Get(ctx context.Context, id string) (*domain.Project, error) {
	for _, p := range r.Store.Projects() {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

// Create runs the new-project wizard: the fixed stage template with the first
// stage started and weekly default deadlines, plus a 30% deposit and a
// remainder settlement milestone.
func (r ProjectRepository) Create(ctx context.Context, in CreateProjectParams) (*domain.Project, error) {
	today := domain.Today()

	stages := make([]domain.ProjectStage, 0, len(domain.StageTemplate))
	for i, name := range domain.StageTemplate {
		status := domain.StageNotStarted
		if i == 0 {
			status = domain.StageInProgress
		}
		deadline := today.AddDays(7 * (i + 1))
		stages = append(stages, domain.ProjectStage{
			ID:       uuid.NewString(),
			Name:     name,
			Status:   status,
			Deadline: &deadline,
		})
	}

	deposit, settlement := domain.DepositSplit(in.TotalValue)
	depositDue := today
	if in.ContractSigningDate != nil {
		depositDue = *in.ContractSigningDate
	}
	payments := []domain.PaymentMilestone{
		{ID: uuid.NewString(), Name: "Tạm ứng đợt 1 (Ký HĐ)", Amount: deposit, DueDate: depositDue, Status: domain.PaymentUnpaid},
		{ID: uuid.NewString(), Name: "Quyết toán & Bàn giao", Amount: settlement, DueDate: today, Status: domain.PaymentUnpaid},
	}

	p := domain.Project{
		ID:                  uuid.NewString(),
		ClientID:            in.ClientID,
		ContractCode:        in.ContractCode,
		Name:                in.Name,
		LeadName:            in.LeadName,
		ContractSigningDate: in.ContractSigningDate,
		ContractDeadline:    in.ContractDeadline,
		ContractType:        in.ContractType,
		ProjectType:         in.ProjectType,
		TotalValue:          in.TotalValue,
		Architect:           in.Architect,
		StructuralEngineer:  in.StructuralEngineer,
		MEEngineer:          in.MEEngineer,
		PlumbingEngineer:    in.PlumbingEngineer,
		Stages:              stages,
		Payments:            payments,
		Files:               []domain.ProjectFile{},
		CreatedAt:           time.Now(),
	}
	err := r.Store.MutateProjects(func(projects []domain.Project) ([]domain.Project, error) {
		return append(projects, p), nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r ProjectRepository) Update(ctx context.Context, id string, patch ProjectPatch) (*domain.Project, error) {
	return r.mutate(id, func(p domain.Project) (domain.Project, error) {
		if patch.ContractCode != nil {
			p.ContractCode = *patch.ContractCode
		}
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.LeadName != nil {
			p.LeadName = *patch.LeadName
		}
		if patch.ContractSigningDate != nil {
			d := *patch.ContractSigningDate
			p.ContractSigningDate = &d
		}
		if patch.ContractDeadline != nil {
			d := *patch.ContractDeadline
			p.ContractDeadline = &d
		}
		if patch.ContractType != nil {
			p.ContractType = *patch.ContractType
		}
		if patch.ProjectType != nil {
			p.ProjectType = *patch.ProjectType
		}
		if patch.Architect != nil {
			p.Architect = *patch.Architect
		}
		if patch.StructuralEngineer != nil {
			p.StructuralEngineer = *patch.StructuralEngineer
		}
		if patch.MEEngineer != nil {
			p.MEEngineer = *patch.MEEngineer
		}
		if patch.PlumbingEngineer != nil {
			p.PlumbingEngineer = *patch.PlumbingEngineer
		}
		if patch.TotalValue != nil {
			p = domain.BalanceToLast(p, *patch.TotalValue)
			if len(p.Payments) == 0 {
				p.TotalValue = *patch.TotalValue
			}
		}
		return p, nil
	})
}

func (r ProjectRepository) SetStageStatus(ctx context.Context, projectID, stageID string, status domain.StageStatus) (*domain.Project, error) {
	return r.mutate(projectID, func(p domain.Project) (domain.Project, error) {
		for i := range p.Stages {
			if p.Stages[i].ID == stageID {
				p.Stages[i].Status = status
				return p, nil
			}
		}
		return p, ErrNotFound
	})
}

func (r ProjectRepository) SetStageDeadline(ctx context.Context, projectID, stageID string, deadline domain.Date) (*domain.Project, error) {
	return r.mutate(projectID, func(p domain.Project) (domain.Project, error) {
		for i := range p.Stages {
			if p.Stages[i].ID == stageID {
				d := deadline
				p.Stages[i].Deadline = &d
				return p, nil
			}
		}
		return p, ErrNotFound
	})
}

// AddMilestone appends a zero-amount tranche just before the final settlement
// so "Quyết toán & Bàn giao" stays last in the list.
func (r ProjectRepository) AddMilestone(ctx context.Context, projectID string) (*domain.Project, error) {
	return r.mutate(projectID, func(p domain.Project) (domain.Project, error) {
		m := domain.PaymentMilestone{
			ID:      uuid.NewString(),
			Name:    "Đợt thanh toán " + strconv.Itoa(len(p.Payments)),
			Amount:  0,
			DueDate: domain.Today(),
			Status:  domain.PaymentUnpaid,
		}
		if len(p.Payments) == 0 {
			p.Payments = append(p.Payments, m)
			return p, nil
		}
		last := len(p.Payments) - 1
		p.Payments = append(p.Payments[:last], append([]domain.PaymentMilestone{m}, p.Payments[last:]...)...)
		return p, nil
	})
}

func (r ProjectRepository) UpdateMilestone(ctx context.Context, projectID, milestoneID string, patch MilestonePatch) (*domain.Project, error) {
	return r.mutate(projectID, func(p domain.Project) (domain.Project, error) {
		for i := range p.Payments {
			if p.Payments[i].ID != milestoneID {
				continue
			}
			if patch.Name != nil {
				p.Payments[i].Name = *patch.Name
			}
			if patch.Amount != nil {
				p.Payments[i].Amount = *patch.Amount
			}
			if patch.DueDate != nil {
				p.Payments[i].DueDate = *patch.DueDate
			}
			if patch.Status != nil {
				p.Payments[i].Status = *patch.Status
			}
			return p, nil
		}
		return p, ErrNotFound
	})
}

func (r ProjectRepository) DeleteMilestone(ctx context.Context, projectID, milestoneID string) (*domain.Project, error) {
	return r.mutate(projectID, func(p domain.Project) (domain.Project, error) {
		for i := range p.Payments {
			if p.Payments[i].ID != milestoneID {
				continue
			}
			if i == len(p.Payments)-1 {
				return p, ErrLastMilestone
			}
			p.Payments = append(p.Payments[:i], p.Payments[i+1:]...)
			return p, nil
		}
		return p, ErrNotFound
	})
}

// Rebalance recomputes the final settlement amount against the current
// contract value. Explicit user action only.
func (r ProjectRepository) Rebalance(ctx context.Context, projectID string) (*domain.Project, error) {
	return r.mutate(projectID, func(p domain.Project) (domain.Project, error) {
		return domain.BalanceToLast(p, p.TotalValue), nil
	})
}

// AttachFile records upload metadata with a synthesized archive path. A file
// tagged to a stage marks that stage done, whatever its status was.
func (r ProjectRepository) AttachFile(ctx context.Context, projectID string, in AttachFileParams) (*domain.Project, error) {
	return r.mutate(projectID, func(p domain.Project) (domain.Project, error) {
		folder := underscore(p.Name)
		if in.StageID != nil {
			for i := range p.Stages {
				if p.Stages[i].ID == *in.StageID {
					folder += `\` + underscore(p.Stages[i].Name)
					p.Stages[i].Status = domain.StageDone
					break
				}
			}
		}
		p.Files = append(p.Files, domain.ProjectFile{
			ID:         uuid.NewString(),
			Name:       in.Name,
			Type:       fileKind(in.ContentType),
			Path:       in.ArchiveRoot + `\` + folder + `\` + in.Name,
			UploadedAt: time.Now(),
			StageID:    in.StageID,
		})
		return p, nil
	})
}

func (r ProjectRepository) mutate(id string, fn func(domain.Project) (domain.Project, error)) (*domain.Project, error) {
	var out domain.Project
	err := r.Store.MutateProjects(func(projects []domain.Project) ([]domain.Project, error) {
		for i := range projects {
			if projects[i].ID != id {
				continue
			}
			next, err := fn(projects[i])
			if err != nil {
				return nil, err
			}
			projects[i] = next
			out = next.Clone()
			return projects, nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func fileKind(contentType string) string {
	if _, sub, ok := strings.Cut(contentType, "/"); ok && sub != "" {
		return sub
	}
	return "doc"
}

func underscore(s string) string {
	return strings.Join(strings.Fields(s), "_")
}
