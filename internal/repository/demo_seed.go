package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/domain"
	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/store"
)

// SeedDemo loads the demo dataset the dashboard ships with: two consulting
// clients and one signed villa project. IDs are fixed so restarts are
// deterministic; seeding an already-populated store is a no-op.
func SeedDemo(ctx context.Context, s *store.Store) error {
	if c, p := s.Counts(); c > 0 || p > 0 {
		return nil
	}

	err := s.MutateClients(func(clients []domain.Client) ([]domain.Client, error) {
		return append(clients,
			domain.Client{
				ID:        "c1",
				Name:      "Nguyễn Văn An",
				Phone:     "0901234567",
				Zalo:      "0901234567",
				Type:      domain.ClientVilla,
				Status:    domain.ClientSigned,
				Notes:     "Khách hàng thích phong cách hiện đại.",
				CreatedAt: time.Date(2023, 10, 1, 0, 0, 0, 0, time.Local),
			},
			domain.Client{
				ID:        "c2",
				Name:      "Trần Thị Bình",
				Phone:     "0911222333",
				Zalo:      "0911222333",
				Type:      domain.ClientTownhouse,
				Status:    domain.ClientConsulting,
				Notes:     "Cần thiết kế 3 tầng.",
				CreatedAt: time.Date(2023, 10, 5, 0, 0, 0, 0, time.Local),
			},
		), nil
	})
	if err != nil {
		return err
	}

	signed := domain.Date("2023-12-01")
	techDeadline := domain.Date("2024-12-30")

	stages := make([]domain.ProjectStage, 0, len(domain.StageTemplate))
	for i, name := range domain.StageTemplate {
		st := domain.ProjectStage{ID: "s" + strconv.Itoa(i+1), Name: name, Status: domain.StageNotStarted}
		switch {
		case i < 2:
			st.Status = domain.StageDone
		case i == 2:
			st.Status = domain.StageInProgress
			st.Deadline = &techDeadline
		}
		stages = append(stages, st)
	}

	return s.MutateProjects(func(projects []domain.Project) ([]domain.Project, error) {
		return append(projects, domain.Project{
			ID:                  "p1",
			ClientID:            "c1",
			ContractCode:        "HĐ2023/KT-01",
			Name:                "Biệt thự Anh Quân Lông",
			LeadName:            "KTS. Nguyễn Ngọc Kiên",
			ContractSigningDate: &signed,
			ContractType:        domain.ContractTurnkey,
			ProjectType:         domain.ProjectLowRise,
			TotalValue:          500_000_000,
			Stages:              stages,
			Payments: []domain.PaymentMilestone{
				{ID: "pay1", Name: "Tạm ứng đợt 1", Amount: 150_000_000, DueDate: "2023-10-02", Status: domain.PaymentPaid},
				{ID: "pay2", Name: "Hoàn thành Concept", Amount: 150_000_000, DueDate: "2023-11-15", Status: domain.PaymentPaid},
				{ID: "pay3", Name: "Bàn giao Hồ sơ KT", Amount: 200_000_000, DueDate: "2024-12-15", Status: domain.PaymentUnpaid},
			},
			Files: []domain.ProjectFile{
				{ID: "f1", Name: "Hop_Dong_Thiet_Ke.pdf", Type: "pdf", Path: `P:\PROJECTS\2024\Biet_thu_Anh_Quan_Long\Hop_Dong_Thiet_Ke.pdf`, UploadedAt: time.Date(2023, 10, 2, 0, 0, 0, 0, time.Local)},
			},
			CreatedAt: time.Date(2023, 10, 2, 0, 0, 0, 0, time.Local),
		}), nil
	})
}
