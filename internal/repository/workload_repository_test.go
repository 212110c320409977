package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/domain"
	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/store"
)

func TestWorkloadByLead(t *testing.T) {
	st := store.New()
	seedScenario(t, st)
	// A finished project under the same lead, and an unassigned one.
	require.NoError(t, st.MutateProjects(func(projects []domain.Project) ([]domain.Project, error) {
		return append(projects,
			domain.Project{
				ID: "p2", Name: "Nhà phố Chị Hoa", LeadName: "KTS. Nguyễn Ngọc Kiên",
				Stages: []domain.ProjectStage{{ID: "y", Status: domain.StageDone}},
			},
			domain.Project{
				ID: "p3", Name: "Cải tạo Anh Tùng",
				Stages: []domain.ProjectStage{{ID: "z", Status: domain.StageInProgress}},
			},
			domain.Project{
				ID: "p4", Name: "Nội thất Căn hộ 12A", LeadName: "KTS. Nguyễn Ngọc Kiên",
				Architect: "KTS. Lê Mai",
				Stages:    []domain.ProjectStage{{ID: "w", Status: domain.StageInProgress}},
			},
		), nil
	}))
	repo := WorkloadRepository{Store: st}

	groups := repo.ByLead(context.Background())
	require.Len(t, groups, 2)

	// Busiest lead first.
	kien := groups[0]
	assert.Equal(t, "KTS. Nguyễn Ngọc Kiên", kien.Lead)
	assert.Len(t, kien.Active, 2)
	assert.Equal(t, 1, kien.CompletedCount)
	assert.Equal(t, 3, kien.TotalProjects)
	assert.Equal(t, 47, kien.AvgProgress, "mean of 40%, 100% and 0%")
	assert.Equal(t, 1, kien.OverdueCount)
	assert.Equal(t, "Hồ sơ kỹ thuật thi công", kien.Active[0].CurrentStage)
	assert.Equal(t, "KTS. Lê Mai", kien.Active[1].Architect)

	unassigned := groups[1]
	assert.Equal(t, "Chưa phân công", unassigned.Lead)
	assert.Len(t, unassigned.Active, 1)
	assert.Equal(t, 0, unassigned.AvgProgress)
}
