package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/domain"
	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/store"
)

func newProject(t *testing.T, repo ProjectRepository, total int64) *domain.Project {
	t.Helper()
	p, err := repo.Create(context.Background(), CreateProjectParams{
		ClientID:     "c1",
		ContractCode: "HĐ2024/KT-01",
		Name:         "Biệt thự Anh Quân",
		LeadName:     "KTS. Nguyễn Ngọc Kiên",
		ContractType: domain.ContractTurnkey,
		ProjectType:  domain.ProjectLowRise,
		TotalValue:   total,
	})
	require.NoError(t, err)
	return p
}

func TestCreateProjectWizard(t *testing.T) {
	st := store.New()
	repo := ProjectRepository{Store: st}
	p := newProject(t, repo, 500_000_000)

	require.Len(t, p.Stages, len(domain.StageTemplate))
	assert.Equal(t, domain.StageInProgress, p.Stages[0].Status)
	for _, s := range p.Stages[1:] {
		assert.Equal(t, domain.StageNotStarted, s.Status)
	}
	today := domain.Today()
	for i, s := range p.Stages {
		require.NotNil(t, s.Deadline)
		assert.Equal(t, today.AddDays(7*(i+1)), *s.Deadline)
	}

	require.Len(t, p.Payments, 2)
	assert.Equal(t, int64(150_000_000), p.Payments[0].Amount)
	assert.Equal(t, int64(350_000_000), p.Payments[1].Amount)
	assert.True(t, domain.IsBalanced(*p))
	assert.Equal(t, domain.PaymentUnpaid, p.Payments[0].Status)
	assert.Equal(t, "Quyết toán & Bàn giao", p.Payments[1].Name)

	assert.Equal(t, 0, domain.Progress(*p))
	assert.False(t, domain.IsComplete(*p))
}

func TestCreateProjectDepositDueOnSigningDate(t *testing.T) {
	st := store.New()
	repo := ProjectRepository{Store: st}
	signing := domain.Date("2024-03-15")
	p, err := repo.Create(context.Background(), CreateProjectParams{
		ClientID:            "c1",
		ContractCode:        "HĐ2024/KT-02",
		Name:                "Cải tạo Chị Hoa",
		ContractSigningDate: &signing,
		TotalValue:          100_000_000,
	})
	require.NoError(t, err)
	assert.Equal(t, signing, p.Payments[0].DueDate)
}

func TestListFiltersByProjectType(t *testing.T) {
	ctx := context.Background()
	st := store.New()
	repo := ProjectRepository{Store: st}
	newProject(t, repo, 100)
	_, err := repo.Create(ctx, CreateProjectParams{
		ClientID: "c2", ContractCode: "HĐ2024/NT-01", Name: "Nội thất Căn hộ 12A",
		ProjectType: domain.ProjectInterior, TotalValue: 100,
	})
	require.NoError(t, err)

	assert.Len(t, repo.List(ctx, ""), 2)
	got := repo.List(ctx, domain.ProjectInterior)
	require.Len(t, got, 1)
	assert.Equal(t, "Nội thất Căn hộ 12A", got[0].Name)
}

func TestUpdateTotalValueRebalancesLastMilestone(t *testing.T) {
	ctx := context.Background()
	st := store.New()
	repo := ProjectRepository{Store: st}
	p := newProject(t, repo, 500_000_000)

	total := int64(600_000_000)
	updated, err := repo.Update(ctx, p.ID, ProjectPatch{TotalValue: &total})
	require.NoError(t, err)
	assert.Equal(t, total, updated.TotalValue)
	assert.Equal(t, int64(450_000_000), updated.Payments[1].Amount)
	assert.True(t, domain.IsBalanced(*updated))

	// Shrinking below the earlier tranches clamps the settlement at zero.
	total = 100_000_000
	updated, err = repo.Update(ctx, p.ID, ProjectPatch{TotalValue: &total})
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated.Payments[1].Amount)
	assert.False(t, domain.IsBalanced(*updated))
}

func TestAddMilestoneInsertsBeforeSettlement(t *testing.T) {
	ctx := context.Background()
	st := store.New()
	repo := ProjectRepository{Store: st}
	p := newProject(t, repo, 500_000_000)

	updated, err := repo.AddMilestone(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, updated.Payments, 3)
	assert.Equal(t, "Đợt thanh toán 2", updated.Payments[1].Name)
	assert.Equal(t, int64(0), updated.Payments[1].Amount)
	assert.Equal(t, "Quyết toán & Bàn giao", updated.Payments[2].Name, "settlement stays last")

	updated, err = repo.AddMilestone(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, updated.Payments, 4)
	assert.Equal(t, "Đợt thanh toán 3", updated.Payments[2].Name)
}

func TestDeleteMilestone(t *testing.T) {
	ctx := context.Background()
	st := store.New()
	repo := ProjectRepository{Store: st}
	p := newProject(t, repo, 500_000_000)

	// The final settlement is protected.
	_, err := repo.DeleteMilestone(ctx, p.ID, p.Payments[1].ID)
	assert.ErrorIs(t, err, ErrLastMilestone)

	updated, err := repo.DeleteMilestone(ctx, p.ID, p.Payments[0].ID)
	require.NoError(t, err)
	require.Len(t, updated.Payments, 1)

	// Rebalance folds the freed amount into the settlement.
	updated, err = repo.Rebalance(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500_000_000), updated.Payments[0].Amount)
	assert.True(t, domain.IsBalanced(*updated))

	_, err = repo.DeleteMilestone(ctx, p.ID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateMilestone(t *testing.T) {
	ctx := context.Background()
	st := store.New()
	repo := ProjectRepository{Store: st}
	p := newProject(t, repo, 500_000_000)

	paid := domain.PaymentPaid
	amount := int64(120_000_000)
	due := domain.Date("2024-09-01")
	updated, err := repo.UpdateMilestone(ctx, p.ID, p.Payments[0].ID, MilestonePatch{
		Amount: &amount, DueDate: &due, Status: &paid,
	})
	require.NoError(t, err)
	assert.Equal(t, amount, updated.Payments[0].Amount)
	assert.Equal(t, due, updated.Payments[0].DueDate)
	assert.Equal(t, paid, updated.Payments[0].Status)
	// Only an explicit rebalance touches the settlement.
	assert.Equal(t, int64(350_000_000), updated.Payments[1].Amount)
}

func TestSetStageStatusAndDeadline(t *testing.T) {
	ctx := context.Background()
	st := store.New()
	repo := ProjectRepository{Store: st}
	p := newProject(t, repo, 500_000_000)

	updated, err := repo.SetStageStatus(ctx, p.ID, p.Stages[0].ID, domain.StageDone)
	require.NoError(t, err)
	assert.Equal(t, domain.StageDone, updated.Stages[0].Status)
	assert.Equal(t, 20, domain.Progress(*updated))

	d := domain.Date("2025-01-31")
	updated, err = repo.SetStageDeadline(ctx, p.ID, p.Stages[1].ID, d)
	require.NoError(t, err)
	require.NotNil(t, updated.Stages[1].Deadline)
	assert.Equal(t, d, *updated.Stages[1].Deadline)

	_, err = repo.SetStageStatus(ctx, p.ID, "missing", domain.StageDone)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.SetStageStatus(ctx, "missing", p.Stages[0].ID, domain.StageDone)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttachFile(t *testing.T) {
	ctx := context.Background()
	st := store.New()
	repo := ProjectRepository{Store: st}
	p := newProject(t, repo, 500_000_000)

	stageID := p.Stages[2].ID
	updated, err := repo.AttachFile(ctx, p.ID, AttachFileParams{
		Name:        "ho_so_ky_thuat.pdf",
		ContentType: "application/pdf",
		StageID:     &stageID,
		ArchiveRoot: `P:\PROJECTS\2024`,
	})
	require.NoError(t, err)
	require.Len(t, updated.Files, 1)

	f := updated.Files[0]
	assert.Equal(t, "pdf", f.Type)
	require.NotNil(t, f.StageID)
	assert.Equal(t, stageID, *f.StageID)
	assert.True(t, strings.HasPrefix(f.Path, `P:\PROJECTS\2024\Biệt_thự_Anh_Quân\`), f.Path)
	assert.True(t, strings.HasSuffix(f.Path, `\ho_so_ky_thuat.pdf`), f.Path)

	// Tagging a stage marks it done even if it had not been started.
	assert.Equal(t, domain.StageDone, updated.Stages[2].Status)

	t.Run("untagged upload goes to the project folder", func(t *testing.T) {
		updated, err := repo.AttachFile(ctx, p.ID, AttachFileParams{
			Name:        "hop_dong.docx",
			ContentType: "",
			ArchiveRoot: `P:\PROJECTS\2024`,
		})
		require.NoError(t, err)
		require.Len(t, updated.Files, 2)
		f := updated.Files[1]
		assert.Equal(t, "doc", f.Type)
		assert.Nil(t, f.StageID)
		assert.Equal(t, `P:\PROJECTS\2024\Biệt_thự_Anh_Quân\hop_dong.docx`, f.Path)
	})
}

func TestMutationsDoNotAliasReads(t *testing.T) {
	ctx := context.Background()
	st := store.New()
	repo := ProjectRepository{Store: st}
	p := newProject(t, repo, 500_000_000)

	before := repo.List(ctx, "")
	_, err := repo.SetStageStatus(ctx, p.ID, p.Stages[0].ID, domain.StageDone)
	require.NoError(t, err)

	// The earlier read still shows the old value.
	assert.Equal(t, domain.StageInProgress, before[0].Stages[0].Status)
}
