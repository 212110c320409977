package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/domain"
	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/repository"
	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/store"
)

func testRouter(st *store.Store) chi.Router {
	clients := repository.ClientRepository{Store: st}
	projects := repository.ProjectRepository{Store: st}
	r := chi.NewRouter()
	ClientHandler{Repo: clients, Projects: projects}.RegisterRoutes(r)
	ProjectHandler{Repo: projects, Clients: clients, ArchiveRoot: `P:\PROJECTS\2024`}.RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var envelope map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	}
	return rec, envelope
}

func dataObj(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()
	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok, "data is not an object: %v", envelope)
	return data
}

func TestCreateProjectRequiresClient(t *testing.T) {
	r := testRouter(store.New())

	rec, envelope := doJSON(t, r, http.MethodPost, "/projects", map[string]any{
		"contractCode": "HĐ2024/KT-01",
		"name":         "Biệt thự Anh Quân",
		"totalValue":   500_000_000,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", envelope["status"])
	assert.Contains(t, envelope["message"], "khách hàng")
}

func TestProjectLifecycleOverHTTP(t *testing.T) {
	st := store.New()
	r := testRouter(st)

	// client first, then the project wizard
	rec, envelope := doJSON(t, r, http.MethodPost, "/clients", map[string]any{
		"name": "Nguyễn Văn An", "phone": "0901234567", "type": "Biệt thự", "status": "Đã ký",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	clientID := dataObj(t, envelope)["id"].(string)

	rec, envelope = doJSON(t, r, http.MethodPost, "/projects", map[string]any{
		"clientId":     clientID,
		"contractCode": "HĐ2024/KT-01",
		"name":         "Biệt thự Anh Quân",
		"leadName":     "KTS. Nguyễn Ngọc Kiên",
		"contractType": "Trọn gói",
		"projectType":  "Thấp tầng",
		"totalValue":   500_000_000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	project := dataObj(t, envelope)
	projectID := project["id"].(string)

	payments := project["payments"].([]any)
	require.Len(t, payments, 2)
	first := payments[0].(map[string]any)
	last := payments[1].(map[string]any)
	assert.Equal(t, float64(150_000_000), first["amount"])
	assert.Equal(t, float64(350_000_000), last["amount"])
	assert.Equal(t, true, last["isFinal"])
	assert.Equal(t, true, project["isBalanced"])
	assert.Equal(t, float64(0), project["progress"])

	t.Run("delete final milestone is rejected", func(t *testing.T) {
		rec, envelope := doJSON(t, r, http.MethodDelete,
			"/projects/"+projectID+"/payments/"+last["id"].(string), nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "error", envelope["status"])
	})

	t.Run("stage status drives progress", func(t *testing.T) {
		stages := project["stages"].([]any)
		stageID := stages[0].(map[string]any)["id"].(string)
		rec, envelope := doJSON(t, r, http.MethodPut,
			"/projects/"+projectID+"/stages/"+stageID+"/status",
			map[string]any{"status": "Hoàn thành"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(20), dataObj(t, envelope)["progress"])

		rec, _ = doJSON(t, r, http.MethodPut,
			"/projects/"+projectID+"/stages/"+stageID+"/status",
			map[string]any{"status": "không hợp lệ"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("total patch rebalances settlement", func(t *testing.T) {
		rec, envelope := doJSON(t, r, http.MethodPatch, "/projects/"+projectID,
			map[string]any{"totalValue": 600_000_000})
		require.Equal(t, http.StatusOK, rec.Code)
		data := dataObj(t, envelope)
		payments := data["payments"].([]any)
		settlement := payments[len(payments)-1].(map[string]any)
		assert.Equal(t, float64(450_000_000), settlement["amount"])
		assert.Equal(t, true, data["isBalanced"])
	})

	t.Run("client list links the project", func(t *testing.T) {
		rec, envelope := doJSON(t, r, http.MethodGet, "/clients", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		list := envelope["data"].([]any)
		require.Len(t, list, 1)
		linked := list[0].(map[string]any)["project"].(map[string]any)
		assert.Equal(t, projectID, linked["id"])
	})
}

func TestUploadMarksStageDone(t *testing.T) {
	st := store.New()
	r := testRouter(st)
	projects := repository.ProjectRepository{Store: st}

	p, err := projects.Create(context.Background(), repository.CreateProjectParams{
		ClientID: "c1", ContractCode: "HĐ2024/KT-02", Name: "Nhà phố Chị Hoa", TotalValue: 100,
	})
	require.NoError(t, err)
	stageID := p.Stages[1].ID

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "giay_phep.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("stageId", stageID))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/projects/"+p.ID+"/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	got, err := projects.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageDone, got.Stages[1].Status)
	require.Len(t, got.Files, 1)
	assert.Equal(t, "pdf", got.Files[0].Type)
	assert.True(t, strings.Contains(got.Files[0].Path, `\Nhà_phố_Chị_Hoa\`), got.Files[0].Path)
}

func TestClientValidation(t *testing.T) {
	r := testRouter(store.New())

	rec, _ := doJSON(t, r, http.MethodPost, "/clients", map[string]any{"name": "Thiếu SĐT"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, r, http.MethodPut, "/clients/missing", map[string]any{
		"name": "Ai đó", "phone": "0900000000",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, r, http.MethodDelete, "/clients/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
