package ui

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbal23/BIO-RED-Validation-Portal/app"
	"github.com/fbal23/BIO-RED-Validation-Portal/domain/report"
	"github.com/fbal23/BIO-RED-Validation-Portal/domain/schema"
	"github.com/fbal23/BIO-RED-Validation-Portal/internal"
	"github.com/fbal23/BIO-RED-Validation-Portal/internal/config"
	"github.com/fbal23/BIO-RED-Validation-Portal/internal/testkit"
)

func newTestServer(t *testing.T) (*Server, *testkit.Kit) {
	t.Helper()
	registry := schema.MustLoad()
	logger := internal.NewLogger(internal.LogLevelError)
	cfg := &config.Config{
		Server: config.ServerConfig{
			Host:           "127.0.0.1",
			Port:           0,
			MaxUploadBytes: 20 << 20,
		},
		Validator: config.ValidatorConfig{
			UploadDir: t.TempDir(),
		},
	}
	srv, err := NewServer(cfg, app.NewValidatorService(registry, logger), registry, logger)
	require.NoError(t, err)
	return srv, testkit.NewKit(t.TempDir())
}

// uploadBody builds a multipart form carrying the file at path under the
// given upload name.
func uploadBody(t *testing.T, path, uploadName string) (*bytes.Buffer, string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", uploadName)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func postUpload(t *testing.T, srv *Server, target, path, uploadName string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := uploadBody(t, path, uploadName)
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestIndexListsAllTemplates(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "1_Organization_Registry")
	assert.Contains(t, body, "9_Policy_Analysis")
	assert.Contains(t, body, "/guide/2_Stakeholder_Mapping")
}

func TestValidateAPI_ValidSubmission(t *testing.T) {
	srv, kit := newTestServer(t)
	path, err := kit.WriteWorkbook("2_Stakeholder_Mapping_PT16.xlsx", "Stakeholder Mapping", testkit.StakeholderRows(4))
	require.NoError(t, err)

	rec := postUpload(t, srv, "/api/validate", path, "2_Stakeholder_Mapping_PT16.xlsx")

	require.Equal(t, http.StatusOK, rec.Code)
	var rep report.ValidationReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Equal(t, report.StatusValidated, rep.Status)
	assert.Equal(t, "2_Stakeholder_Mapping", rep.Metadata.TemplateType)
	assert.NotEmpty(t, rep.Metadata.ReportID)
}

func TestValidateAPI_UnknownTemplateIsError(t *testing.T) {
	srv, kit := newTestServer(t)
	path, err := kit.WriteWorkbook("quarterly_numbers.xlsx", "Sheet", testkit.StakeholderRows(1))
	require.NoError(t, err)

	rec := postUpload(t, srv, "/api/validate", path, "quarterly_numbers.xlsx")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var rep report.ValidationReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Equal(t, report.StatusError, rep.Status)
	assert.Contains(t, rep.Errors[0], "Unknown template type")
}

func TestValidateAPI_RejectsNonXlsxUpload(t *testing.T) {
	srv, kit := newTestServer(t)
	path, err := kit.WriteCorrupt("notes.txt")
	require.NoError(t, err)

	rec := postUpload(t, srv, "/api/validate", path, "notes.txt")

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateAPI_MissingFileField(t *testing.T) {
	srv, _ := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file here"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/validate", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateForm_RendersReportPage(t *testing.T) {
	srv, kit := newTestServer(t)
	rows := [][]any{
		{"Stakeholder Mapping Template"},
		{"Stakeholder_ID", "Name", "Organization", "Role", "Interest"},
		{"STK-001", "Jane", "Org", "Researcher", "High"},
	}
	path, err := kit.WriteWorkbook("2_Stakeholder_Mapping_EL54.xlsx", "Stakeholder Mapping", rows)
	require.NoError(t, err)

	rec := postUpload(t, srv, "/validate", path, "2_Stakeholder_Mapping_EL54.xlsx")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "REJECTED")
	assert.Contains(t, body, "Missing required columns: Influence")
	assert.Contains(t, body, "/download")
}

func TestDownloadReport_JSONAndText(t *testing.T) {
	srv, kit := newTestServer(t)
	path, err := kit.WriteWorkbook("2_Stakeholder_Mapping_PT16.xlsx", "Stakeholder Mapping", testkit.StakeholderRows(3))
	require.NoError(t, err)

	rec := postUpload(t, srv, "/api/validate", path, "2_Stakeholder_Mapping_PT16.xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	var rep report.ValidationReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))

	req := httptest.NewRequest(http.MethodGet, "/reports/"+rep.Metadata.ReportID+"/download", nil)
	jsonRec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(jsonRec, req)
	require.Equal(t, http.StatusOK, jsonRec.Code)
	assert.Contains(t, jsonRec.Header().Get("Content-Disposition"), "2_Stakeholder_Mapping_PT16_validation_report.json")
	var downloaded report.ValidationReport
	require.NoError(t, json.Unmarshal(jsonRec.Body.Bytes(), &downloaded))
	assert.Equal(t, rep.Metadata.ReportID, downloaded.Metadata.ReportID)

	req = httptest.NewRequest(http.MethodGet, "/reports/"+rep.Metadata.ReportID+"/download?format=text", nil)
	textRec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(textRec, req)
	require.Equal(t, http.StatusOK, textRec.Code)
	assert.Contains(t, textRec.Header().Get("Content-Disposition"), "2_Stakeholder_Mapping_PT16_validation_summary.txt")
	assert.Contains(t, textRec.Body.String(), "STATUS: VALIDATED")
}

func TestDownloadReport_UnknownIDIs404(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/reports/nope/download", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGuidePage(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/guide/2_Stakeholder_Mapping", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Stakeholder Mapping")
	assert.Contains(t, body, "Influence")

	req = httptest.NewRequest(http.MethodGet, "/guide/99_Not_A_Template", nil)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
