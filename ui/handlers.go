package ui

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gomarkdown/markdown"

	"github.com/fbal23/BIO-RED-Validation-Portal/domain/report"
	"github.com/fbal23/BIO-RED-Validation-Portal/domain/schema"
)

type templateInfo struct {
	Identifier string
	Required   int
	Optional   int
	Dropdowns  int
}

type indexPage struct {
	Templates []templateInfo
}

type reportPage struct {
	Report *report.ValidationReport
}

type guidePage struct {
	Identifier string
	Content    template.HTML
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := indexPage{}
	for _, id := range s.registry.Identifiers() {
		sch, _ := s.registry.Get(id)
		page.Templates = append(page.Templates, templateInfo{
			Identifier: id,
			Required:   len(sch.RequiredFields),
			Optional:   len(sch.OptionalFields),
			Dropdowns:  len(sch.Dropdowns),
		})
	}
	s.render(w, "index.html", page)
}

// handleValidate accepts one uploaded submission, runs the engine, and
// renders the report page. The uploaded file is removed once validated.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	rep := s.validateUpload(w, r)
	if rep == nil {
		return
	}
	s.remember(rep)
	s.render(w, "report.html", reportPage{Report: rep})
}

// handleValidateAPI is the JSON variant of the upload endpoint.
func (s *Server) handleValidateAPI(w http.ResponseWriter, r *http.Request) {
	rep := s.validateUpload(w, r)
	if rep == nil {
		return
	}
	s.remember(rep)
	status := http.StatusOK
	if rep.Status == report.StatusError {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, rep)
}

// validateUpload handles the shared multipart plumbing. It returns nil when
// a response has already been written.
func (s *Server) validateUpload(w http.ResponseWriter, r *http.Request) *report.ValidationReport {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return nil
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return nil
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if name == "" || name == "." || name == string(filepath.Separator) {
		writeError(w, http.StatusBadRequest, "invalid file name")
		return nil
	}
	if !strings.EqualFold(filepath.Ext(name), ".xlsx") {
		writeError(w, http.StatusBadRequest, "only .xlsx submissions are accepted")
		return nil
	}

	// The engine identifies the template from the file name, so the upload
	// keeps its original base name inside a per-request scratch directory.
	tmpDir, err := os.MkdirTemp(s.uploadDir, "upload-")
	if err != nil {
		s.logger.Error("failed to create scratch dir: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return nil
	}
	defer os.RemoveAll(tmpDir)

	dst := filepath.Join(tmpDir, name)
	out, err := os.Create(dst)
	if err != nil {
		s.logger.Error("failed to store upload: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return nil
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		s.logger.Error("failed to store upload: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return nil
	}
	out.Close()

	rep, err := s.service.ValidateFile(dst, "")
	if err != nil {
		// Unknown template: still answer with a well-formed ERROR report.
		rep = report.ErrorReport(name, err)
	}
	return rep
}

// handleDownload serves a cached report as JSON or plain text.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")
	rep, ok := s.lookup(reportID)
	if !ok {
		writeError(w, http.StatusNotFound, "report not found or expired")
		return
	}

	stem := strings.TrimSuffix(rep.Metadata.FileName, filepath.Ext(rep.Metadata.FileName))
	switch r.URL.Query().Get("format") {
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", stem+"_validation_summary.txt"))
		io.WriteString(w, rep.Text())
	default:
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", stem+"_validation_report.json"))
		writeJSON(w, http.StatusOK, rep)
	}
}

// handleGuide renders per-template guidance assembled from the registry.
func (s *Server) handleGuide(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "template")
	sch, ok := s.registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown template")
		return
	}

	html := markdown.ToHTML([]byte(guideMarkdown(sch)), nil, nil)
	s.render(w, "guide.html", guidePage{Identifier: id, Content: template.HTML(html)})
}

// guideMarkdown builds the guidance document for one template.
func guideMarkdown(sch schema.TemplateSchema) string {
	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", strings.ReplaceAll(sch.Identifier, "_", " "))
	fmt.Fprintf(&md, "Submit data on the worksheet named **%s**.\n\n", sch.SheetName)

	md.WriteString("## Required fields\n\n")
	for _, f := range sch.RequiredFields {
		fmt.Fprintf(&md, "- %s\n", f)
	}
	if len(sch.OptionalFields) > 0 {
		md.WriteString("\n## Optional fields\n\n")
		for _, f := range sch.OptionalFields {
			fmt.Fprintf(&md, "- %s\n", f)
		}
	}
	if len(sch.Dropdowns) > 0 {
		md.WriteString("\n## Dropdown fields\n\n")
		fields := make([]string, 0, len(sch.Dropdowns))
		for f := range sch.Dropdowns {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			fmt.Fprintf(&md, "- **%s**: %s\n", f, strings.Join(sch.Dropdowns[f], ", "))
		}
	}
	if sch.HasEnhancementTargets() {
		t := sch.EnhancementTargets
		md.WriteString("\n## Enhancement targets\n\n")
		fmt.Fprintf(&md, "- Minimum %d enhanced organizations\n", t.MinEnhancedOrgs)
		fmt.Fprintf(&md, "- Minimum %d new organizations\n", t.MinNewOrgs)
		fmt.Fprintf(&md, "- Minimum %d filled fields per enhanced organization\n", t.MinFieldsPerOrg)
	}
	return md.String()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Response already started; nothing sensible to do.
		return
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
