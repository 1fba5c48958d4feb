package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"tratativas/internal/logger"
	"tratativas/internal/pipeline"
	"tratativas/internal/report"
	"tratativas/internal/version"
	"tratativas/internal/vocab"
)

// maxUploadBytes bounds one multipart upload (three spreadsheets).
const maxUploadBytes = 64 << 20

type Handler struct {
	tmpl  *template.Template
	vocab *vocab.Vocabulary
}

func New(tmpl *template.Template, v *vocab.Vocabulary) *Handler {
	return &Handler{
		tmpl:  tmpl,
		vocab: v,
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data map[string]interface{}) {
	err := h.tmpl.ExecuteTemplate(w, name, data)
	if err != nil {
		l := logger.FromContext(r.Context())
		l.Error("template_render_error", "template", name, "error", err.Error())
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Index serves the upload form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "index.html", map[string]interface{}{"Error": ""})
}

// Reconcile runs one batch over the uploaded files and streams the
// workbook back. The workbook is fully assembled before the first response
// byte, so the client never sees partial output.
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.FromContext(ctx)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		l.Error("reconcile_form_parse_error", "error", err.Error())
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	txnFile, txnHeader, err := r.FormFile("transactions")
	if err != nil {
		http.Error(w, "The transactions file is required", http.StatusBadRequest)
		return
	}
	defer txnFile.Close()

	orderFile, orderHeader, err := r.FormFile("orders")
	if err != nil {
		http.Error(w, "The order-records file is required", http.StatusBadRequest)
		return
	}
	defer orderFile.Close()

	in := pipeline.Input{
		Transactions: pipeline.Source{Name: txnHeader.Filename, Reader: txnFile},
		Orders:       pipeline.Source{Name: orderHeader.Filename, Reader: orderFile},
		Vocabulary:   h.vocab,
		RunDate:      time.Now(),
	}

	// History is optional.
	if histFile, histHeader, err := r.FormFile("history"); err == nil {
		defer histFile.Close()
		in.History = &pipeline.Source{Name: histHeader.Filename, Reader: histFile}
	}

	l.Info("reconcile_started",
		"transactions_file", txnHeader.Filename,
		"orders_file", orderHeader.Filename,
		"has_history", in.History != nil,
	)

	res, err := pipeline.Run(ctx, in)
	if err != nil {
		l.Error("reconcile_failed", "error", err.Error())
		http.Error(w, pipeline.UserMessage(err), http.StatusUnprocessableEntity)
		return
	}

	// The historical sheet is on unless the operator opts out.
	opts := report.Options{HistoricalSheet: r.FormValue("skip_historical") != "on"}
	var buf bytes.Buffer
	if err := report.Write(&buf, res, opts); err != nil {
		l.Error("reconcile_workbook_error", "error", err.Error())
		http.Error(w, "Failed to build the workbook", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("Tratativas_Full_%s.xlsx", in.RunDate.Format("02-01"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("X-Total-Count", fmt.Sprint(res.Summary.Total))
	w.Header().Set("X-Excluded-Count", fmt.Sprint(res.Summary.Excluded))
	w.Header().Set("X-New-Count", fmt.Sprint(res.Summary.New))
	w.Write(buf.Bytes())
}

// APIVersion reports build info as JSON.
func (h *Handler) APIVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"version":    version.Version,
		"build_time": version.BuildTime,
		"git_commit": version.GitCommit,
	})
}
