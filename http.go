package templateengine

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/interactive-solutions/go-template-engine/internal"
)

const defaultLimit = 10

type HttpHandler struct {
	app *application
}

func (h *HttpHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/templates", h.GetAllTemplates).Methods(http.MethodGet)
	router.HandleFunc("/templates", h.CreateTemplate).Methods(http.MethodPost)
	router.HandleFunc("/templates/{id}", h.GetTemplate).Methods(http.MethodGet)
	router.HandleFunc("/templates/{id}", h.UpdateTemplate).Methods(http.MethodPut)
	router.HandleFunc("/templates/{id}", h.DeleteTemplate).Methods(http.MethodDelete)

	router.HandleFunc("/template-request", h.ProcessTemplate).Methods(http.MethodPost)

	router.HandleFunc("/deliveries/email", h.SendEmail).Methods(http.MethodPost)
	router.HandleFunc("/deliveries/sms", h.SendSms).Methods(http.MethodPost)
}

func (h *HttpHandler) GetAllTemplates(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	criteria := TemplateCriteria{
		Offset:           queryInt(query.Get("offset"), 0),
		Limit:            queryInt(query.Get("limit"), defaultLimit),
		TemplateResolver: query.Get("templateResolver"),
		Lang:             query.Get("lang"),
		OutputFormat:     query.Get("outputFormat"),
	}

	templates, total, err := h.app.MatchTemplates(criteria)
	if err != nil {
		h.writeError(w, err)
		return
	}

	payload := struct {
		Data         []Template `json:"templates"`
		TotalRecords int        `json:"totalRecords"`
	}{templates, total}

	h.writeJson(w, http.StatusOK, payload)
}

func (h *HttpHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := mux.Vars(r)["id"]
	if !ok {
		http.Error(w, "Route id var", http.StatusBadRequest)
		return
	}

	template, err := h.app.GetTemplate(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJson(w, http.StatusOK, template)
}

func (h *HttpHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	body := &internal.TemplateRequest{}
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		http.Error(w, "Failed to parse incoming json", http.StatusBadRequest)
		return
	}

	template := templateFromRequest(body)

	if err := h.app.CreateTemplate(&template); err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Location", "/templates/"+template.Id)
	h.writeJson(w, http.StatusCreated, template)
}

func (h *HttpHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := mux.Vars(r)["id"]
	if !ok {
		http.Error(w, "Route id var", http.StatusBadRequest)
		return
	}

	body := &internal.TemplateRequest{}
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		http.Error(w, "Failed to parse incoming json", http.StatusBadRequest)
		return
	}

	template := templateFromRequest(body)
	template.Id = id

	if err := h.app.UpdateTemplate(&template); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJson(w, http.StatusOK, template)
}

func (h *HttpHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := mux.Vars(r)["id"]
	if !ok {
		http.Error(w, "Route id var", http.StatusBadRequest)
		return
	}

	if err := h.app.DeleteTemplate(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *HttpHandler) ProcessTemplate(w http.ResponseWriter, r *http.Request) {
	request := ProcessingRequest{}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Failed to parse incoming json", http.StatusBadRequest)
		return
	}

	result, err := h.app.ProcessTemplate(r.Context(), request)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJson(w, http.StatusOK, result)
}

func (h *HttpHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	h.deliver(w, r, h.app.SendEmail)
}

func (h *HttpHandler) SendSms(w http.ResponseWriter, r *http.Request) {
	h.deliver(w, r, h.app.SendSms)
}

func (h *HttpHandler) deliver(w http.ResponseWriter, r *http.Request, send func(ProcessingRequest, string) (*Job, error)) {
	body := &internal.DeliveryRequest{}
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		http.Error(w, "Failed to parse incoming json", http.StatusBadRequest)
		return
	}

	if body.Target == "" {
		http.Error(w, "Missing target", http.StatusBadRequest)
		return
	}

	job, err := send(ProcessingRequest{
		TemplateId:   body.TemplateId,
		Lang:         body.Lang,
		OutputFormat: body.OutputFormat,
		Context:      body.Context,
	}, body.Target)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJson(w, http.StatusAccepted, job)
}

// writeError maps domain errors onto status codes. Unexpected errors are
// logged and reported without detail.
func (h *HttpHandler) writeError(w http.ResponseWriter, err error) {
	switch errors.Cause(err) {
	case TemplateNotFoundErr:
		http.Error(w, err.Error(), http.StatusNotFound)

	case InvalidRequestErr:
		http.Error(w, err.Error(), http.StatusBadRequest)

	case TemplateInUseErr:
		http.Error(w, "Cannot delete template which is currently in use", http.StatusBadRequest)

	default:
		h.app.logger.
			WithError(err).
			Errorf("%+v", err)

		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *HttpHandler) writeJson(w http.ResponseWriter, status int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.writeError(w, errors.Wrap(err, "failed to convert to json"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func templateFromRequest(body *internal.TemplateRequest) Template {
	localized := make(map[string]LocalizedTemplate, len(body.LocalizedTemplates))
	for lang, t := range body.LocalizedTemplates {
		localized[lang] = LocalizedTemplate{Header: t.Header, Body: t.Body}
	}

	return Template{
		Description:        body.Description,
		TemplateResolver:   body.TemplateResolver,
		OutputFormats:      body.OutputFormats,
		LocalizedTemplates: localized,
	}
}

func queryInt(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return fallback
	}

	return n
}
