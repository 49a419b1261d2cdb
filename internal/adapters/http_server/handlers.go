package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"frontdesk/internal/app"
	"frontdesk/internal/codec/settings"
	"frontdesk/internal/codec/task"
	"frontdesk/internal/codec/tracking"
	"frontdesk/internal/domain"
)

const defaultStayNights = 14

type Handlers struct {
	Housekeeping *app.HousekeepingService
	Settings     *app.SettingsService
	Stays        *app.StayService
	Folio        *app.FolioService
	Customers    *app.CustomerService
	Tasks        *app.TaskService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Use(s.limit)
		r.Get("/hotels/{hotelID}/rooms", h.listRooms)
		r.Get("/hotels/{hotelID}/settings", h.getSettings)
		r.Patch("/hotels/{hotelID}/settings", h.patchSettings)
		r.Get("/hotels/{hotelID}/stays", h.listStays)
		r.Post("/hotels/{hotelID}/room-charges", h.postRoomCharges)
		r.Get("/hotels/{hotelID}/revenue", h.getRevenue)
		r.Get("/hotels/{hotelID}/tasks", h.listTasks)
		r.Post("/hotels/{hotelID}/tasks", h.createTask)

		r.Post("/rooms/{roomID}/housekeeping/clean", h.markClean)
		r.Post("/rooms/{roomID}/housekeeping/dirty", h.markDirty)
		r.Post("/rooms/{roomID}/housekeeping/cleaning-list", h.toggleCleaningList)
		r.Put("/rooms/{roomID}/housekeeping/status", h.setStatus)
		r.Put("/rooms/{roomID}/rate", h.setRate)

		r.Get("/reservations/{reservationID}/checkout", h.checkout)

		r.Post("/customers/registrations", h.register)
		r.Get("/customers/{email}/registrations", h.trail)

		r.Post("/tasks/{taskID}/notes", h.addNote)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps service errors onto problem responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeProblem(w, http.StatusBadRequest, "Invalid Input", err.Error())
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached answers GETs with a weak ETag and honours If-None-Match.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return false
	}
	return true
}

/********** rooms / housekeeping **********/

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	out, err := h.Housekeeping.Board(r.Context(), chi.URLParam(r, "hotelID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) markClean(w http.ResponseWriter, r *http.Request) {
	writeRoom(w, r)(h.Housekeeping.MarkClean(r.Context(), chi.URLParam(r, "roomID")))
}

func (h *Handlers) markDirty(w http.ResponseWriter, r *http.Request) {
	writeRoom(w, r)(h.Housekeeping.MarkDirty(r.Context(), chi.URLParam(r, "roomID")))
}

func (h *Handlers) toggleCleaningList(w http.ResponseWriter, r *http.Request) {
	writeRoom(w, r)(h.Housekeeping.ToggleCleaningList(r.Context(), chi.URLParam(r, "roomID")))
}

// writeRoom takes a housekeeping result as-is so action handlers stay one line.
func writeRoom(w http.ResponseWriter, r *http.Request) func(app.RoomView, error) {
	return func(view app.RoomView, err error) {
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

type statusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func (h *Handlers) setStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeRoom(w, r)(h.Housekeeping.SetStatus(r.Context(), chi.URLParam(r, "roomID"), req.Status, req.Reason))
}

type rateRequest struct {
	OverrideNightlyRate *float64 `json:"overrideNightlyRate"`
}

func (h *Handlers) setRate(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeRoom(w, r)(h.Housekeeping.SetRate(r.Context(), chi.URLParam(r, "roomID"), req.OverrideNightlyRate))
}

/********** settings **********/

func (h *Handlers) getSettings(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Settings.Get(r.Context(), chi.URLParam(r, "hotelID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, rec)
}

func (h *Handlers) patchSettings(w http.ResponseWriter, r *http.Request) {
	var p settings.Patch
	if !decodeBody(w, r, &p) {
		return
	}
	rec, err := h.Settings.Update(r.Context(), chi.URLParam(r, "hotelID"), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

/********** stays / folio **********/

func (h *Handlers) listStays(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := app.ParseDateKey(q.Get("from"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	nights := defaultStayNights
	if ns := q.Get("nights"); ns != "" {
		n, err := strconv.Atoi(ns)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid nights", "nights must be an integer")
			return
		}
		nights = n
	}
	out, err := h.Stays.List(r.Context(), chi.URLParam(r, "hotelID"), from, nights)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) postRoomCharges(w http.ResponseWriter, r *http.Request) {
	date, err := app.ParseDateKey(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.Folio.PostRoomCharges(r.Context(), chi.URLParam(r, "hotelID"), date)
	if err != nil && res.Failed == 0 {
		writeError(w, r, err)
		return
	}
	// per-night failures still report what was posted
	status := http.StatusOK
	if res.Failed > 0 {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, res)
}

func (h *Handlers) getRevenue(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := app.ParseDateKey(q.Get("from"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	to := from
	if ts := q.Get("to"); ts != "" {
		if to, err = app.ParseDateKey(ts); err != nil {
			writeError(w, r, err)
			return
		}
	}
	out, err := h.Folio.Revenue(r.Context(), chi.URLParam(r, "hotelID"), from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) checkout(w http.ResponseWriter, r *http.Request) {
	out, err := h.Folio.CheckoutAllowed(r.Context(), chi.URLParam(r, "reservationID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

/********** customers **********/

type registrationRequest struct {
	Summary string         `json:"summary"`
	Event   tracking.Event `json:"event"`
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registrationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Event.Context.UserAgent == "" {
		req.Event.Context.UserAgent = r.UserAgent()
	}
	out, err := h.Customers.Register(r.Context(), req.Summary, req.Event)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) trail(w http.ResponseWriter, r *http.Request) {
	email, err := url.PathUnescape(chi.URLParam(r, "email"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid email", "email is not a valid path segment")
		return
	}
	out, err := h.Customers.Trail(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}

/********** tasks **********/

func (h *Handlers) listTasks(w http.ResponseWriter, r *http.Request) {
	out, err := h.Tasks.List(r.Context(), chi.URLParam(r, "hotelID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) createTask(w http.ResponseWriter, r *http.Request) {
	var in task.Record
	if !decodeBody(w, r, &in) {
		return
	}
	out, err := h.Tasks.Create(r.Context(), chi.URLParam(r, "hotelID"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

type noteRequest struct {
	At   *time.Time `json:"at"`
	By   string     `json:"by"`
	Text string     `json:"text"`
}

func (h *Handlers) addNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	n := task.Note{By: req.By, Text: req.Text}
	if req.At != nil {
		n.At = *req.At
	}
	out, err := h.Tasks.AddNote(r.Context(), chi.URLParam(r, "taskID"), n)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
