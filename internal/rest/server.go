package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dukaforge/materialdb/internal/sqlite"
	"github.com/dukaforge/materialdb/pkg/types"
)

// Server serves the material store over HTTP.
type Server struct {
	store *sqlite.Store
	log   zerolog.Logger
}

// NewServer wraps a store for HTTP access.
func NewServer(store *sqlite.Store, logger zerolog.Logger) *Server {
	return &Server{store: store, log: logger}
}

// Router builds the route table. All routes live under /materialws.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Route("/materialws", func(r chi.Router) {
		r.Get("/library", s.handleLibraries)
		r.Post("/library", s.handleCreateLibrary)
		r.Get("/library/{name}", s.handleGetLibrary)
		r.Get("/modellibrary", s.handleModelLibraries)
		r.Get("/materiallibrary", s.handleMaterialLibraries)
		r.Get("/libraryFolders/{name}", s.handleLibraryFolders)
		r.Get("/libraryModels/{name}", s.handleLibraryModels)
		r.Get("/libraryMaterials/{name}", s.handleLibraryMaterials)
		r.Get("/model/{uuid}", s.handleGetModel)
		r.Get("/material/{uuid}", s.handleGetMaterial)
	})
	return r
}

func (s *Server) handleLibraries(w http.ResponseWriter, r *http.Request) {
	s.writeLibraries(w, s.store.Libraries)
}

func (s *Server) handleModelLibraries(w http.ResponseWriter, r *http.Request) {
	s.writeLibraries(w, s.store.ModelLibraries)
}

func (s *Server) handleMaterialLibraries(w http.ResponseWriter, r *http.Request) {
	s.writeLibraries(w, s.store.MaterialLibraries)
}

func (s *Server) writeLibraries(w http.ResponseWriter, list func() ([]*types.Library, error)) {
	libraries, err := list()
	if err != nil {
		s.writeError(w, err)
		return
	}
	payloads := make([]libraryPayload, 0, len(libraries))
	for _, library := range libraries {
		payloads = append(payloads, libraryToPayload(library))
	}
	s.writeJSON(w, http.StatusOK, payloads)
}

func (s *Server) handleGetLibrary(w http.ResponseWriter, r *http.Request) {
	library, err := s.store.GetLibrary(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, libraryToPayload(library))
}

func (s *Server) handleCreateLibrary(w http.ResponseWriter, r *http.Request) {
	var payload libraryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	library, err := payloadToLibrary(payload)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid icon encoding"})
		return
	}
	if err := s.store.CreateLibrary(library.Name, library.Icon, library.ReadOnly); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, libraryToPayload(library))
}

func (s *Server) handleLibraryFolders(w http.ResponseWriter, r *http.Request) {
	paths, err := s.store.LibraryFolders(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if paths == nil {
		paths = []string{}
	}
	s.writeJSON(w, http.StatusOK, paths)
}

func (s *Server) handleLibraryModels(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	objects, err := s.store.LibraryModels(name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	entries := make([]modelEntryPayload, 0, len(objects))
	for _, obj := range objects {
		entries = append(entries, modelEntryPayload{
			UUID: obj.UUID, Library: name, Folder: obj.Path, Name: obj.Name,
		})
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleLibraryMaterials(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	objects, err := s.store.LibraryMaterials(name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	entries := make([]materialEntryPayload, 0, len(objects))
	for _, obj := range objects {
		entries = append(entries, materialEntryPayload{
			UUID: obj.UUID, Library: name, Folder: obj.Path, Name: obj.Name,
		})
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGetModel(w http.ResponseWriter, r *http.Request) {
	library, model, err := s.store.GetModel(chi.URLParam(r, "uuid"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, modelToPayload(library.Name, model))
}

func (s *Server) handleGetMaterial(w http.ResponseWriter, r *http.Request) {
	library, material, err := s.store.GetMaterial(chi.URLParam(r, "uuid"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, materialToPayload(library.Name, material))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error().Err(err).Msg("unable to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrLibraryNotFound),
		errors.Is(err, types.ErrModelNotFound),
		errors.Is(err, types.ErrMaterialNotFound):
		status = http.StatusNotFound
	case errors.Is(err, types.ErrModelExists),
		errors.Is(err, types.ErrMaterialExists),
		errors.Is(err, types.ErrLibraryCreate):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("request failed")
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
