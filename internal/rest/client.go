package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dukaforge/materialdb/pkg/types"
)

// Client speaks the server's contract against a remote material store. Read
// methods return the same pkg/types objects as the local store.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for a server base URL, e.g.
// "http://127.0.0.1:8000".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/materialws",
		http:    http.DefaultClient,
	}
}

// Libraries lists every library on the server.
func (c *Client) Libraries(ctx context.Context) ([]*types.Library, error) {
	return c.getLibraries(ctx, "/library")
}

// ModelLibraries lists the libraries containing at least one model.
func (c *Client) ModelLibraries(ctx context.Context) ([]*types.Library, error) {
	return c.getLibraries(ctx, "/modellibrary")
}

// MaterialLibraries lists the libraries containing at least one material.
func (c *Client) MaterialLibraries(ctx context.Context) ([]*types.Library, error) {
	return c.getLibraries(ctx, "/materiallibrary")
}

func (c *Client) getLibraries(ctx context.Context, path string) ([]*types.Library, error) {
	var payloads []libraryPayload
	if err := c.get(ctx, path, &payloads); err != nil {
		return nil, err
	}

	libraries := make([]*types.Library, 0, len(payloads))
	for _, payload := range payloads {
		library, err := payloadToLibrary(payload)
		if err != nil {
			return nil, fmt.Errorf("decoding library %q: %w", payload.Name, err)
		}
		libraries = append(libraries, library)
	}
	return libraries, nil
}

// GetLibrary returns one library by name, or ErrLibraryNotFound.
func (c *Client) GetLibrary(ctx context.Context, name string) (*types.Library, error) {
	var payload libraryPayload
	if err := c.get(ctx, "/library/"+url.PathEscape(name), &payload); err != nil {
		return nil, err
	}
	return payloadToLibrary(payload)
}

// CreateLibrary creates a library on the server.
func (c *Client) CreateLibrary(ctx context.Context, name string, icon []byte, readOnly bool) error {
	payload := libraryToPayload(&types.Library{Name: name, Icon: icon, ReadOnly: readOnly})
	return c.post(ctx, "/library", payload)
}

// LibraryFolders lists the folder paths of a library.
func (c *Client) LibraryFolders(ctx context.Context, library string) ([]string, error) {
	var paths []string
	if err := c.get(ctx, "/libraryFolders/"+url.PathEscape(library), &paths); err != nil {
		return nil, err
	}
	return paths, nil
}

// LibraryModels lists the models of a library.
func (c *Client) LibraryModels(ctx context.Context, library string) ([]types.LibraryObject, error) {
	var entries []modelEntryPayload
	if err := c.get(ctx, "/libraryModels/"+url.PathEscape(library), &entries); err != nil {
		return nil, err
	}
	objects := make([]types.LibraryObject, 0, len(entries))
	for _, entry := range entries {
		objects = append(objects, types.LibraryObject{UUID: entry.UUID, Path: entry.Folder, Name: entry.Name})
	}
	return objects, nil
}

// LibraryMaterials lists the materials of a library.
func (c *Client) LibraryMaterials(ctx context.Context, library string) ([]types.LibraryObject, error) {
	var entries []materialEntryPayload
	if err := c.get(ctx, "/libraryMaterials/"+url.PathEscape(library), &entries); err != nil {
		return nil, err
	}
	objects := make([]types.LibraryObject, 0, len(entries))
	for _, entry := range entries {
		objects = append(objects, types.LibraryObject{UUID: entry.UUID, Path: entry.Folder, Name: entry.Name})
	}
	return objects, nil
}

// GetModel fetches a model and its owning library name.
func (c *Client) GetModel(ctx context.Context, uuid string) (string, *types.Model, error) {
	var payload modelPayload
	if err := c.get(ctx, "/model/"+url.PathEscape(uuid), &payload); err != nil {
		return "", nil, err
	}
	return payload.Library, payloadToModel(uuid, payload), nil
}

// GetMaterial fetches a material and its owning library name.
func (c *Client) GetMaterial(ctx context.Context, uuid string) (string, *types.Material, error) {
	var payload materialPayload
	if err := c.get(ctx, "/material/"+url.PathEscape(uuid), &payload); err != nil {
		return "", nil, err
	}
	material, err := payloadToMaterial(uuid, payload)
	if err != nil {
		return "", nil, err
	}
	return payload.Library, material, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrConnection, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrConnection, err)
	}
	defer resp.Body.Close()

	if err := statusError(path, resp.StatusCode); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s: %w", types.ErrConnection, path, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrConnection, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrConnection, err)
	}
	defer resp.Body.Close()
	return statusError(path, resp.StatusCode)
}

// statusError maps response codes back onto the store's sentinel errors so
// callers can switch backends without changing error handling.
func statusError(path string, status int) error {
	if status < http.StatusBadRequest {
		return nil
	}

	switch {
	case status == http.StatusNotFound && strings.HasPrefix(path, "/model/"):
		return types.ErrModelNotFound
	case status == http.StatusNotFound && strings.HasPrefix(path, "/material/"):
		return types.ErrMaterialNotFound
	case status == http.StatusNotFound:
		return types.ErrLibraryNotFound
	case status == http.StatusConflict && strings.HasPrefix(path, "/library"):
		return types.ErrLibraryCreate
	}
	return fmt.Errorf("%w: status %d on %s", types.ErrConnection, status, path)
}
