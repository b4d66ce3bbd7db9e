// Package rest exposes the material store over HTTP and provides a client
// speaking the same contract, usable as an alternate backend for remote
// stores.
package rest

import (
	"encoding/base64"
	"sort"

	"github.com/dukaforge/materialdb/pkg/types"
)

// Wire payloads. Field names are the transport contract with existing
// clients and must not change. Icons travel base64 encoded.

type libraryPayload struct {
	Name     string `json:"library_name"`
	Icon     string `json:"library_icon"`
	ReadOnly bool   `json:"library_read_only"`
}

type modelEntryPayload struct {
	UUID    string `json:"model_id"`
	Library string `json:"library"`
	Folder  string `json:"folder"`
	Name    string `json:"model_name"`
}

type materialEntryPayload struct {
	UUID    string `json:"material_id"`
	Library string `json:"library"`
	Folder  string `json:"folder"`
	Name    string `json:"material_name"`
}

type modelPropertyPayload struct {
	Name        string                 `json:"name"`
	DisplayName string                 `json:"display_name"`
	Type        string                 `json:"type"`
	Units       string                 `json:"units"`
	URL         string                 `json:"url"`
	Description string                 `json:"description"`
	Columns     []modelPropertyPayload `json:"columns,omitempty"`
}

type modelPayload struct {
	Library     string                 `json:"library"`
	Folder      string                 `json:"folder"`
	Type        string                 `json:"model_type"`
	Name        string                 `json:"model_name"`
	URL         string                 `json:"model_url"`
	Description string                 `json:"model_description"`
	DOI         string                 `json:"model_doi"`
	Inherits    []string               `json:"inherits"`
	Properties  []modelPropertyPayload `json:"properties"`
}

type array3DPayload struct {
	Columns int              `json:"columns"`
	Depths  []depth3DPayload `json:"depths"`
}

type depth3DPayload struct {
	Label string     `json:"label"`
	Rows  [][]string `json:"rows"`
}

type propertyValuePayload struct {
	Name    string          `json:"name"`
	Type    string          `json:"type"`
	Value   string          `json:"value,omitempty"`
	List    []string        `json:"list,omitempty"`
	Array2D [][]string      `json:"array_2d,omitempty"`
	Array3D *array3DPayload `json:"array_3d,omitempty"`
}

type materialPayload struct {
	Library          string                 `json:"library"`
	Folder           string                 `json:"folder"`
	Name             string                 `json:"material_name"`
	Author           string                 `json:"material_author"`
	License          string                 `json:"material_license"`
	Parent           string                 `json:"material_parent,omitempty"`
	Description      string                 `json:"material_description"`
	URL              string                 `json:"material_url"`
	Reference        string                 `json:"material_reference"`
	Tags             []string               `json:"tags"`
	PhysicalModels   []string               `json:"physical_models"`
	AppearanceModels []string               `json:"appearance_models"`
	Properties       []propertyValuePayload `json:"properties"`
}

func libraryToPayload(library *types.Library) libraryPayload {
	return libraryPayload{
		Name:     library.Name,
		Icon:     base64.StdEncoding.EncodeToString(library.Icon),
		ReadOnly: library.ReadOnly,
	}
}

func payloadToLibrary(payload libraryPayload) (*types.Library, error) {
	icon, err := base64.StdEncoding.DecodeString(payload.Icon)
	if err != nil {
		return nil, err
	}
	if len(icon) == 0 {
		icon = nil
	}
	return &types.Library{Name: payload.Name, Icon: icon, ReadOnly: payload.ReadOnly}, nil
}

func propertyToPayload(prop *types.ModelProperty) modelPropertyPayload {
	payload := modelPropertyPayload{
		Name:        prop.Name,
		DisplayName: prop.DisplayName,
		Type:        prop.Type,
		Units:       prop.Units,
		URL:         prop.URL,
		Description: prop.Description,
	}
	for _, column := range prop.Columns {
		payload.Columns = append(payload.Columns, propertyToPayload(column))
	}
	return payload
}

func payloadToProperty(payload modelPropertyPayload) *types.ModelProperty {
	prop := &types.ModelProperty{
		Name:        payload.Name,
		DisplayName: payload.DisplayName,
		Type:        payload.Type,
		Units:       payload.Units,
		URL:         payload.URL,
		Description: payload.Description,
	}
	for _, column := range payload.Columns {
		prop.AddColumn(payloadToProperty(column))
	}
	return prop
}

func modelToPayload(libraryName string, model *types.Model) modelPayload {
	payload := modelPayload{
		Library:     libraryName,
		Folder:      model.Directory,
		Type:        model.Type,
		Name:        model.Name,
		URL:         model.URL,
		Description: model.Description,
		DOI:         model.DOI,
		Inherits:    model.Inherited,
	}
	// Stable order for clients diffing responses.
	names := make([]string, 0, len(model.Properties))
	for name := range model.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		payload.Properties = append(payload.Properties, propertyToPayload(model.Properties[name]))
	}
	return payload
}

func payloadToModel(uuid string, payload modelPayload) *types.Model {
	model := &types.Model{
		UUID:        uuid,
		Type:        payload.Type,
		Name:        payload.Name,
		URL:         payload.URL,
		Description: payload.Description,
		DOI:         payload.DOI,
		Directory:   payload.Folder,
		Inherited:   payload.Inherits,
	}
	for _, prop := range payload.Properties {
		model.AddProperty(payloadToProperty(prop))
	}
	return model
}

func valueToPayload(name string, value *types.PropertyValue) propertyValuePayload {
	payload := propertyValuePayload{Name: name, Type: value.Type}
	switch types.ShapeOf(value.Type) {
	case types.ShapeString, types.ShapeLongString:
		payload.Value = value.String
	case types.ShapeStringList, types.ShapeLongStringList:
		payload.List = value.List
	case types.ShapeArray2D:
		if value.Array2D != nil {
			payload.Array2D = array2DToRows(value.Array2D)
		}
	case types.ShapeArray3D:
		if value.Array3D != nil {
			payload.Array3D = array3DToPayload(value.Array3D)
		}
	}
	return payload
}

func payloadToValue(payload propertyValuePayload) (*types.PropertyValue, error) {
	value := &types.PropertyValue{Type: payload.Type}
	switch types.ShapeOf(payload.Type) {
	case types.ShapeString, types.ShapeLongString:
		value.String = payload.Value
	case types.ShapeStringList, types.ShapeLongStringList:
		value.List = payload.List
		if value.List == nil {
			value.List = []string{}
		}
	case types.ShapeArray2D:
		array, err := rowsToArray2D(payload.Array2D)
		if err != nil {
			return nil, err
		}
		value.Array2D = array
	case types.ShapeArray3D:
		if payload.Array3D == nil {
			break
		}
		array, err := payloadToArray3D(payload.Array3D)
		if err != nil {
			return nil, err
		}
		value.Array3D = array
	}
	return value, nil
}

func array2DToRows(array *types.Array2D) [][]string {
	out := make([][]string, array.Rows())
	for row := 0; row < array.Rows(); row++ {
		out[row] = make([]string, array.Columns())
		for column := 0; column < array.Columns(); column++ {
			cell, _ := array.Value(row, column)
			out[row][column] = cell
		}
	}
	return out
}

func rowsToArray2D(rows [][]string) (*types.Array2D, error) {
	columns := 0
	if len(rows) > 0 {
		columns = len(rows[0])
	}
	array := types.NewArray2D(len(rows), columns)
	for row, cells := range rows {
		for column, cell := range cells {
			if err := array.SetValue(row, column, cell); err != nil {
				return nil, err
			}
		}
	}
	return array, nil
}

func array3DToPayload(array *types.Array3D) *array3DPayload {
	payload := &array3DPayload{Columns: array.Columns()}
	for depth := 0; depth < array.Depth(); depth++ {
		label, _ := array.DepthLabel(depth)
		depthRows, _ := array.DepthRows(depth)
		rows := make([][]string, depthRows)
		for row := 0; row < depthRows; row++ {
			rows[row] = make([]string, array.Columns())
			for column := 0; column < array.Columns(); column++ {
				cell, _ := array.Value(depth, row, column)
				rows[row][column] = cell
			}
		}
		payload.Depths = append(payload.Depths, depth3DPayload{Label: label, Rows: rows})
	}
	return payload
}

func payloadToArray3D(payload *array3DPayload) (*types.Array3D, error) {
	array := types.NewArray3D(payload.Columns)
	for _, depth := range payload.Depths {
		index := array.AddDepth(depth.Label, len(depth.Rows))
		for row, cells := range depth.Rows {
			for column, cell := range cells {
				if err := array.SetValue(index, row, column, cell); err != nil {
					return nil, err
				}
			}
		}
	}
	return array, nil
}

func materialToPayload(libraryName string, material *types.Material) materialPayload {
	payload := materialPayload{
		Library:          libraryName,
		Folder:           material.Directory,
		Name:             material.Name,
		Author:           material.Author,
		License:          material.License,
		Parent:           material.Parent,
		Description:      material.Description,
		URL:              material.URL,
		Reference:        material.Reference,
		Tags:             material.Tags,
		PhysicalModels:   material.PhysicalModels,
		AppearanceModels: material.AppearanceModels,
	}
	names := make([]string, 0, len(material.Properties))
	for name := range material.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		payload.Properties = append(payload.Properties, valueToPayload(name, material.Properties[name]))
	}
	return payload
}

func payloadToMaterial(uuid string, payload materialPayload) (*types.Material, error) {
	material := &types.Material{
		UUID:             uuid,
		Name:             payload.Name,
		Author:           payload.Author,
		License:          payload.License,
		Parent:           payload.Parent,
		Description:      payload.Description,
		URL:              payload.URL,
		Reference:        payload.Reference,
		Directory:        payload.Folder,
		Tags:             payload.Tags,
		PhysicalModels:   payload.PhysicalModels,
		AppearanceModels: payload.AppearanceModels,
	}
	for _, prop := range payload.Properties {
		value, err := payloadToValue(prop)
		if err != nil {
			return nil, err
		}
		material.SetValue(prop.Name, value)
	}
	return material, nil
}
