package workspace

import (
	"encoding/json"
	"fmt"

	"github.com/hoppscotch/hopp-cli/packages/core/collection"
	"github.com/hoppscotch/hopp-cli/packages/core/environment"
)

// The access-token endpoint serves collections in the workspace wire
// shape: folder metadata with auth and headers packed into a JSON string
// under "data", and each request's full payload stringified under
// "request". Transformation unpacks those into the canonical collection
// shape so callers never learn which source a document came from.

type wireCollection struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Data     string           `json:"data"`
	Folders  []wireCollection `json:"folders"`
	Requests []wireRequest    `json:"requests"`
}

type wireRequest struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Request string `json:"request"`
}

type wireCollectionData struct {
	Auth    collection.Auth       `json:"auth"`
	Headers []collection.KeyValue `json:"headers"`
}

type wireEnvironment struct {
	ID        string `json:"id"`
	TeamID    string `json:"teamID"`
	Name      string `json:"name"`
	Variables []struct {
		Key    string `json:"key"`
		Value  string `json:"value"`
		Secret bool   `json:"secret"`
	} `json:"variables"`
}

func transformCollection(raw []byte) ([]*collection.Collection, error) {
	var wire wireCollection
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decoding workspace collection: %w", err)
	}
	col, err := convertCollection(wire)
	if err != nil {
		return nil, err
	}
	return []*collection.Collection{col}, nil
}

func convertCollection(wire wireCollection) (*collection.Collection, error) {
	col := &collection.Collection{
		V:        2,
		ID:       wire.ID,
		Name:     wire.Title,
		Folders:  make([]*collection.Collection, 0, len(wire.Folders)),
		Requests: make([]*collection.Request, 0, len(wire.Requests)),
	}

	if wire.Data != "" && wire.Data != "null" {
		var data wireCollectionData
		if err := json.Unmarshal([]byte(wire.Data), &data); err != nil {
			return nil, fmt.Errorf("decoding collection %q data: %w", wire.Title, err)
		}
		col.Auth = data.Auth
		col.Headers = data.Headers
	} else {
		col.Auth = collection.Auth{Type: "inherit", Active: true}
	}

	for _, wireReq := range wire.Requests {
		req, err := convertRequest(wireReq)
		if err != nil {
			return nil, err
		}
		col.Requests = append(col.Requests, req)
	}

	for _, wireFolder := range wire.Folders {
		folder, err := convertCollection(wireFolder)
		if err != nil {
			return nil, err
		}
		col.Folders = append(col.Folders, folder)
	}

	return col, nil
}

func convertRequest(wire wireRequest) (*collection.Request, error) {
	var req collection.Request
	if err := json.Unmarshal([]byte(wire.Request), &req); err != nil {
		return nil, fmt.Errorf("decoding request %q: %w", wire.Title, err)
	}
	if req.Name == "" {
		req.Name = wire.Title
	}
	return &req, nil
}

func transformEnvironment(raw []byte) (*environment.Environment, error) {
	var wire wireEnvironment
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decoding workspace environment: %w", err)
	}

	env := &environment.Environment{
		V:         1,
		ID:        wire.ID,
		Name:      wire.Name,
		Variables: make([]environment.Variable, 0, len(wire.Variables)),
	}
	for _, v := range wire.Variables {
		env.Variables = append(env.Variables, environment.Variable{
			Key:    v.Key,
			Value:  v.Value,
			Secret: v.Secret,
		})
	}
	return env, nil
}
