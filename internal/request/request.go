// Package request validates inbound payloads before they reach the core.
package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"watchlater/internal/errors"
	"watchlater/internal/service"
)

type stateDoc struct {
	Version  *int            `json:"version"`
	Lists    *[]listDoc      `json:"lists"`
	Items    *[]itemDoc      `json:"items"`
	Settings *map[string]any `json:"settings"`
}

type listDoc struct {
	ID        *string `json:"id"`
	Name      *string `json:"name"`
	CreatedAt *int64  `json:"createdAt"`
}

type itemDoc struct {
	ID        *string `json:"id"`
	ListID    *string `json:"listId"`
	Title     *string `json:"title"`
	CreatedAt *int64  `json:"createdAt"`
}

// ParseState decodes an exported State, rejecting unknown fields, missing
// fields, wrong types and items that reference lists not in the payload.
// Repair of values (trimming, deduplicating IDs) is left to the store.
func ParseState(r io.Reader) (service.State, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return service.State{}, fmt.Errorf("read state: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var doc stateDoc
	if err := dec.Decode(&doc); err != nil {
		return service.State{}, errors.Wrap(err, errors.CategoryValidation, errors.SeverityError, "invalid state")
	}
	if dec.More() {
		return service.State{}, errors.InvalidState("$", "trailing data")
	}
	return doc.validate()
}

func (d stateDoc) validate() (service.State, error) {
	st := service.State{Version: service.SchemaVersion}

	if d.Version != nil {
		if *d.Version < 0 {
			return service.State{}, errors.InvalidState("version", "must not be negative")
		}
		st.Version = *d.Version
	}

	if d.Lists == nil {
		return service.State{}, errors.InvalidState("lists", "required")
	}
	if len(*d.Lists) == 0 {
		return service.State{}, errors.InvalidState("lists", "must not be empty")
	}
	listIDs := make(map[string]struct{}, len(*d.Lists))
	for i, l := range *d.Lists {
		field := fmt.Sprintf("lists[%d]", i)
		switch {
		case l.ID == nil || *l.ID == "":
			return service.State{}, errors.InvalidState(field+".id", "required")
		case l.Name == nil:
			return service.State{}, errors.InvalidState(field+".name", "required")
		case l.CreatedAt == nil:
			return service.State{}, errors.InvalidState(field+".createdAt", "required")
		}
		listIDs[*l.ID] = struct{}{}
		st.Lists = append(st.Lists, service.List{ID: *l.ID, Name: *l.Name, CreatedAt: *l.CreatedAt})
	}

	if d.Items == nil {
		return service.State{}, errors.InvalidState("items", "required")
	}
	st.Items = make([]service.Item, 0, len(*d.Items))
	for i, it := range *d.Items {
		field := fmt.Sprintf("items[%d]", i)
		switch {
		case it.ID == nil || *it.ID == "":
			return service.State{}, errors.InvalidState(field+".id", "required")
		case it.ListID == nil || *it.ListID == "":
			return service.State{}, errors.InvalidState(field+".listId", "required")
		case it.Title == nil:
			return service.State{}, errors.InvalidState(field+".title", "required")
		case it.CreatedAt == nil:
			return service.State{}, errors.InvalidState(field+".createdAt", "required")
		}
		if _, ok := listIDs[*it.ListID]; !ok {
			return service.State{}, errors.InvalidState(field+".listId", "unknown list "+*it.ListID)
		}
		st.Items = append(st.Items, service.Item{ID: *it.ID, ListID: *it.ListID, Title: *it.Title, CreatedAt: *it.CreatedAt})
	}

	st.Settings = map[string]any{}
	if d.Settings != nil && *d.Settings != nil {
		st.Settings = *d.Settings
	}
	return st, nil
}
