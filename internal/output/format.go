// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"watchlater/internal/service"
)

const (
	// ListSeparator is the separator line for list sections.
	ListSeparator = "------------"
)

// FormatItemIndented formats an item line inside a list section.
// Format: "    {ID}  {TITLE}\n"
func FormatItemIndented(w io.Writer, item service.Item) {
	fmt.Fprintf(w, "    %s  %s\n", item.ID, singleLine(item.Title))
}

// FormatListHeader formats a list section header.
// The first list is marked as the default target of add.
func FormatListHeader(w io.Writer, list service.List, isDefault bool, count int) {
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintf(w, "%s (%d)\n", listLabel(list, isDefault), count)
	fmt.Fprintln(w, ListSeparator)
}

// FormatListName formats a list line for the lists command.
func FormatListName(w io.Writer, list service.List, isDefault bool, count int) {
	fmt.Fprintf(w, "%s  %s  %d\n", list.ID, listLabel(list, isDefault), count)
}

// FormatState writes st as indented JSON.
func FormatState(w io.Writer, st service.State) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(st)
}

func listLabel(list service.List, isDefault bool) string {
	name := singleLine(list.Name)
	if isDefault {
		name += " [default]"
	}
	return name
}

// singleLine replaces line breaks so one entry stays on one line.
func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
