package tools

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/enreach/enreachvoice-mcp/pkg/debug"
	"github.com/enreach/enreachvoice-mcp/pkg/enreach"
)

// Contact is the tool-facing directory entry shape.
type Contact struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	WorkNumber   string `json:"worknumber,omitempty"`
	MobileNumber string `json:"mobilenumber,omitempty"`
	OtherNumber  string `json:"othernumber,omitempty"`
	Description  string `json:"description,omitempty"`
	Company      string `json:"company,omitempty"`
	Subcompany   string `json:"subcompany,omitempty"`
	Location     string `json:"location,omitempty"`
	Department   string `json:"department,omitempty"`
}

// FindContactInput holds the find_contact tool arguments.
type FindContactInput struct {
	Number string `json:"number" jsonschema_description:"Phone number to look up"`
}

// handleFindContact implements the find_contact tool. All directories are
// searched and matching entries from each are combined.
func (s *Server) handleFindContact(ctx context.Context, _ *mcp.CallToolRequest, in FindContactInput) (*mcp.CallToolResult, any, error) {
	number := strings.TrimSpace(in.Number)
	if number == "" {
		recordExecution("find_contact", true)
		return errorResult("number must not be empty"), nil, nil
	}

	directories, err := s.client.Directories(ctx)
	if err != nil {
		recordExecution("find_contact", true)
		return errorResult("listing directories: %v", err), nil, nil
	}

	var contacts []Contact
	for _, d := range directories {
		entries, err := s.client.DirectoryEntries(ctx, d.ID, enreach.EntryFilter{
			Number:   number,
			MaxCount: s.cfg.MaxDirectoryEntries,
		})
		if err != nil {
			recordExecution("find_contact", true)
			return errorResult("searching directory %q: %v", d.Name, err), nil, nil
		}
		for _, e := range entries {
			contacts = append(contacts, contactFromEntry(e))
		}
	}

	debug.Log("tools", "contact search done", "number", number, "matches", len(contacts))
	recordExecution("find_contact", false)

	if len(contacts) == 0 {
		return textResult("No directory entries found for number " + number), nil, nil
	}

	result, err := jsonResult(contacts)
	if err != nil {
		return nil, nil, err
	}
	return result, nil, nil
}

// contactFromEntry converts a wire directory entry to the tool shape.
func contactFromEntry(e enreach.DirectoryEntry) Contact {
	return Contact{
		ID:           e.ID,
		Name:         e.DisplayName(),
		Email:        e.Email,
		WorkNumber:   e.WorkNumber,
		MobileNumber: e.MobileNumber,
		OtherNumber:  e.OtherNumber,
		Description:  e.Description,
		Company:      e.Company,
		Subcompany:   e.Subcompany,
		Location:     e.Location,
		Department:   e.Department,
	}
}
