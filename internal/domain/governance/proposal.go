package governance

import "strings"

const DefaultProposalName = "unnamed proposal"

// Proposal is never applied; it only exists as a record.
type Proposal struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

func NewProposal(name, content string) Proposal {
	if strings.TrimSpace(name) == "" {
		name = DefaultProposalName
	}
	return Proposal{Name: name, Content: content}
}
